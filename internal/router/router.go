package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

type RouterConfig struct {
	// Mode is a gin mode: debug, release or test.
	Mode        string
	CORSOrigins []string
	RateLimit   middleware.RateLimiterConfig
	Security    middleware.SecurityConfig
}

// Handlers are mounted under /api. Auth registers its own public and
// protected routes; the resource handlers go behind Authenticate.
type Handlers struct {
	Auth          handler.Handler
	Patients      handler.Handler
	Doctors       handler.Handler
	Visits        handler.Handler
	Prescriptions handler.Handler
	Upload        handler.Handler
	Health        *health.Handler
}

type Router struct {
	engine   *gin.Engine
	authn    middleware.Authenticator
	handlers Handlers
}

func NewRouter(cfg RouterConfig, authn middleware.Authenticator, handlers Handlers, log *logger.Logger, m *metrics.Metrics) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if err := validator.Register(); err != nil {
		log.Error(err, "failed to register request validators")
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(middleware.NotFound())
	engine.NoMethod(middleware.MethodNotAllowed())

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log, m),
		middleware.Recovery(log),
		middleware.SecurityHeaders(cfg.Security),
		middleware.CORS(cfg.CORSOrigins),
	)
	if cfg.RateLimit.Rate > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}

	return &Router{engine: engine, authn: authn, handlers: handlers}
}

// Setup mounts every route.
func (r *Router) Setup() {
	if h := r.handlers.Health; h != nil {
		r.engine.GET("/metrics", h.Metrics())
	}

	api := r.engine.Group("/api")
	if h := r.handlers.Health; h != nil {
		h.RegisterRoutes(api)
	}
	if h := r.handlers.Auth; h != nil {
		h.RegisterRoutes(api)
	}

	protected := api.Group("", middleware.Authenticate(r.authn))
	for _, h := range []handler.Handler{
		r.handlers.Patients,
		r.handlers.Doctors,
		r.handlers.Visits,
		r.handlers.Prescriptions,
		r.handlers.Upload,
	} {
		if h != nil {
			h.RegisterRoutes(protected)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
