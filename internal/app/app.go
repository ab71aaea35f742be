// Package app wires repositories and services for the API server and the
// CLI, and mounts the HTTP router on them.
package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/guard"
	authHandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	prescriptionHandler "github.com/jwalitptl/hospital-api/internal/handler/prescription"
	uploadHandler "github.com/jwalitptl/hospital-api/internal/handler/upload"
	visitHandler "github.com/jwalitptl/hospital-api/internal/handler/visit"
	"github.com/jwalitptl/hospital-api/internal/ingest"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/notify"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/router"
	authService "github.com/jwalitptl/hospital-api/internal/service/auth"
	doctorService "github.com/jwalitptl/hospital-api/internal/service/doctor"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	prescriptionService "github.com/jwalitptl/hospital-api/internal/service/prescription"
	uploadService "github.com/jwalitptl/hospital-api/internal/service/upload"
	visitService "github.com/jwalitptl/hospital-api/internal/service/visit"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const denylistCleanup = 10 * time.Minute

// Deps are the collaborators built outside the app. Only Repos is required.
type Deps struct {
	Repos    *repository.Repositories
	Broker   messaging.Broker
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Hasher   security.PasswordHasher
	Logger   *logger.Logger
}

type App struct {
	Repos         *repository.Repositories
	Auth          *authService.Service
	Doctors       *doctorService.Service
	Patients      *patientService.Service
	Visits        *visitService.Service
	Prescriptions *prescriptionService.Service
	Upload        *uploadService.Service
	Events        *messaging.EventPublisher
	Logger        *logger.Logger

	deps Deps
}

func New(cfg *config.Config, deps Deps) *App {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = security.NewBcryptHasher(0)
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	repos := deps.Repos
	refs := guard.NewReferences(repos)

	a := &App{Repos: repos, Logger: log, deps: deps}
	a.Doctors = doctorService.NewService(repos.Doctors, hasher, log)
	a.Patients = patientService.NewService(repos.Patients, log)
	a.Visits = visitService.NewService(repos, refs, log)
	a.Prescriptions = prescriptionService.NewService(repos, refs, log)
	a.Auth = authService.NewService(
		repos.Doctors,
		auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		auth.NewDenylist(denylistCleanup),
		hasher,
		log,
	)

	a.Events = messaging.NewEventPublisher(deps.Broker, cfg.Redis.Channel)
	pipeline := ingest.NewPipeline(repos, ingest.WithLogger(log), ingest.WithMetrics(deps.Metrics))
	a.Upload = uploadService.NewService(pipeline, a.Events, notifier, deps.Metrics, log)

	return a
}

// NewRouter mounts the HTTP surface on the services.
func (a *App) NewRouter(cfg *config.Config) *router.Router {
	r := router.NewRouter(routerConfig(cfg), a.Auth, router.Handlers{
		Auth:          authHandler.NewHandler(a.Auth),
		Patients:      patientHandler.NewHandler(a.Patients),
		Doctors:       doctorHandler.NewHandler(a.Doctors),
		Visits:        visitHandler.NewHandler(a.Visits),
		Prescriptions: prescriptionHandler.NewHandler(a.Prescriptions),
		Upload:        uploadHandler.NewHandler(a.Upload, cfg.Upload.MaxBytes),
		Health:        health.NewHandler(a.Repos.Health, a.deps.Gatherer),
	}, a.Logger, a.deps.Metrics)
	r.Setup()
	return r
}

func routerConfig(cfg *config.Config) router.RouterConfig {
	mode := gin.ReleaseMode
	switch cfg.Server.Env {
	case "", "development":
		mode = gin.DebugMode
	case "test":
		mode = gin.TestMode
	}

	rc := router.RouterConfig{
		Mode:        mode,
		CORSOrigins: cfg.CORS.Origins,
		RateLimit: middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		},
	}
	if !cfg.IsDevelopment() {
		rc.Security.HSTSMaxAge = 31536000
	}
	return rc
}
