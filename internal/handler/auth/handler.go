package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth. Only login is public.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/auth")
	g.POST("/login", h.Login)

	protected := g.Group("", middleware.Authenticate(h.svc))
	protected.GET("/verify", h.Verify)
	protected.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Login successful", resp)
}

func (h *Handler) Verify(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	httputil.Success(c, http.StatusOK, "Token is valid", gin.H{"user": actor.UserInfo()})
}

func (h *Handler) Logout(c *gin.Context) {
	h.svc.Logout(middleware.ClaimsFrom(c))
	httputil.Success(c, http.StatusOK, "Logout successful", nil)
}
