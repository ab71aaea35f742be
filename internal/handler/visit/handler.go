package visit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/visit"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *visit.Service
}

func NewHandler(service *visit.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /visits. Doctors may read, scoped to their own visits;
// only admins write.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := middleware.Require(guard.OpRead, model.EntityVisits)
	write := middleware.Require(guard.OpWrite, model.EntityVisits)

	visits := r.Group("/visits")
	{
		visits.POST("", write, h.CreateVisit)
		visits.GET("", read, h.ListVisits)
		visits.GET("/severity-trend/:patientId", read, h.SeverityTrend)
		visits.GET("/:id", read, h.GetVisit)
		visits.PUT("/:id", write, h.UpdateVisit)
		visits.DELETE("/:id", write, h.DeleteVisit)
	}
}

func (h *Handler) CreateVisit(c *gin.Context) {
	var req model.CreateVisitRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusCreated, "Visit created successfully", v)
}

func (h *Handler) ListVisits(c *gin.Context) {
	params, ok := handler.ListParams(c)
	if !ok {
		return
	}

	visits, page, err := h.service.List(c.Request.Context(), middleware.Capabilities(c), params)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Visits retrieved successfully", handler.List("visits", visits, page))
}

func (h *Handler) GetVisit(c *gin.Context) {
	v, err := h.service.Get(c.Request.Context(), middleware.Capabilities(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Visit retrieved successfully", v)
}

func (h *Handler) UpdateVisit(c *gin.Context) {
	var req model.UpdateVisitRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.Update(c.Request.Context(), middleware.Capabilities(c), c.Param("id"), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Visit updated successfully", v)
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), middleware.Capabilities(c), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Visit deleted successfully", nil)
}

// SeverityTrend returns the patient's visits oldest first with each one's
// change against the visit before it.
func (h *Handler) SeverityTrend(c *gin.Context) {
	points, err := h.service.SeverityTrend(c.Request.Context(), middleware.Capabilities(c), c.Param("patientId"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Severity trend retrieved successfully", points)
}
