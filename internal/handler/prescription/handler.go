package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/prescription"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /prescriptions for doctors. Every lookup is scoped to
// the caller, so another doctor's prescription reads as not found.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := middleware.Require(guard.OpRead, model.EntityPrescriptions)
	write := middleware.Require(guard.OpWrite, model.EntityPrescriptions)

	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", write, h.CreatePrescription)
		prescriptions.GET("", read, h.ListPrescriptions)
		prescriptions.GET("/:id", read, h.GetPrescription)
		prescriptions.PUT("/:id", write, h.UpdatePrescription)
		prescriptions.DELETE("/:id", write, h.DeletePrescription)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.Capabilities(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusCreated, "Prescription created successfully", p)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	params, ok := handler.ListParams(c)
	if !ok {
		return
	}

	items, page, err := h.service.List(c.Request.Context(), middleware.Capabilities(c), params)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Prescriptions retrieved successfully", handler.List("prescriptions", items, page))
}

func (h *Handler) GetPrescription(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), middleware.Capabilities(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Prescription retrieved successfully", p)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	var req model.UpdatePrescriptionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), middleware.Capabilities(c), c.Param("id"), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Prescription updated successfully", p)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), middleware.Capabilities(c), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Prescription deleted successfully", nil)
}
