package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /patients on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := middleware.Require(guard.OpRead, model.EntityPatients)
	write := middleware.Require(guard.OpWrite, model.EntityPatients)

	patients := r.Group("/patients")
	{
		patients.POST("", write, h.CreatePatient)
		patients.GET("", read, h.ListPatients)
		patients.GET("/:id", read, h.GetPatient)
		patients.PUT("/:id", write, h.UpdatePatient)
		patients.DELETE("/:id", write, h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusCreated, "Patient created successfully", p)
}

func (h *Handler) ListPatients(c *gin.Context) {
	params, ok := handler.ListParams(c)
	if !ok {
		return
	}

	patients, page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Patients retrieved successfully", handler.List("patients", patients, page))
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Patient retrieved successfully", p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Patient updated successfully", p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Patient deleted successfully", nil)
}
