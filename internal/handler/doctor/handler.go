package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := middleware.Require(guard.OpRead, model.EntityDoctors)
	write := middleware.Require(guard.OpWrite, model.EntityDoctors)

	doctors := r.Group("/doctors")
	{
		doctors.POST("", write, h.CreateDoctor)
		doctors.GET("", read, h.ListDoctors)
		doctors.GET("/:id", read, h.GetDoctor)
		doctors.PUT("/:id", write, h.UpdateDoctor)
		doctors.DELETE("/:id", write, h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusCreated, "Doctor created successfully", d)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	params, ok := handler.ListParams(c)
	if !ok {
		return
	}

	doctors, page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Doctors retrieved successfully", handler.List("doctors", doctors, page))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Doctor retrieved successfully", d)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Doctor updated successfully", d)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if _, err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Success(c, http.StatusOK, "Doctor deleted successfully", nil)
}
