// Package handler holds what the resource handlers share: request binding,
// list parameters and the list payload.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

const MsgValidationFailed = "Validation failed"

// Handler is implemented by every resource handler.
type Handler interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// BindJSON decodes and validates the body into req. On failure it writes the
// 400 response and returns false.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.Fail(c, http.StatusBadRequest, MsgValidationFailed, validator.Messages(err)...)
		return false
	}
	return true
}

// ListParams reads search, page and limit from the query string.
func ListParams(c *gin.Context) (model.ListParams, bool) {
	var p model.ListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.Fail(c, http.StatusBadRequest, MsgValidationFailed, validator.Messages(err)...)
		return p, false
	}
	return p.Normalize(), true
}

// List is the data of every list response, e.g. {"patients": [...], "pagination": {...}}.
func List(key string, items interface{}, p model.Pagination) gin.H {
	return gin.H{key: items, "pagination": p}
}
