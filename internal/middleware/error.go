package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	MsgEndpointNotFound = "Endpoint not found"
	MsgMethodNotAllowed = "Method not allowed"
)

func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		httputil.Fail(c, http.StatusNotFound, MsgEndpointNotFound)
	}
}

func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		httputil.Fail(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	}
}
