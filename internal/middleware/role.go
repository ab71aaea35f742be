package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Require lets the request through only when the caller may perform op on kind.
func Require(op guard.Operation, kind model.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Capabilities(c).Require(op, kind); err != nil {
			httputil.Abort(c, err)
			return
		}
		c.Next()
	}
}
