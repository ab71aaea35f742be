package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/pkg/errors"
)

const MsgInternal = "Internal server error"

// Response is the envelope of every API response.
type Response struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Details []string    `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a successful envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Message: message, Data: data})
}

// Error writes err as an envelope. Errors that are not *errors.AppError become a 500.
func Error(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

// Fail writes an error envelope with an explicit status.
func Fail(c *gin.Context, status int, message string, details ...string) {
	c.AbortWithStatusJSON(status, Response{Error: true, Message: message, Details: details})
}

func errorBody(err error) (int, Response) {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError, Response{Error: true, Message: MsgInternal}
	}
	status := appErr.HTTPStatus()
	msg := appErr.Message
	if status == http.StatusInternalServerError {
		msg = MsgInternal
	}
	return status, Response{Error: true, Message: msg, Details: appErr.Details}
}
