package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, "Patient created successfully", gin.H{"patient_id": "PAT-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "Patient created successfully", body["message"])
	assert.NotContains(t, body, "details")
	assert.Equal(t, map[string]interface{}{"patient_id": "PAT-1"}, body["data"])
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details []interface{}
	}{
		{"bad request", apperrors.NewBadRequest("Patient ID mismatch", nil).WithDetails("The patient_id does not match the visit patient"),
			http.StatusBadRequest, "Patient ID mismatch", []interface{}{"The patient_id does not match the visit patient"}},
		{"forbidden", apperrors.NewForbidden("Access denied. Admin privileges required."),
			http.StatusForbidden, "Access denied. Admin privileges required.", nil},
		{"plain error hides cause", errors.New("pq: connection refused"),
			http.StatusInternalServerError, MsgInternal, nil},
		{"internal app error hides cause", apperrors.NewInternal(errors.New("boom")),
			http.StatusInternalServerError, MsgInternal, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tt.message, body["message"])
			if tt.details == nil {
				assert.NotContains(t, body, "details")
			} else {
				assert.Equal(t, tt.details, body["details"])
			}
		})
	}
}

func TestAbortStopsChain(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, apperrors.NewUnauthorized("Invalid token.", nil))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
