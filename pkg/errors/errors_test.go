package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NewNotFound("Visit", nil), http.StatusNotFound},
		{"bad request", NewBadRequest("Validation failed", nil), http.StatusBadRequest},
		{"conflict", NewConflict("Visit ID already exists", nil), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("Invalid token.", nil), http.StatusUnauthorized},
		{"forbidden", NewForbidden("Access denied."), http.StatusForbidden},
		{"too large", NewTooLarge("File too large"), http.StatusRequestEntityTooLarge},
		{"internal", NewInternal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	base := NewNotFound("Patient", nil)
	wrapped := fmt.Errorf("failed to get patient: %w", base)

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Patient not found", got.Message)
	assert.True(t, IsCode(wrapped, ErrNotFound))
	assert.False(t, IsCode(wrapped, ErrForbidden))
}

func TestWithDetailsReturnsCopy(t *testing.T) {
	base := NewBadRequest("Patient not found", nil)
	withDetails := base.WithDetails("patient_id P1 does not exist")

	assert.Empty(t, base.Details)
	assert.Equal(t, []string{"patient_id P1 does not exist"}, withDetails.Details)
}
