package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator map[string]model.Actor

func (s stubAuthenticator) Authenticate(token string) (model.Actor, *auth.Claims, error) {
	if token == "" {
		return model.Actor{}, nil, apperrors.NewUnauthorized("Access denied. No token provided.", nil)
	}
	actor, ok := s[token]
	if !ok {
		return model.Actor{}, nil, apperrors.NewUnauthorized("Invalid token.", nil)
	}
	return actor, &auth.Claims{UserID: actor.UserID}, nil
}

func do(r http.Handler, method, path string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Error)
	return body.Message
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestAuthenticateAndRequire(t *testing.T) {
	r := gin.New()
	authn := stubAuthenticator{
		"admin":  {UserID: "admin_hospital", Role: model.RoleAdmin},
		"doctor": {UserID: "dr_a", Role: model.RoleDoctor, DoctorID: "DOC-A"},
	}
	r.GET("/patients", Authenticate(authn), Require(guard.OpRead, model.EntityPatients), func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		require.NotNil(t, ClaimsFrom(c))
		c.String(http.StatusOK, actor.UserID)
	})

	w := do(r, http.MethodGet, "/patients", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", message(t, w))

	w = do(r, http.MethodGet, "/patients", nil, http.Header{"Authorization": {"Token admin"}})
	assert.Equal(t, "Access denied. No token provided.", message(t, w))

	w = do(r, http.MethodGet, "/patients", nil, bearer("forged"))
	assert.Equal(t, "Invalid token.", message(t, w))

	w = do(r, http.MethodGet, "/patients", nil, bearer("doctor"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, guard.MsgAdminRequired, message(t, w))

	w = do(r, http.MethodGet, "/patients", nil, bearer("admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin_hospital", w.Body.String())
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2}).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", nil, nil).Code)
	}
	w := do(r, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, MsgRateLimited, message(t, w))

	other := http.Header{"X-Forwarded-For": {"10.1.2.3"}}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", nil, other).Code)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(8), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodPost, "/upload", strings.NewReader("0123456789"), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, MsgTooLarge, message(t, w))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/upload", strings.NewReader("0123"), nil).Code)
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(SecurityConfig{}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := do(r, http.MethodGet, "/", nil, nil)
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
	assert.Equal(t, w.Header().Get(HeaderXRequestID), w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = do(r, http.MethodGet, "/", nil, http.Header{HeaderXRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))

	for _, rejected := range []string{"bad id\nlevel=error", strings.Repeat("a", 129), "<script>"} {
		w = do(r, http.MethodGet, "/", nil, http.Header{HeaderXRequestID: {rejected}})
		got := w.Header().Get(HeaderXRequestID)
		assert.NotEqual(t, rejected, got)
		assert.Len(t, got, 36)
	}
}

func TestRecoveryAndLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Output: &buf})
	r := gin.New()
	r.Use(RequestID(), Logger(log, metrics.NewTestMetrics()), Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", message(t, w))
	assert.Contains(t, buf.String(), "Request panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(NotFound())
	r.NoMethod(MethodNotAllowed())
	r.GET("/only-get", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgEndpointNotFound, message(t, w))

	w = do(r, http.MethodPost, "/only-get", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, MsgMethodNotAllowed, message(t, w))
}
