package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"claimos/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLoggedRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/sessions/:id/state", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/claims/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestLogger_TagsSessionRequests(t *testing.T) {
	buf := captureLog(t)
	r := newLoggedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/sessions/sess-1/state", nil)
	r.ServeHTTP(w, req)

	assert.Contains(t, buf.String(), "GET /api/v1/sessions/sess-1/state 200")
	assert.Contains(t, buf.String(), "session=sess-1")
}

func TestLogger_NonSessionIDIsNotTagged(t *testing.T) {
	buf := captureLog(t)
	r := newLoggedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/claims/42", nil)
	r.ServeHTTP(w, req)

	assert.Contains(t, buf.String(), "GET /api/v1/claims/42 200")
	assert.NotContains(t, buf.String(), "session=")
}

func TestLogger_SkipsHealthProbes(t *testing.T) {
	buf := captureLog(t)
	r := newLoggedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Empty(t, buf.String())
}

func TestRequestID_GeneratesAndEchoesHeader(t *testing.T) {
	captureLog(t)
	r := newLoggedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/claims/42", nil)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/42", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-abc", w.Header().Get("X-Request-ID"))
}
