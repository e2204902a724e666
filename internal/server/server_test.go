package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"medlab-backend/internal/config"
	"medlab-backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	cfg.DatabaseURI = filepath.Join(t.TempDir(), "lab.db")
	cfg.DBMaxOpenConns = 1
	db, err := database.Open(cfg, zerolog.Nop())
	assert.NilError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	assert.NilError(t, database.Migrate(db))
	return NewRouter(cfg, db, zerolog.Nop())
}

func get(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_CORSAnyOrigin(t *testing.T) {
	r := newTestRouter(t, &config.Config{Env: "test", CORSOrigins: []string{"*"}})

	w := get(r, "/api/patients", http.Header{"Origin": {"http://localhost:3000"}})
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
	assert.Assert(t, w.Header().Get("X-Request-ID") != "")
}

func TestRouter_CORSRestricted(t *testing.T) {
	r := newTestRouter(t, &config.Config{Env: "test", CORSOrigins: []string{"https://lab.example.com"}})

	w := get(r, "/api/patients", http.Header{"Origin": {"https://lab.example.com"}})
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "https://lab.example.com")

	w = get(r, "/api/patients", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, w.Code, http.StatusForbidden)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, &config.Config{Env: "test"})

	assert.Equal(t, get(r, "/health", nil).Code, http.StatusOK)
	get(r, "/api/companies", nil)

	w := get(r, "/metrics", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	body := w.Body.String()
	assert.Assert(t, strings.Contains(body, `medlab_http_requests_total{method="GET",route="/api/companies",status="200"} 1`), body)
}

func TestRouter_NoRoute(t *testing.T) {
	r := newTestRouter(t, &config.Config{Env: "test"})

	w := get(r, "/api/unknown", nil)
	assert.Equal(t, w.Code, http.StatusNotFound)
	assert.Equal(t, w.Body.String(), `{"message":"Not found"}`)
}

func TestRouter_RateLimitOnlyOnAPI(t *testing.T) {
	r := newTestRouter(t, &config.Config{Env: "test", RateLimitRPS: 0.001, RateLimitBurst: 1})

	assert.Equal(t, get(r, "/api/patients", nil).Code, http.StatusOK)
	assert.Equal(t, get(r, "/api/patients", nil).Code, http.StatusTooManyRequests)
	assert.Equal(t, get(r, "/health", nil).Code, http.StatusOK)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, &config.Config{ListenPort: "0"}, http.NotFoundHandler(), zerolog.Nop())
	assert.NilError(t, err)
}

func TestNewRouter_LeavesGinModeAlone(t *testing.T) {
	newTestRouter(t, &config.Config{Env: "production"})
	assert.Equal(t, gin.Mode(), gin.TestMode)
}
