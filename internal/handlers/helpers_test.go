package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"medlab-backend/internal/config"
	"medlab-backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gotest.tools/v3/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{DatabaseURI: filepath.Join(t.TempDir(), "lab.db"), DBMaxOpenConns: 1}
	db, err := database.Open(cfg, zerolog.Nop())
	assert.NilError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	assert.NilError(t, database.Migrate(db))

	h := New(db, zerolog.Nop())
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	r.GET("/health", h.Health)
	return &testAPI{t: t, db: db, router: r}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		assert.NilError(a.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["message"].(string)
}

func validPatient(code string) map[string]any {
	return map[string]any{
		"full_name":      "Asha Verma",
		"age":            34,
		"gender":         "female",
		"contact_number": "9876543210",
		"email":          "asha@example.com",
		"patient_code":   code,
		"address":        "12 MG Road",
	}
}
