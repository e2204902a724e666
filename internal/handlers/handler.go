package handlers

import (
	"context"
	"net/http"
	"time"

	"medlab-backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler serves the /api endpoints. It holds no per-request state; the
// connection pool in db is shared by all requests.
type Handler struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a Handler backed by db.
func New(db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{db: db, log: log}
}

// RegisterRoutes mounts the API on api, which is normally the /api group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/page", h.ListPatientsPage)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.POST("/tests", h.CreateTestResult)
	api.GET("/tests", h.ListTestResults)
	api.GET("/tests/stats", h.TestStats)
	api.GET("/tests/patient/:patient_id", h.ListTestResultsByPatient)

	api.POST("/companies", h.CreateCompany)
	api.GET("/companies", h.ListCompanies)

	api.GET("/dashboard", h.Dashboard)
}

// Health reports whether the database answers a ping.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) conn(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context())
}
