package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"medlab-backend/internal/config"
	"medlab-backend/internal/handlers"
	"medlab-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires middleware, the /api routes, /health and /metrics.
func NewRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		corsMiddleware(cfg),
		metrics.Handler(),
	)

	h := handlers.New(db, log)
	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, log))
	h.RegisterRoutes(api)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})
	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(cc)
}

// Run serves r on cfg.ListenPort until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg *config.Config, r http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.ListenPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
