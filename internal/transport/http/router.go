package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetsnap/internal/config"
	apierrors "fleetsnap/internal/errors"
	"fleetsnap/internal/middleware"
	"fleetsnap/internal/services"
	"fleetsnap/pkg/contracts"
)

// NewRouter assembles the full HTTP surface: middleware chain, the
// snapshot API, health and metrics.
func NewRouter(
	cfg *config.Config,
	snapshots *services.SnapshotService,
	reports *services.ReportService,
	registry *prometheus.Registry,
	logger *slog.Logger,
) http.Handler {
	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(middleware.NewRequestMetrics(registry).Handler)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger).Handler)
	}

	snapshotHandler := NewSnapshotHandler(snapshots, reports, cfg.Server.MaxUploadBytes, logger, errorHandler)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/snapshots", snapshotHandler.Routes())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"status":  "ok",
			"version": contracts.Version,
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.NotFound(errorHandler.NotFound)
	return r
}
