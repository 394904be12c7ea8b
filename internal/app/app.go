// Package app wires the application together: configuration, logging,
// services and the HTTP server, with coordinated startup and shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"fleetsnap/internal/config"
	"fleetsnap/internal/insights"
	"fleetsnap/internal/services"
	transport "fleetsnap/internal/transport/http"
	"fleetsnap/pkg/contracts"
)

// Application owns the assembled components and the HTTP server.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApplication loads configuration and builds the full component
// graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Logging)

	snapshots, err := services.NewSnapshotService(cfg.Storage.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("init snapshot service: %w", err)
	}

	insightClient := insights.NewClient(cfg.Insights)
	insightSvc := insights.NewService(insightClient, insights.NewCache(), logger)
	reports := services.NewReportService(cfg.Storage.Dir, insightSvc, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	router := transport.NewRouter(cfg, snapshots, reports, registry, logger)

	return &Application{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// Run starts the server and blocks until an interrupt arrives or the
// server fails, then shuts down within the configured grace period.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", contracts.Version),
		)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down", slog.Duration("grace", a.cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLogger builds the slog root logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
