// Package app assembles the HTTP service: configuration, logging, the
// middleware chain and the extraction routes, plus graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"eclcli/internal/config"
	"eclcli/internal/infrastructure"
	"eclcli/internal/middleware"
	"eclcli/internal/services"
	transport "eclcli/internal/transport/http"
)

// Application owns the HTTP server lifecycle.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApplication loads configuration and builds the router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	service := services.NewExtractionService(logger)
	extractHandler := transport.NewExtractHandler(service, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	r.Get("/healthz", transport.HealthHandler)
	r.Method(http.MethodGet, "/metrics", transport.MetricsHandler())
	r.Mount("/api/v1/extract", extractHandler.Routes())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, logger: logger, server: server}, nil
}

// Run starts the server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
