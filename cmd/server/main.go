// Package main is the entry point for StockCircle, a server-rendered front end for a
// portfolio-tracking and social stock-list backend.
//
// The process serves one operator: it keeps a single session, persisted in client.db,
// and renders every page from data fetched from the configured backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/di"
	"github.com/aristath/stockcircle/internal/server"
	"github.com/aristath/stockcircle/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container (client.db, session, backend client, views)
// 4. Starts the HTTP server and the maintenance scheduler
// 5. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("backend_url", cfg.BackendURL).Msg("Starting StockCircle")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	srv, err := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		DevMode:   cfg.DevMode,
	})
	if err != nil {
		container.Close()
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Probe once so the first page already knows whether the backend is up
	if err := container.Scheduler.RunNow(jobs.BackendHealthProbe); err != nil {
		log.Warn().Err(err).Msg("Initial backend probe failed")
	}
	container.Scheduler.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown: up to 10 seconds for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stops the scheduler, then closes client.db
	if err := container.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close client database")
	}

	log.Info().Msg("Server stopped")
}
