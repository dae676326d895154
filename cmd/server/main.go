package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/handler"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/logging"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/progress"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/router"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
	s3storage "github.com/abasis-ltd/gtfs.guru-sub001/internal/storage/s3"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator/rules"
)

const shutdownTimeout = 30 * time.Second

// @title GTFS Validator API
// @version 1.0
// @description Validates GTFS static feeds and returns notice reports.
func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Object storage is optional; without a bucket only uploads are served.
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3, cfg.Validation.MaxArchiveBytes())
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	validationSvc := service.NewValidationService(storage, &cfg.S3, cfg.Validation, progress.NewLogger(slog.Default()))

	validationH := handler.NewValidationHandler(validationSvc, cfg.Validation.MaxArchiveBytes())
	healthH := handler.NewHealthHandler(len(rules.All()), cfg.S3.Enabled())

	r := router.Setup(validationH, healthH, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Server.Port,
			"validators", len(rules.All()),
			"storage", cfg.S3.Enabled(),
			"parallelism", cfg.Validation.Parallelism,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCh:
	}

	slog.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
