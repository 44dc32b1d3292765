// Command server runs the WordTrail core as a local HTTP service:
// spaced-repetition scheduling, bounded review sessions and statistics
// over a pluggable persistence backend.
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

	"github.com/wordtrail/wordtrail/internal/api"
	"github.com/wordtrail/wordtrail/internal/api/middleware"
	"github.com/wordtrail/wordtrail/internal/config"
	"github.com/wordtrail/wordtrail/internal/domain/srs"
	"github.com/wordtrail/wordtrail/internal/events"
	"github.com/wordtrail/wordtrail/internal/platform/logger"
	"github.com/wordtrail/wordtrail/internal/platform/memory"
	"github.com/wordtrail/wordtrail/internal/platform/postgres"
	"github.com/wordtrail/wordtrail/internal/platform/sqlite"
	"github.com/wordtrail/wordtrail/internal/service"
	"github.com/wordtrail/wordtrail/internal/service/auth"
	"github.com/wordtrail/wordtrail/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	gateway, closeGateway, err := openGateway(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeGateway()

	ctx := context.Background()
	saveTimeout := time.Duration(cfg.Storage.SaveTimeoutMs) * time.Millisecond

	scheduler := srs.NewDefaultService()
	emitter := events.NewInMemoryEmitter(log)

	cards, err := service.NewCardService(ctx, gateway, scheduler, log,
		service.WithCardSaveTimeout(saveTimeout))
	if err != nil {
		return fmt.Errorf("failed to initialize card service: %w", err)
	}

	sessions, err := service.NewSessionService(ctx, cards, gateway, emitter, log,
		service.WithSessionSaveTimeout(saveTimeout),
		service.WithHistorySize(cfg.Review.HistorySize))
	if err != nil {
		return fmt.Errorf("failed to initialize session service: %w", err)
	}

	stats := service.NewStatsService(cards, sessions, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	router := newRouter(
		api.NewCardHandler(cards, log),
		api.NewSessionHandler(sessions, cfg.Review, log),
		api.NewStatsHandler(stats, log),
		middleware.NewAuthMiddleware(jwtService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("storage_backend", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// openGateway constructs the configured persistence backend. The returned
// closer is a no-op for backends without resources to release.
func openGateway(cfg config.StorageConfig) (store.PersistenceGateway, func(), error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewGateway(), func() {}, nil
	case "sqlite":
		gw, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		return gw, func() { _ = gw.Close() }, nil
	case "postgres":
		gw, err := postgres.Open(cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres backend: %w", err)
		}
		return gw, func() { _ = gw.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
