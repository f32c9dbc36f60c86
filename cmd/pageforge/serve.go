package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"pageforge/internal/build"
	"pageforge/internal/config"
	"pageforge/internal/events"
	"pageforge/internal/journal"
	"pageforge/internal/metrics"
	"pageforge/internal/server/httpserver"
	"pageforge/internal/version"
)

// runServe wires the service from configuration and blocks until a
// shutdown signal arrives.
func runServe(cfg *config.Config) error {
	slog.Info("Starting pageforge", slog.String("version", version.Version))

	svc, err := build.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create build service: %w", err)
	}
	if err := svc.Workspace().EnsureRoot(); err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}

	opts := httpserver.Options{}

	var store journal.Store
	if cfg.Journal.IsEnabled() {
		sqlStore, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			if err := sqlStore.Close(); err != nil {
				slog.Warn("Failed to close journal", "error", err)
			}
		}()
		store = sqlStore
		svc.WithJournal(store)
		opts.Journal = store
		slog.Info("Journal enabled", slog.String("path", cfg.Journal.Path))
	}

	if cfg.Events.Enabled {
		pub, err := events.NewNATSPublisher(cfg.Events)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				slog.Warn("Failed to close event publisher", "error", err)
			}
		}()
		svc.WithEvents(pub)
		slog.Info("Build events enabled", slog.String("subject", cfg.Events.Subject))
	}

	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
		opts.PrometheusHandler = metrics.HTTPHandler(reg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg, svc, opts)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if store != nil {
		sweeper, err := journal.NewSweeper(store, cfg.Journal.RetentionWindow())
		if err != nil {
			return fmt.Errorf("failed to create retention sweeper: %w", err)
		}
		if err := sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention sweeper: %w", err)
		}
		defer func() {
			if err := sweeper.Stop(); err != nil {
				slog.Warn("Failed to stop retention sweeper", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping servers...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace())
	defer stopCancel()
	return srv.Stop(stopCtx)
}
