// Package main is the entry point for the LearnHub dashboard API.
//
// The API serves record CRUD, the filtered dashboard view, spreadsheet
// connection state and progress/grade report downloads (CSV and PDF).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/bootstrap"
	httpapi "github.com/learnhub/learnhub-dashboard/internal/interface/http"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrap.NewLogger(cfg)
	log.Info("starting LearnHub dashboard API",
		logger.String("version", cfg.App.Version),
		logger.String("store", cfg.Store.Backend),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. STORES, CACHE AND EXPORT PIPELINE
	// ─────────────────────────────────────────────────────────────────────────
	app, err := bootstrap.Build(ctx, cfg, log, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing connections...")
		app.Close()
	}()

	health := httpapi.NewHealthChecker(cfg.App.Version)
	for _, c := range app.Checks {
		health.AddDetailedCheck(c.Name, c.Fn)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpapi.NewServer(httpapi.FromAppConfig(cfg), httpapi.Dependencies{
		Courses:     app.Courses,
		Assignments: app.Assignments,
		Performance: app.Performance,
		Dashboard:   app.Dashboard,
		Exports:     app.Exports,
		Connection:  app.Connection,
		Features:    cfg.Features,
		Health:      health,
		Logger:      log,
	})
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	sched, err := app.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to register jobs: %w", err)
	}
	if sched != nil {
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = sched.Stop() }()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}
