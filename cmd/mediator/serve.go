package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/handlers"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply the database schema before serving (postgres store only)")
	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("starting paytm mediator",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"store", cfg.Store.Backend,
		"idempotency", cfg.Idempotency.Backend,
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate && a.database != nil {
		if err := a.migrate(ctx); err != nil {
			return err
		}
	}

	router, err := handlers.NewRouter(handlers.Dependencies{
		Transactions:  a.lifecycle,
		Reconciler:    a.reconciliation,
		HealthChecker: a.repo,
		Idempotency:   a.idempotency,
	}, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	if cfg.Reconciliation.Interval > 0 {
		logger.Info("stale transaction sweep enabled",
			"interval", cfg.Reconciliation.Interval,
			"stale_after", cfg.Reconciliation.StaleAfter,
			"batch_size", cfg.Reconciliation.BatchSize,
		)
		go a.sweeper().Run(ctx, cfg.Reconciliation.Interval)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
