package db

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"
)

// ConnectForTest opens the configured database with a no-op logger and applies migrations.
// The calling test is skipped when no database is reachable.
// This is only for use in tests where logging output is not needed
func ConnectForTest(t testing.TB) *DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	database, err := Connect(ctx, &cfg.Database, logger)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}

	if err := database.Migrate(context.Background()); err != nil {
		_ = database.Close() //nolint:errcheck // test teardown
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close() //nolint:errcheck // test teardown
	})

	return database
}
