// Package db provides database connection and management utilities.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"

	// postgres driver for database/sql
	_ "github.com/lib/pq"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// DB is the transaction store's connection pool
type DB struct {
	*sql.DB
	logger *slog.Logger
}

const (
	connectAttempts     = 5
	connectInitialDelay = 500 * time.Millisecond
)

// Connect opens the pool and waits until Postgres answers a ping. Pings are retried with a
// doubling delay so the service can start alongside its database container.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	logger = logger.With("component", "postgres", "host", cfg.Host, "port", cfg.Port, "database", cfg.DBName)

	pool, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(ctx, pool, logger); err != nil {
		_ = pool.Close() //nolint:errcheck // pool never became usable
		return nil, err
	}

	logger.Info("connected to database", "max_open_conns", cfg.MaxOpenConns)
	return &DB{DB: pool, logger: logger}, nil
}

func pingWithRetry(ctx context.Context, pool *sql.DB, logger *slog.Logger) error {
	delay := connectInitialDelay

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = pool.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == connectAttempts {
			break
		}

		logger.Warn("database not ready", "attempt", attempt, "retry_in", delay, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", connectAttempts, err)
}

// Migrate applies the embedded schema. Every statement is idempotent, so it is safe to run on
// each start.
func (db *DB) Migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		db.logger.Info("applied migration", "file", name)
	}

	return nil
}

// Close drains the pool.
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}
