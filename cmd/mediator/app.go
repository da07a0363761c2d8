package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/db"
	"github.com/benx421/payment-gateway/mediator/internal/events"
	"github.com/benx421/payment-gateway/mediator/internal/gateway"
	"github.com/benx421/payment-gateway/mediator/internal/orderid"
	"github.com/benx421/payment-gateway/mediator/internal/repository"
	"github.com/benx421/payment-gateway/mediator/internal/service"
	"github.com/redis/go-redis/v9"
)

// app holds the wired services shared by every command.
type app struct {
	cfg            *config.Config
	logger         *slog.Logger
	database       *db.DB
	redis          *redis.Client
	repo           repository.TransactionRepository
	idempotency    repository.IdempotencyRepository
	publisher      events.Publisher
	lifecycle      *service.LifecycleService
	reconciliation *service.ReconciliationService
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("using in-memory transaction store; data is lost on restart")
		a.repo = repository.NewMemoryTransactionRepository()
	default:
		database, err := db.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.database = database
		a.repo = repository.NewTransactionRepository(database)
	}

	switch cfg.Idempotency.Backend {
	case "postgres":
		a.idempotency = repository.NewIdempotencyRepository(a.database)
	case "redis":
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.idempotency = repository.NewRedisIdempotencyRepository(a.redis, cfg.Idempotency.TTL)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		a.publisher = events.NopPublisher{}
	}

	policy, err := service.ParseAuthenticityPolicy(cfg.Security.AuthenticityPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	inquirer := gateway.NewClient(cfg.Paytm, nil, logger)

	a.lifecycle = service.NewLifecycleService(a.repo, orderid.New(), cfg.Paytm, policy, a.publisher, logger)
	a.reconciliation = service.NewReconciliationService(a.lifecycle, inquirer, cfg.Paytm.MerchantKey, logger)

	return a, nil
}

func (a *app) migrate(ctx context.Context) error {
	if a.database == nil {
		return errors.New("migrations require the postgres store backend")
	}
	return a.database.Migrate(ctx)
}

func (a *app) sweeper() *service.Sweeper {
	return service.NewSweeper(a.lifecycle, a.reconciliation, a.cfg.Reconciliation, a.logger)
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis client", "error", err)
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
}
