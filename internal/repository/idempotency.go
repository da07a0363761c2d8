package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/db"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository stores responses of already processed requests
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type idempotencyRepository struct {
	db *db.DB
}

// NewIdempotencyRepository creates a PostgreSQL backed IdempotencyRepository
func NewIdempotencyRepository(database *db.DB) IdempotencyRepository {
	return &idempotencyRepository{db: database}
}

// Get returns the cached response, or nil when the key has not been seen for requestPath
func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, request_hash, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`

	var idemKey models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, key, requestPath).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.RequestHash,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Store saves the response; the first stored response for a key wins
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, request_hash, response_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key, request_path) DO NOTHING
	`

	createdAt := idemKey.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.RequestHash,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}

type redisIdempotencyRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisIdempotencyRepository creates an IdempotencyRepository whose entries expire after ttl
func NewRedisIdempotencyRepository(client redis.UniversalClient, ttl time.Duration) IdempotencyRepository {
	return &redisIdempotencyRepository{client: client, ttl: ttl}
}

func redisIdempotencyKey(key, requestPath string) string {
	return "idempotency:" + requestPath + ":" + key
}

func (r *redisIdempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	raw, err := r.client.Get(ctx, redisIdempotencyKey(key, requestPath)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var idemKey models.IdempotencyKey
	if err := json.Unmarshal(raw, &idemKey); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency key: %w", err)
	}
	return &idemKey, nil
}

func (r *redisIdempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	raw, err := json.Marshal(idemKey)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency key: %w", err)
	}

	if err := r.client.SetNX(ctx, redisIdempotencyKey(idemKey.Key, idemKey.RequestPath), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
