// Package middleware provides HTTP middleware components for the mediator API.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/repository"
)

const (
	idempotencyKeyHeader    = "Idempotency-Key"
	idempotentReplayHeader  = "X-Idempotent-Replayed"
	maxIdempotencyKeyLen    = 255
	maxFingerprintBytes     = 1 << 20
	errCodeIdempotencyInUse = "idempotency_key_in_use"
	errCodeKeyReused        = "idempotency_key_reused"
)

// Only order creation allocates a new resource per call. Callbacks, inquiries and
// cancellation converge on the stored outcome by themselves.
var idempotentRoutes = map[string]bool{
	"/api/paytm/initiate": true,
}

type idempotencyScope struct {
	key  string
	path string
}

type idempotencyCache struct {
	repo     repository.IdempotencyRepository
	logger   *slog.Logger
	inFlight sync.Map // idempotencyScope -> struct{}
}

// Idempotency replays the stored response of an earlier POST /api/paytm/initiate sent with the
// same Idempotency-Key, so a client retrying after a lost response gets the order it already
// created instead of a second one. A key still being processed, or reused with a different
// request body, is answered with 409.
//
// The in-flight guard is local to this process; across replicas only the first stored response
// for a key wins.
func Idempotency(repo repository.IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	c := &idempotencyCache{repo: repo, logger: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := scopeOf(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			c.serve(w, r, scope, next)
		})
	}
}

// scopeOf reports the cache scope of r, or false when r is not subject to idempotency.
// Blank and oversized keys are left for request validation to judge.
func scopeOf(r *http.Request) (idempotencyScope, bool) {
	if r.Method != http.MethodPost {
		return idempotencyScope{}, false
	}

	path := normalizeRequestPath(r.URL.Path)
	if !idempotentRoutes[path] {
		return idempotencyScope{}, false
	}

	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" || len(key) > maxIdempotencyKeyLen {
		return idempotencyScope{}, false
	}

	return idempotencyScope{key: key, path: path}, true
}

func (c *idempotencyCache) serve(w http.ResponseWriter, r *http.Request, scope idempotencyScope, next http.Handler) {
	if _, busy := c.inFlight.LoadOrStore(scope, struct{}{}); busy {
		c.logger.Warn("idempotency key reused while in flight", "key", scope.key, "path", scope.path)
		writeConflict(w, errCodeIdempotencyInUse, "a request with this Idempotency-Key is still being processed")
		return
	}
	defer c.inFlight.Delete(scope)

	ctx := r.Context()

	fingerprint, err := fingerprintBody(r)
	if err != nil {
		c.logger.Warn("failed to read request body for idempotency", "key", scope.key, "error", err)
		next.ServeHTTP(w, r)
		return
	}

	cached, err := c.repo.Get(ctx, scope.key, scope.path)
	if err != nil {
		c.logger.Error("failed to check idempotency cache", "key", scope.key, "error", err)
		next.ServeHTTP(w, r)
		return
	}
	if cached != nil {
		if cached.RequestHash != "" && cached.RequestHash != fingerprint {
			c.logger.Warn("idempotency key reused with a different body", "key", scope.key, "path", scope.path)
			writeConflict(w, errCodeKeyReused, "this Idempotency-Key was already used with a different request body")
			return
		}
		c.replay(w, cached)
		return
	}

	rec := newResponseRecorder(w, true)
	next.ServeHTTP(rec, r)

	if rec.status < 200 || rec.status >= 300 {
		return
	}

	entry := &models.IdempotencyKey{
		Key:            scope.key,
		RequestPath:    scope.path,
		RequestHash:    fingerprint,
		ResponseStatus: rec.status,
		ResponseBody:   rec.body.String(),
		CreatedAt:      time.Now().UTC(),
	}
	// The order exists now; remember it even if the client has gone away.
	if err := c.repo.Store(context.WithoutCancel(ctx), entry); err != nil {
		c.logger.Error("failed to store idempotency key", "key", scope.key, "error", err)
	}
}

func (c *idempotencyCache) replay(w http.ResponseWriter, cached *models.IdempotencyKey) {
	c.logger.Debug("replaying idempotent response",
		"key", cached.Key,
		"path", cached.RequestPath,
		"status", cached.ResponseStatus,
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(idempotentReplayHeader, "true")
	w.WriteHeader(cached.ResponseStatus)
	_, _ = w.Write([]byte(cached.ResponseBody)) //nolint:errcheck // status already sent
}

// fingerprintBody hashes the request body and rewinds it for the next handler.
func fingerprintBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return hex.EncodeToString(sha256.New().Sum(nil)), nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFingerprintBytes+1))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

func writeConflict(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	//nolint:errcheck // status already sent
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   api.ErrorKindConflict,
		Code:    code,
		Message: message,
	})
}

func normalizeRequestPath(urlPath string) string {
	if len(urlPath) > 1 {
		return strings.TrimSuffix(urlPath, "/")
	}
	return urlPath
}
