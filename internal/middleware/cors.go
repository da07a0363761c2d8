package middleware

import (
	"net/http"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/go-chi/cors"
)

// CORS allows browser checkouts served from other origins to call the API.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", idempotencyKeyHeader},
		ExposedHeaders:   []string{idempotentReplayHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           300,
	})
}
