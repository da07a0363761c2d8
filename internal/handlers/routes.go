package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/middleware"
	"github.com/benx421/payment-gateway/mediator/internal/repository"
	"github.com/benx421/payment-gateway/mediator/internal/service"
)

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Transactions  service.Transactions
	Reconciler    service.Reconciler
	HealthChecker service.HealthChecker
	// Idempotency caches POST /api/paytm/initiate responses. Nil disables it.
	Idempotency repository.IdempotencyRepository
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	deps Dependencies,
	cfg *config.Config,
	logger *slog.Logger,
) (http.Handler, error) {
	handler := NewHandler(deps.Transactions, deps.Reconciler, deps.HealthChecker, cfg, logger)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	api.HandlerFromMux(handler, mux, api.StrictHTTPServerOptions{})

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := api.OapiRequestValidator(doc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	var finalHandler http.Handler = mux

	finalHandler = validator(finalHandler)

	if deps.Idempotency != nil {
		finalHandler = middleware.Idempotency(deps.Idempotency, logger)(finalHandler)
	}

	finalHandler = middleware.CORS(cfg.CORS)(finalHandler)
	finalHandler = middleware.RequestLogger(logger)(finalHandler)

	return finalHandler, nil
}
