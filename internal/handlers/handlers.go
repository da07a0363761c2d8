// Package handlers implements HTTP handlers for the mediator API.
package handlers

import (
	"log/slog"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/service"
)

// Handler implements the api.StrictServerInterface for all endpoints
type Handler struct {
	transactions  service.Transactions
	reconciler    service.Reconciler
	healthChecker service.HealthChecker
	logger        *slog.Logger
	merchantID    string
	website       string
	gatewayURL    string
	environment   string
	production    bool
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	transactions service.Transactions,
	reconciler service.Reconciler,
	healthChecker service.HealthChecker,
	cfg *config.Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		transactions:  transactions,
		reconciler:    reconciler,
		healthChecker: healthChecker,
		logger:        logger,
		merchantID:    cfg.Paytm.MerchantID,
		website:       cfg.Paytm.Website,
		gatewayURL:    cfg.Paytm.TransactionURL,
		environment:   cfg.App.Environment,
		production:    cfg.App.IsProduction(),
	}
}

var _ api.StrictServerInterface = (*Handler)(nil)
