package handlers

import (
	"context"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/api"
)

// GetHealth handles GET /api/health
func (h *Handler) GetHealth(
	ctx context.Context,
	_ api.GetHealthRequestObject,
) (api.ResponseObject, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.healthChecker.PingContext(pingCtx); err != nil {
		h.logger.Error("health check failed: store unreachable", "error", err)
		return api.GetHealth503JSONResponse{
			Success:   false,
			Message:   "transaction store unreachable",
			Timestamp: time.Now().UTC(),
		}, nil
	}

	return api.GetHealth200JSONResponse{
		Success:   true,
		Message:   "Paytm Payment Gateway Server is running",
		Timestamp: time.Now().UTC(),
		Config: &api.HealthConfig{
			MID:         h.merchantID,
			WEBSITE:     h.website,
			ENVIRONMENT: h.environment,
			PAYTMURL:    h.gatewayURL,
		},
	}, nil
}

// GetIndex handles GET /
func (h *Handler) GetIndex(
	_ context.Context,
	_ api.GetIndexRequestObject,
) (api.ResponseObject, error) {
	return api.GetIndex200JSONResponse{
		Success: true,
		Message: "Paytm Payment Gateway API",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"health":            "/api/health",
			"initiate":          "POST /api/paytm/initiate",
			"callback":          "POST /api/paytm/callback",
			"status":            "GET /api/paytm/status/:orderId",
			"payments":          "GET /api/paytm/payments",
			"transactionStatus": "POST /api/paytm/transaction-status",
			"cancel":            "POST /api/paytm/payments/:orderId/cancel",
			"docs":              "/docs",
		},
	}, nil
}
