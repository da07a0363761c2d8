package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benx421/payment-gateway/mediator/internal/gateway"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/signature"
)

// ReconciliationService turns gateway callbacks and status inquiries into lifecycle outcomes
type ReconciliationService struct {
	lifecycle   OutcomeApplier
	gateway     StatusInquirer
	logger      *slog.Logger
	merchantKey string
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	lifecycle OutcomeApplier,
	inquirer StatusInquirer,
	merchantKey string,
	logger *slog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		lifecycle:   lifecycle,
		gateway:     inquirer,
		logger:      logger,
		merchantKey: merchantKey,
	}
}

// HandleCallback verifies a gateway callback and applies the outcome it reports.
func (s *ReconciliationService) HandleCallback(ctx context.Context, payload map[string]string) (*models.Transaction, error) {
	for _, field := range []string{"ORDERID", "STATUS"} {
		if strings.TrimSpace(payload[field]) == "" {
			return nil, &ServiceError{
				Kind:    KindValidation,
				Code:    ErrCodeMissingField,
				Message: fmt.Sprintf("callback is missing %s", field),
			}
		}
	}

	orderID := strings.TrimSpace(payload["ORDERID"])

	verified := false
	if candidate := payload[signature.Field]; candidate != "" {
		verified = signature.Verify(payload, s.merchantKey, candidate)
		if !verified {
			s.logger.Warn("callback signature verification failed", "order_id", orderID)
		}
	} else {
		s.logger.Warn("callback without signature", "order_id", orderID)
	}

	return s.lifecycle.ApplyOutcome(ctx, OutcomeFromFields(payload, models.OutcomeSourceCallback, verified))
}

// HandleStatusInquiry asks the gateway for the outcome of orderID and applies it. The record is
// left untouched when the gateway cannot be reached.
func (s *ReconciliationService) HandleStatusInquiry(ctx context.Context, orderID string) (*models.Transaction, error) {
	txn, err := s.lifecycle.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.InquireStatus(ctx, txn.OrderID)
	if err != nil {
		return nil, gatewayError(err)
	}

	if reported := strings.TrimSpace(resp.Get("ORDERID")); reported != "" && reported != txn.OrderID {
		s.logger.Error("status response for a different order", "order_id", txn.OrderID, "reported_order_id", reported)
		return nil, &ServiceError{
			Kind:    KindUpstream,
			Code:    ErrCodeGatewayUnavailable,
			Message: "gateway answered for a different order",
		}
	}
	if strings.TrimSpace(resp.Get("STATUS")) == "" {
		return nil, &ServiceError{
			Kind:    KindUpstream,
			Code:    ErrCodeGatewayUnavailable,
			Message: "gateway status response has no STATUS",
		}
	}

	outcome := OutcomeFromFields(resp.Fields, models.OutcomeSourceInquiry, true)
	outcome.OrderID = txn.OrderID

	return s.lifecycle.ApplyOutcome(ctx, outcome)
}

func gatewayError(err error) *ServiceError {
	switch {
	case errors.Is(err, signature.ErrEmptySecret):
		return &ServiceError{
			Kind:    KindSigning,
			Code:    ErrCodeSigningKeyMissing,
			Message: "failed to sign status inquiry",
			Err:     err,
		}
	case errors.Is(err, gateway.ErrUpstreamTimeout):
		return &ServiceError{
			Kind:    KindUpstreamTimeout,
			Code:    ErrCodeGatewayTimeout,
			Message: "gateway did not answer in time",
			Err:     err,
		}
	default:
		return &ServiceError{
			Kind:    KindUpstream,
			Code:    ErrCodeGatewayUnavailable,
			Message: "gateway status inquiry failed",
			Err:     err,
		}
	}
}
