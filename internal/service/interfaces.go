package service

import (
	"context"

	"github.com/benx421/payment-gateway/mediator/internal/gateway"
	"github.com/benx421/payment-gateway/mediator/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// TransactionLister pages through stored transactions
type TransactionLister interface {
	List(ctx context.Context, filter models.TransactionFilter, page models.Pagination) ([]models.TransactionSummary, int, models.Pagination, error)
}

// OutcomeApplier applies gateway-reported outcomes to stored transactions
type OutcomeApplier interface {
	Get(ctx context.Context, orderID string) (*models.Transaction, error)
	ApplyOutcome(ctx context.Context, outcome Outcome) (*models.Transaction, error)
}

// Transactions handles merchant-facing transaction operations
type Transactions interface {
	TransactionLister
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Get(ctx context.Context, orderID string) (*models.Transaction, error)
	Cancel(ctx context.Context, orderID string) (*models.Transaction, error)
}

// StatusInquirer asks the gateway for the current outcome of an order
type StatusInquirer interface {
	InquireStatus(ctx context.Context, orderID string) (*gateway.StatusResponse, error)
}

// StatusReconciler reconciles one order against the gateway
type StatusReconciler interface {
	HandleStatusInquiry(ctx context.Context, orderID string) (*models.Transaction, error)
}

// Reconciler handles gateway-originated updates
type Reconciler interface {
	StatusReconciler
	HandleCallback(ctx context.Context, payload map[string]string) (*models.Transaction, error)
}

// Ensure concrete types implement interfaces
var (
	_ Transactions   = (*LifecycleService)(nil)
	_ OutcomeApplier = (*LifecycleService)(nil)
	_ Reconciler     = (*ReconciliationService)(nil)
	_ StatusInquirer = (*gateway.Client)(nil)
)
