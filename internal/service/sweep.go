package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/models"
)

// SweepResult counts what one sweep did
type SweepResult struct {
	Checked    int
	Reconciled int
	Failed     int
}

// Sweeper runs status inquiries for PENDING orders whose callback never arrived
type Sweeper struct {
	lister     TransactionLister
	reconciler StatusReconciler
	logger     *slog.Logger
	now        func() time.Time
	cfg        config.ReconciliationConfig
}

// NewSweeper creates a new Sweeper
func NewSweeper(
	lister TransactionLister,
	reconciler StatusReconciler,
	cfg config.ReconciliationConfig,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		lister:     lister,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// ReconcileStale inquires about up to BatchSize PENDING orders older than StaleAfter.
// Per-order failures are counted, not returned.
func (s *Sweeper) ReconcileStale(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	status := models.TransactionStatusPending
	cutoff := s.now().Add(-s.cfg.StaleAfter)
	filter := models.TransactionFilter{Status: &status, CreatedBefore: &cutoff}

	stale, _, _, err := s.lister.List(ctx, filter, models.Pagination{Page: 1, PageSize: s.cfg.BatchSize})
	if err != nil {
		return result, err
	}

	for _, txn := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.Checked++
		if _, err := s.reconciler.HandleStatusInquiry(ctx, txn.OrderID); err != nil {
			result.Failed++
			s.logger.Warn("stale transaction reconciliation failed", "order_id", txn.OrderID, "error", err)
			continue
		}
		result.Reconciled++
	}

	if result.Checked > 0 {
		s.logger.Info("stale transaction sweep finished",
			"checked", result.Checked,
			"reconciled", result.Reconciled,
			"failed", result.Failed,
		)
	}

	return result, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ReconcileStale(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("stale transaction sweep failed", "error", err)
			}
		}
	}
}
