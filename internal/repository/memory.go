package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/benx421/payment-gateway/mediator/internal/models"
)

// memoryTransactionRepository keeps transactions in process memory. It backs local
// development and tests; conditional writes hold the mutex for their whole duration.
type memoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*models.Transaction
}

// NewMemoryTransactionRepository creates an empty in-memory TransactionRepository
func NewMemoryTransactionRepository() TransactionRepository {
	return &memoryTransactionRepository{
		transactions: make(map[string]*models.Transaction),
	}
}

func (r *memoryTransactionRepository) InsertIfAbsent(_ context.Context, txn *models.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[txn.OrderID]; exists {
		return false, nil
	}
	r.transactions[txn.OrderID] = cloneTransaction(txn)
	return true, nil
}

func (r *memoryTransactionRepository) FindByOrderID(_ context.Context, orderID string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txn, ok := r.transactions[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneTransaction(txn), nil
}

func (r *memoryTransactionRepository) CompareAndUpdateStatus(
	_ context.Context,
	orderID string,
	expected models.TransactionStatus,
	update *models.StatusUpdate,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.transactions[orderID]
	if !ok || txn.Status != expected {
		return false, nil
	}

	updated := cloneTransaction(txn)
	update.Apply(updated)
	r.transactions[orderID] = cloneTransaction(updated)
	return true, nil
}

func (r *memoryTransactionRepository) Find(
	_ context.Context,
	filter models.TransactionFilter,
	page models.Pagination,
) ([]models.TransactionSummary, int, error) {
	r.mu.RLock()
	matches := make([]*models.Transaction, 0, len(r.transactions))
	for _, txn := range r.transactions {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		if filter.CreatedBefore != nil && !txn.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		matches = append(matches, cloneTransaction(txn))
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].OrderID > matches[j].OrderID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	start := min(page.Offset(), total)
	end := total
	if page.PageSize > 0 {
		end = min(start+page.PageSize, total)
	}

	summaries := make([]models.TransactionSummary, 0, end-start)
	for _, txn := range matches[start:end] {
		summaries = append(summaries, txn.Summary())
	}
	return summaries, total, nil
}

func (r *memoryTransactionRepository) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func cloneTransaction(txn *models.Transaction) *models.Transaction {
	out := *txn
	if txn.GatewayResponse != nil {
		out.GatewayResponse = make(map[string]string, len(txn.GatewayResponse))
		for k, v := range txn.GatewayResponse {
			out.GatewayResponse[k] = v
		}
	}
	if txn.GatewayTransactionID != nil {
		id := *txn.GatewayTransactionID
		out.GatewayTransactionID = &id
	}
	if txn.SignatureVerified != nil {
		verified := *txn.SignatureVerified
		out.SignatureVerified = &verified
	}
	return &out
}
