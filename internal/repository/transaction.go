// Package repository provides data access layer implementations for the payment mediator.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benx421/payment-gateway/mediator/internal/db"
	"github.com/benx421/payment-gateway/mediator/internal/models"
)

// TransactionRepository defines the interface for transaction data access.
//
// InsertIfAbsent and CompareAndUpdateStatus are the only operations with transactional
// semantics; each must be a single conditional write.
type TransactionRepository interface {
	InsertIfAbsent(ctx context.Context, txn *models.Transaction) (bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	CompareAndUpdateStatus(ctx context.Context, orderID string, expected models.TransactionStatus, update *models.StatusUpdate) (bool, error)
	Find(ctx context.Context, filter models.TransactionFilter, page models.Pagination) ([]models.TransactionSummary, int, error)
	PingContext(ctx context.Context) error
}

// transactionRepository implements TransactionRepository on PostgreSQL
type transactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database}
}

const transactionColumns = `
	order_id, amount, currency, customer_email, customer_phone, customer_name,
	status, gateway_transaction_id, integrity_code, gateway_response,
	response_code, response_message, payment_mode, bank_name, bank_transaction_id,
	signature_verified, outcome_source, created_at, updated_at`

// InsertIfAbsent creates txn unless its order id is already taken. It never overwrites.
func (r *transactionRepository) InsertIfAbsent(ctx context.Context, txn *models.Transaction) (bool, error) {
	gatewayResponse, err := encodeGatewayResponse(txn.GatewayResponse)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (order_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		txn.OrderID,
		txn.Amount,
		txn.Currency,
		txn.Customer.Email,
		txn.Customer.Phone,
		txn.Customer.Name,
		txn.Status,
		txn.GatewayTransactionID,
		txn.IntegrityCode,
		gatewayResponse,
		txn.ResponseCode,
		txn.ResponseMessage,
		txn.PaymentMode,
		txn.BankName,
		txn.BankTransactionID,
		txn.SignatureVerified,
		txn.OutcomeSource,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// FindByOrderID retrieves a transaction by its order id
func (r *transactionRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by order id: %w", err)
	}

	return txn, nil
}

// CompareAndUpdateStatus applies update only while the stored status still equals expected
func (r *transactionRepository) CompareAndUpdateStatus(
	ctx context.Context,
	orderID string,
	expected models.TransactionStatus,
	update *models.StatusUpdate,
) (bool, error) {
	gatewayResponse, err := encodeGatewayResponse(update.GatewayResponse)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE transactions
		SET status = $3,
		    gateway_transaction_id = $4,
		    gateway_response = $5,
		    response_code = $6,
		    response_message = $7,
		    payment_mode = $8,
		    bank_name = $9,
		    bank_transaction_id = $10,
		    signature_verified = $11,
		    outcome_source = $12,
		    updated_at = $13
		WHERE order_id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		orderID,
		expected,
		update.Status,
		update.GatewayTransactionID,
		gatewayResponse,
		update.ResponseCode,
		update.ResponseMessage,
		update.PaymentMode,
		update.BankName,
		update.BankTransactionID,
		update.SignatureVerified,
		update.OutcomeSource,
		update.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// Find lists transactions newest first together with the total number of matches
func (r *transactionRepository) Find(
	ctx context.Context,
	filter models.TransactionFilter,
	page models.Pagination,
) ([]models.TransactionSummary, int, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, page.PageSize, page.Offset())
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, order_id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.TransactionSummary, 0, page.PageSize)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		summaries = append(summaries, txn.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return summaries, total, nil
}

// PingContext checks that the database is reachable
func (r *transactionRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		txn                  models.Transaction
		gatewayTransactionID sql.NullString
		gatewayResponse      []byte
		signatureVerified    sql.NullBool
	)

	err := row.Scan(
		&txn.OrderID,
		&txn.Amount,
		&txn.Currency,
		&txn.Customer.Email,
		&txn.Customer.Phone,
		&txn.Customer.Name,
		&txn.Status,
		&gatewayTransactionID,
		&txn.IntegrityCode,
		&gatewayResponse,
		&txn.ResponseCode,
		&txn.ResponseMessage,
		&txn.PaymentMode,
		&txn.BankName,
		&txn.BankTransactionID,
		&signatureVerified,
		&txn.OutcomeSource,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gatewayTransactionID.Valid {
		txn.GatewayTransactionID = &gatewayTransactionID.String
	}
	if signatureVerified.Valid {
		txn.SignatureVerified = &signatureVerified.Bool
	}
	if len(gatewayResponse) > 0 {
		if err := json.Unmarshal(gatewayResponse, &txn.GatewayResponse); err != nil {
			return nil, fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}

	return &txn, nil
}

// encodeGatewayResponse renders the payload for a JSONB column. lib/pq sends []byte as bytea,
// so the JSON goes over the wire as text.
func encodeGatewayResponse(payload map[string]string) (any, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway response: %w", err)
	}
	return string(raw), nil
}
