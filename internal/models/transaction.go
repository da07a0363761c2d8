package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a payment order
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusSuccess   TransactionStatus = "SUCCESS"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusSuccess, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known statuses.
func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPending || s.IsTerminal()
}

// OutcomeSource identifies which path moved a transaction out of PENDING
type OutcomeSource string

const (
	OutcomeSourceCallback OutcomeSource = "callback"
	OutcomeSourceInquiry  OutcomeSource = "inquiry"
	OutcomeSourceMerchant OutcomeSource = "merchant"
)

// Customer holds the payer details captured at order creation
type Customer struct {
	Email string `db:"customer_email"`
	Phone string `db:"customer_phone"`
	Name  string `db:"customer_name"`
}

// Transaction is a single payment order tracked from creation to a terminal outcome
type Transaction struct {
	CreatedAt            time.Time         `db:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at"`
	GatewayResponse      map[string]string `db:"gateway_response"`
	GatewayTransactionID *string           `db:"gateway_transaction_id"`
	SignatureVerified    *bool             `db:"signature_verified"`
	Customer             Customer
	OrderID              string            `db:"order_id"`
	Currency             string            `db:"currency"`
	Status               TransactionStatus `db:"status"`
	IntegrityCode        string            `db:"integrity_code"`
	ResponseCode         string            `db:"response_code"`
	ResponseMessage      string            `db:"response_message"`
	PaymentMode          string            `db:"payment_mode"`
	BankName             string            `db:"bank_name"`
	BankTransactionID    string            `db:"bank_transaction_id"`
	OutcomeSource        OutcomeSource     `db:"outcome_source"`
	Amount               decimal.Decimal   `db:"amount"`
}

// Summary returns the list projection of t, without audit-only fields.
func (t *Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		GatewayTransactionID: t.GatewayTransactionID,
		SignatureVerified:    t.SignatureVerified,
		Customer:             t.Customer,
		OrderID:              t.OrderID,
		Currency:             t.Currency,
		Status:               t.Status,
		ResponseCode:         t.ResponseCode,
		ResponseMessage:      t.ResponseMessage,
		PaymentMode:          t.PaymentMode,
		BankName:             t.BankName,
		OutcomeSource:        t.OutcomeSource,
		Amount:               t.Amount,
	}
}

// TransactionSummary is a transaction without IntegrityCode and GatewayResponse
type TransactionSummary struct {
	CreatedAt            time.Time
	UpdatedAt            time.Time
	GatewayTransactionID *string
	SignatureVerified    *bool
	Customer             Customer
	OrderID              string
	Currency             string
	Status               TransactionStatus
	ResponseCode         string
	ResponseMessage      string
	PaymentMode          string
	BankName             string
	OutcomeSource        OutcomeSource
	Amount               decimal.Decimal
}

// StatusUpdate carries the fields written by a single conditional status transition
type StatusUpdate struct {
	UpdatedAt            time.Time
	GatewayResponse      map[string]string
	GatewayTransactionID *string
	SignatureVerified    *bool
	Status               TransactionStatus
	ResponseCode         string
	ResponseMessage      string
	PaymentMode          string
	BankName             string
	BankTransactionID    string
	OutcomeSource        OutcomeSource
}

// Apply copies the update onto t.
func (u *StatusUpdate) Apply(t *Transaction) {
	t.Status = u.Status
	t.UpdatedAt = u.UpdatedAt
	t.GatewayResponse = u.GatewayResponse
	t.GatewayTransactionID = u.GatewayTransactionID
	t.SignatureVerified = u.SignatureVerified
	t.ResponseCode = u.ResponseCode
	t.ResponseMessage = u.ResponseMessage
	t.PaymentMode = u.PaymentMode
	t.BankName = u.BankName
	t.BankTransactionID = u.BankTransactionID
	t.OutcomeSource = u.OutcomeSource
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	Status        *TransactionStatus
	CreatedBefore *time.Time
}

// Pagination selects a 1-based page of results
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip, saturating at math.MaxInt.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// IdempotencyKey tracks processed requests to prevent duplicate orders
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	RequestHash    string    `db:"request_hash"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}

// TransactionEvent is emitted after a transaction reaches a terminal state
type TransactionEvent struct {
	OccurredAt        time.Time         `json:"occurred_at"`
	SignatureVerified *bool             `json:"signature_verified,omitempty"`
	OrderID           string            `json:"order_id"`
	Amount            string            `json:"amount"`
	Currency          string            `json:"currency"`
	PreviousStatus    TransactionStatus `json:"previous_status"`
	Status            TransactionStatus `json:"status"`
	Source            OutcomeSource     `json:"source"`
}
