package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus defines model for TransactionStatus.
type TransactionStatus string

// Defines values for TransactionStatus.
const (
	PENDING   TransactionStatus = "PENDING"
	SUCCESS   TransactionStatus = "SUCCESS"
	FAILED    TransactionStatus = "FAILED"
	CANCELLED TransactionStatus = "CANCELLED"
)

// ErrorKind defines model for ErrorResponse.Error.
type ErrorKind string

// Defines values for ErrorKind.
const (
	ErrorKindValidation      ErrorKind = "validation_error"
	ErrorKindNotFound        ErrorKind = "not_found"
	ErrorKindConflict        ErrorKind = "conflict"
	ErrorKindPersistence     ErrorKind = "persistence_error"
	ErrorKindUpstream        ErrorKind = "upstream_error"
	ErrorKindUpstreamTimeout ErrorKind = "upstream_timeout"
	ErrorKindSigning         ErrorKind = "signing_error"
	ErrorKindInternal        ErrorKind = "internal_error"
)

// InitiateTransactionRequest defines model for InitiateTransactionRequest.
type InitiateTransactionRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerName  string          `json:"customerName"`
}

// InitiateTransactionData defines model for InitiateTransactionResponse.Data.
type InitiateTransactionData struct {
	Params   map[string]string `json:"params"`
	OrderId  string            `json:"orderId"`
	Amount   string            `json:"amount"`
	Currency string            `json:"currency"`
	Status   TransactionStatus `json:"status"`
	PaytmUrl string            `json:"paytmUrl"`
}

// InitiateTransactionResponse defines model for InitiateTransactionResponse.
type InitiateTransactionResponse struct {
	Data    InitiateTransactionData `json:"data"`
	Success bool                    `json:"success"`
}

// TransactionStatusRequest defines model for TransactionStatusRequest.
type TransactionStatusRequest struct {
	OrderId string `json:"orderId"`
}

// Customer defines model for Transaction.Customer.
type Customer struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// Transaction defines model for Transaction.
type Transaction struct {
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
	GatewayTransactionId *string           `json:"gatewayTransactionId,omitempty"`
	SignatureVerified    *bool             `json:"signatureVerified,omitempty"`
	Customer             Customer          `json:"customer"`
	OrderId              string            `json:"orderId"`
	Amount               string            `json:"amount"`
	Currency             string            `json:"currency"`
	Status               TransactionStatus `json:"status"`
	BankTransactionId    string            `json:"bankTransactionId,omitempty"`
	BankName             string            `json:"bankName,omitempty"`
	PaymentMode          string            `json:"paymentMode,omitempty"`
	ResponseCode         string            `json:"responseCode,omitempty"`
	ResponseMessage      string            `json:"responseMessage,omitempty"`
	OutcomeSource        string            `json:"outcomeSource,omitempty"`
}

// TransactionEnvelope defines model for TransactionEnvelope.
type TransactionEnvelope struct {
	Data    Transaction `json:"data"`
	Success bool        `json:"success"`
}

// PageInfo defines model for ListTransactionsResponse.Pagination.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListTransactionsResponse defines model for ListTransactionsResponse.
type ListTransactionsResponse struct {
	Data       []Transaction `json:"data"`
	Pagination PageInfo      `json:"pagination"`
	Success    bool          `json:"success"`
}

// ListTransactionsParams defines parameters for ListTransactions.
type ListTransactionsParams struct {
	Status *TransactionStatus `form:"status,omitempty" json:"status,omitempty"`
	Page   *int               `form:"page,omitempty" json:"page,omitempty"`
	Limit  *int               `form:"limit,omitempty" json:"limit,omitempty"`
}

// HealthConfig defines model for HealthResponse.Config.
type HealthConfig struct {
	MID         string `json:"MID"`
	WEBSITE     string `json:"WEBSITE"`
	ENVIRONMENT string `json:"ENVIRONMENT"`
	PAYTMURL    string `json:"PAYTM_URL"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Config    *HealthConfig `json:"config,omitempty"`
	Message   string        `json:"message"`
	Success   bool          `json:"success"`
}

// IndexResponse defines model for IndexResponse.
type IndexResponse struct {
	Endpoints map[string]string `json:"endpoints"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Success   bool              `json:"success"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error   ErrorKind `json:"error"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
	Success bool      `json:"success"`
}
