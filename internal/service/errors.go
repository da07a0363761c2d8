package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ServiceError for callers across the trust boundary
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_error"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindPersistence     ErrorKind = "persistence_error"
	KindUpstream        ErrorKind = "upstream_error"
	KindUpstreamTimeout ErrorKind = "upstream_timeout"
	KindSigning         ErrorKind = "signing_error"
)

// ServiceError represents a business logic error with a kind and a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
	Kind    ErrorKind
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first ServiceError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}

// Common error codes
const (
	ErrCodeInvalidAmount       = "invalid_amount"
	ErrCodeInvalidCustomer     = "invalid_customer"
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeMissingField        = "missing_field"
	ErrCodeTransactionNotFound = "transaction_not_found"
	ErrCodeOutcomeConflict     = "outcome_conflict"
	ErrCodeSignatureInvalid    = "signature_invalid"
	ErrCodeAmountMismatch      = "amount_mismatch"
	ErrCodeOrderIDExhausted    = "order_id_exhausted"
	ErrCodeStoreUnavailable    = "store_unavailable"
	ErrCodeGatewayUnavailable  = "gateway_unavailable"
	ErrCodeGatewayTimeout      = "gateway_timeout"
	ErrCodeSigningKeyMissing   = "signing_key_missing"
)

func persistenceError(message string, err error) *ServiceError {
	return &ServiceError{
		Kind:    KindPersistence,
		Code:    ErrCodeStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

func notFoundError(orderID string) *ServiceError {
	return &ServiceError{
		Kind:    KindNotFound,
		Code:    ErrCodeTransactionNotFound,
		Message: fmt.Sprintf("transaction %s not found", orderID),
	}
}
