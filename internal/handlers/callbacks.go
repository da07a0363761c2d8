package handlers

import (
	"context"

	"github.com/benx421/payment-gateway/mediator/internal/api"
)

// HandleCallback handles POST /api/paytm/callback
func (h *Handler) HandleCallback(
	ctx context.Context,
	request api.HandleCallbackRequestObject,
) (api.ResponseObject, error) {
	txn, err := h.reconciler.HandleCallback(ctx, request.Payload)
	if err != nil {
		return h.errorResponse("callback", err), nil
	}
	return transactionResponse(txn), nil
}

// InquireTransactionStatus handles POST /api/paytm/transaction-status
func (h *Handler) InquireTransactionStatus(
	ctx context.Context,
	request api.InquireTransactionStatusRequestObject,
) (api.ResponseObject, error) {
	txn, err := h.reconciler.HandleStatusInquiry(ctx, request.Body.OrderId)
	if err != nil {
		return h.errorResponse("transaction_status", err), nil
	}
	return transactionResponse(txn), nil
}
