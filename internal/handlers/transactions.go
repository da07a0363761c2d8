package handlers

import (
	"context"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/service"
)

// InitiateTransaction handles POST /api/paytm/initiate
func (h *Handler) InitiateTransaction(
	ctx context.Context,
	request api.InitiateTransactionRequestObject,
) (api.ResponseObject, error) {
	result, err := h.transactions.Initiate(ctx, service.InitiateRequest{
		Amount:        request.Body.Amount,
		CustomerEmail: request.Body.CustomerEmail,
		CustomerPhone: request.Body.CustomerPhone,
		CustomerName:  request.Body.CustomerName,
	})
	if err != nil {
		return h.errorResponse("initiate", err), nil
	}

	txn := result.Transaction
	return api.InitiateTransaction200JSONResponse{
		Success: true,
		Data: api.InitiateTransactionData{
			OrderId:  txn.OrderID,
			Amount:   txn.Amount.StringFixed(2),
			Currency: txn.Currency,
			Status:   api.TransactionStatus(txn.Status),
			PaytmUrl: result.GatewayURL,
			Params:   result.Params,
		},
	}, nil
}

// GetTransactionStatus handles GET /api/paytm/status/{orderId}
func (h *Handler) GetTransactionStatus(
	ctx context.Context,
	request api.GetTransactionStatusRequestObject,
) (api.ResponseObject, error) {
	txn, err := h.transactions.Get(ctx, request.OrderId)
	if err != nil {
		return h.errorResponse("get_status", err), nil
	}
	return transactionResponse(txn), nil
}

// ListTransactions handles GET /api/paytm/payments
func (h *Handler) ListTransactions(
	ctx context.Context,
	request api.ListTransactionsRequestObject,
) (api.ResponseObject, error) {
	var filter models.TransactionFilter
	if request.Params.Status != nil {
		status := models.TransactionStatus(*request.Params.Status)
		filter.Status = &status
	}

	var page models.Pagination
	if request.Params.Page != nil {
		page.Page = *request.Params.Page
	}
	if request.Params.Limit != nil {
		page.PageSize = *request.Params.Limit
	}

	summaries, total, page, err := h.transactions.List(ctx, filter, page)
	if err != nil {
		return h.errorResponse("list", err), nil
	}

	data := make([]api.Transaction, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, toAPISummary(s, ""))
	}

	pages := 0
	if page.PageSize > 0 {
		pages = (total + page.PageSize - 1) / page.PageSize
	}

	return api.ListTransactions200JSONResponse{
		Success: true,
		Data:    data,
		Pagination: api.PageInfo{
			Page:  page.Page,
			Limit: page.PageSize,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// CancelTransaction handles POST /api/paytm/payments/{orderId}/cancel
func (h *Handler) CancelTransaction(
	ctx context.Context,
	request api.CancelTransactionRequestObject,
) (api.ResponseObject, error) {
	txn, err := h.transactions.Cancel(ctx, request.OrderId)
	if err != nil {
		return h.errorResponse("cancel", err), nil
	}
	return transactionResponse(txn), nil
}
