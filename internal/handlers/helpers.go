package handlers

import (
	"errors"
	"net/http"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/service"
)

type errorMapping struct {
	kind          api.ErrorKind
	status        int
	publicMessage string
}

// Server-side kinds carry a publicMessage that replaces the detail in production.
var errorMappings = map[service.ErrorKind]errorMapping{
	service.KindValidation:      {kind: api.ErrorKindValidation, status: http.StatusBadRequest},
	service.KindNotFound:        {kind: api.ErrorKindNotFound, status: http.StatusNotFound},
	service.KindConflict:        {kind: api.ErrorKindConflict, status: http.StatusConflict},
	service.KindPersistence:     {kind: api.ErrorKindPersistence, status: http.StatusInternalServerError, publicMessage: "internal error"},
	service.KindUpstream:        {kind: api.ErrorKindUpstream, status: http.StatusBadGateway, publicMessage: "payment gateway unavailable"},
	service.KindUpstreamTimeout: {kind: api.ErrorKindUpstreamTimeout, status: http.StatusGatewayTimeout, publicMessage: "payment gateway timed out"},
	service.KindSigning:         {kind: api.ErrorKindSigning, status: http.StatusInternalServerError, publicMessage: "internal error"},
}

// errorResponse maps a service error to its HTTP response
func (h *Handler) errorResponse(operation string, err error) api.ErrorJSONResponse {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "operation", operation, "error", err)
		return api.ErrorJSONResponse{
			StatusCode: http.StatusInternalServerError,
			Body: api.ErrorResponse{
				Error:   api.ErrorKindInternal,
				Message: "internal error",
			},
		}
	}

	mapping, ok := errorMappings[svcErr.Kind]
	if !ok {
		mapping = errorMapping{kind: api.ErrorKindInternal, status: http.StatusInternalServerError, publicMessage: "internal error"}
	}

	message := svcErr.Message
	if mapping.status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "operation", operation, "kind", svcErr.Kind, "code", svcErr.Code, "error", err)
		if h.production {
			message = mapping.publicMessage
		} else {
			message = svcErr.Error()
		}
	}

	return api.ErrorJSONResponse{
		StatusCode: mapping.status,
		Body: api.ErrorResponse{
			Error:   mapping.kind,
			Code:    svcErr.Code,
			Message: message,
		},
	}
}

func toAPITransaction(txn *models.Transaction) api.Transaction {
	return toAPISummary(txn.Summary(), txn.BankTransactionID)
}

func toAPISummary(s models.TransactionSummary, bankTransactionID string) api.Transaction {
	return api.Transaction{
		OrderId:  s.OrderID,
		Amount:   s.Amount.StringFixed(2),
		Currency: s.Currency,
		Status:   api.TransactionStatus(s.Status),
		Customer: api.Customer{
			Email: s.Customer.Email,
			Phone: s.Customer.Phone,
			Name:  s.Customer.Name,
		},
		GatewayTransactionId: s.GatewayTransactionID,
		BankTransactionId:    bankTransactionID,
		BankName:             s.BankName,
		PaymentMode:          s.PaymentMode,
		ResponseCode:         s.ResponseCode,
		ResponseMessage:      s.ResponseMessage,
		SignatureVerified:    s.SignatureVerified,
		OutcomeSource:        string(s.OutcomeSource),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func transactionResponse(txn *models.Transaction) api.Transaction200JSONResponse {
	return api.Transaction200JSONResponse{
		Success: true,
		Data:    toAPITransaction(txn),
	}
}
