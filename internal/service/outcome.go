package service

import (
	"strings"

	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/signature"
)

// Status values reported by the gateway
const (
	GatewayStatusSuccess = "TXN_SUCCESS"
	GatewayStatusFailure = "TXN_FAILURE"
	GatewayStatusPending = "PENDING"
)

// Outcome is a gateway-reported result for one order, from a callback or a status inquiry
type Outcome struct {
	GatewayResponse      map[string]string
	OrderID              string
	ReportedStatus       string
	ReportedAmount       string
	GatewayTransactionID string
	ResponseCode         string
	ResponseMessage      string
	PaymentMode          string
	BankName             string
	BankTransactionID    string
	Source               models.OutcomeSource
	SignatureValid       bool
}

// OutcomeFromFields reads an Outcome out of a gateway payload. The signature field is not kept
// in GatewayResponse.
func OutcomeFromFields(fields map[string]string, source models.OutcomeSource, signatureValid bool) Outcome {
	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == signature.Field {
			continue
		}
		raw[k] = v
	}

	return Outcome{
		GatewayResponse:      raw,
		OrderID:              strings.TrimSpace(fields["ORDERID"]),
		ReportedStatus:       strings.TrimSpace(fields["STATUS"]),
		ReportedAmount:       strings.TrimSpace(fields["TXNAMOUNT"]),
		GatewayTransactionID: fields["TXNID"],
		ResponseCode:         fields["RESPCODE"],
		ResponseMessage:      fields["RESPMSG"],
		PaymentMode:          fields["PAYMENTMODE"],
		BankName:             fields["BANKNAME"],
		BankTransactionID:    fields["BANKTXNID"],
		Source:               source,
		SignatureValid:       signatureValid,
	}
}

// MapGatewayStatus maps a reported gateway status to a terminal transaction status.
// Anything other than TXN_SUCCESS, including PENDING, maps to FAILED.
func MapGatewayStatus(reported string) models.TransactionStatus {
	if reported == GatewayStatusSuccess {
		return models.TransactionStatusSuccess
	}
	return models.TransactionStatusFailed
}
