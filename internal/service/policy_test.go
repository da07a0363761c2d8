package service

import (
	"testing"

	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthenticityPolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected AuthenticityPolicy
		wantErr  bool
	}{
		{input: "", expected: PolicyStrict},
		{input: "strict", expected: PolicyStrict},
		{input: " Permissive ", expected: PolicyPermissive},
		{input: "lenient", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			policy, err := ParseAuthenticityPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}

func TestAuthenticityPolicy_Check(t *testing.T) {
	assert.NoError(t, PolicyStrict.Check(true))
	assert.NoError(t, PolicyPermissive.Check(true))
	assert.NoError(t, PolicyPermissive.Check(false))

	err := PolicyStrict.Check(false)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
	assert.Equal(t, ErrCodeSignatureInvalid, svcErr.Code)
}

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		reported string
		expected models.TransactionStatus
	}{
		{reported: "TXN_SUCCESS", expected: models.TransactionStatusSuccess},
		{reported: "TXN_FAILURE", expected: models.TransactionStatusFailed},
		{reported: "PENDING", expected: models.TransactionStatusFailed},
		{reported: "txn_success", expected: models.TransactionStatusFailed},
		{reported: "", expected: models.TransactionStatusFailed},
		{reported: "SOMETHING_NEW", expected: models.TransactionStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.reported, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGatewayStatus(tt.reported))
		})
	}
}

func TestOutcomeFromFields(t *testing.T) {
	fields := map[string]string{
		"ORDERID":      " ORD1 ",
		"STATUS":       "TXN_SUCCESS",
		"TXNAMOUNT":    "499.00",
		"TXNID":        "T1",
		"RESPCODE":     "01",
		"RESPMSG":      "Txn Success",
		"PAYMENTMODE":  "UPI",
		"BANKNAME":     "HDFC",
		"BANKTXNID":    "B1",
		"CHECKSUMHASH": "abc",
	}

	outcome := OutcomeFromFields(fields, models.OutcomeSourceCallback, true)

	assert.Equal(t, "ORD1", outcome.OrderID)
	assert.Equal(t, "TXN_SUCCESS", outcome.ReportedStatus)
	assert.Equal(t, "499.00", outcome.ReportedAmount)
	assert.Equal(t, "T1", outcome.GatewayTransactionID)
	assert.Equal(t, "HDFC", outcome.BankName)
	assert.Equal(t, "B1", outcome.BankTransactionID)
	assert.Equal(t, models.OutcomeSourceCallback, outcome.Source)
	assert.True(t, outcome.SignatureValid)
	assert.NotContains(t, outcome.GatewayResponse, "CHECKSUMHASH")
	assert.Equal(t, "UPI", outcome.GatewayResponse["PAYMENTMODE"])
}
