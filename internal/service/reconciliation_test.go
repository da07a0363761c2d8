package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/benx421/payment-gateway/mediator/internal/gateway"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInquirer struct {
	mu     sync.Mutex
	fields map[string]string
	err    error
	calls  []string
}

func (f *fakeInquirer) InquireStatus(_ context.Context, orderID string) (*gateway.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderID)
	if f.err != nil {
		return nil, f.err
	}
	fields := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		fields[k] = v
	}
	if _, ok := fields["ORDERID"]; !ok {
		fields["ORDERID"] = orderID
	}
	return &gateway.StatusResponse{Fields: fields}, nil
}

func (f *fakeInquirer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newReconciliationFixture(t *testing.T, policy AuthenticityPolicy, inquirer *fakeInquirer) (*ReconciliationService, *lifecycleFixture) {
	t.Helper()
	f := newLifecycleFixture(t, policy)
	return NewReconciliationService(f.service, inquirer, testMerchantKey, testLogger()), f
}

func signedCallback(t *testing.T, orderID, status string) map[string]string {
	t.Helper()
	payload := map[string]string{
		"MID":         "Merchant0001",
		"ORDERID":     orderID,
		"TXNID":       "20241017111212800110168123456789",
		"TXNAMOUNT":   "499.00",
		"STATUS":      status,
		"RESPCODE":    "01",
		"RESPMSG":     "Txn Success",
		"PAYMENTMODE": "UPI",
		"BANKNAME":    "HDFC Bank",
		"BANKTXNID":   "777001234",
		"CURRENCY":    "INR",
	}
	checksum, err := signature.Sign(payload, testMerchantKey)
	require.NoError(t, err)
	payload[signature.Field] = checksum
	return payload
}

func TestReconciliationService_HandleCallback_Signed(t *testing.T) {
	reconciler, f := newReconciliationFixture(t, PolicyStrict, &fakeInquirer{})
	txn := f.initiate(t)

	updated, err := reconciler.HandleCallback(context.Background(), signedCallback(t, txn.OrderID, GatewayStatusSuccess))
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusSuccess, updated.Status)
	require.NotNil(t, updated.SignatureVerified)
	assert.True(t, *updated.SignatureVerified)
	assert.Equal(t, models.OutcomeSourceCallback, updated.OutcomeSource)
	assert.Equal(t, "HDFC Bank", updated.BankName)
	assert.Equal(t, "777001234", updated.BankTransactionID)
	assert.NotContains(t, updated.GatewayResponse, signature.Field)
}

func TestReconciliationService_HandleCallback_Tampered(t *testing.T) {
	tests := []struct {
		name   string
		policy AuthenticityPolicy
		mutate func(p map[string]string)
	}{
		{
			name:   "altered field",
			policy: PolicyStrict,
			mutate: func(p map[string]string) { p["RESPMSG"] = "changed" },
		},
		{
			name:   "missing checksum",
			policy: PolicyStrict,
			mutate: func(p map[string]string) { delete(p, signature.Field) },
		},
		{
			name:   "garbage checksum",
			policy: PolicyStrict,
			mutate: func(p map[string]string) { p[signature.Field] = "zz" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler, f := newReconciliationFixture(t, tt.policy, &fakeInquirer{})
			txn := f.initiate(t)

			payload := signedCallback(t, txn.OrderID, GatewayStatusSuccess)
			tt.mutate(payload)

			_, err := reconciler.HandleCallback(context.Background(), payload)
			requireKind(t, err, KindConflict, ErrCodeSignatureInvalid)

			stored, err := f.repo.FindByOrderID(context.Background(), txn.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.TransactionStatusPending, stored.Status)
		})
	}
}

func TestReconciliationService_HandleCallback_PermissiveRecordsUnverified(t *testing.T) {
	reconciler, f := newReconciliationFixture(t, PolicyPermissive, &fakeInquirer{})
	txn := f.initiate(t)

	payload := signedCallback(t, txn.OrderID, GatewayStatusFailure)
	delete(payload, signature.Field)

	updated, err := reconciler.HandleCallback(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, updated.Status)
	require.NotNil(t, updated.SignatureVerified)
	assert.False(t, *updated.SignatureVerified)
}

func TestReconciliationService_HandleCallback_MissingFields(t *testing.T) {
	reconciler, _ := newReconciliationFixture(t, PolicyStrict, &fakeInquirer{})

	for _, field := range []string{"ORDERID", "STATUS"} {
		t.Run(field, func(t *testing.T) {
			payload := signedCallback(t, "ORD1", GatewayStatusSuccess)
			payload[field] = " "

			_, err := reconciler.HandleCallback(context.Background(), payload)
			requireKind(t, err, KindValidation, ErrCodeMissingField)
		})
	}
}

func TestReconciliationService_HandleCallback_UnknownOrder(t *testing.T) {
	reconciler, _ := newReconciliationFixture(t, PolicyStrict, &fakeInquirer{})

	_, err := reconciler.HandleCallback(context.Background(), signedCallback(t, "ORDMISSING", GatewayStatusSuccess))
	requireKind(t, err, KindNotFound, ErrCodeTransactionNotFound)
}

func TestReconciliationService_HandleStatusInquiry(t *testing.T) {
	inquirer := &fakeInquirer{fields: map[string]string{
		"STATUS":    GatewayStatusSuccess,
		"TXNAMOUNT": "499.00",
		"TXNID":     "T1",
		"RESPCODE":  "01",
	}}
	reconciler, f := newReconciliationFixture(t, PolicyStrict, inquirer)
	txn := f.initiate(t)

	updated, err := reconciler.HandleStatusInquiry(context.Background(), txn.OrderID)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusSuccess, updated.Status)
	assert.Equal(t, models.OutcomeSourceInquiry, updated.OutcomeSource)
	require.NotNil(t, updated.SignatureVerified)
	assert.True(t, *updated.SignatureVerified)
	assert.Equal(t, []string{txn.OrderID}, inquirer.Calls())

	again, err := reconciler.HandleStatusInquiry(context.Background(), txn.OrderID)
	require.NoError(t, err)
	assert.Equal(t, updated.UpdatedAt, again.UpdatedAt)
}

func TestReconciliationService_HandleStatusInquiry_ConflictsWithCallback(t *testing.T) {
	inquirer := &fakeInquirer{fields: map[string]string{"STATUS": GatewayStatusFailure}}
	reconciler, f := newReconciliationFixture(t, PolicyStrict, inquirer)
	txn := f.initiate(t)

	_, err := reconciler.HandleCallback(context.Background(), signedCallback(t, txn.OrderID, GatewayStatusSuccess))
	require.NoError(t, err)

	_, err = reconciler.HandleStatusInquiry(context.Background(), txn.OrderID)
	requireKind(t, err, KindConflict, ErrCodeOutcomeConflict)
}

func TestReconciliationService_HandleStatusInquiry_GatewayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{
			name: "timeout",
			err:  fmt.Errorf("%w: %w", gateway.ErrUpstreamTimeout, context.DeadlineExceeded),
			kind: KindUpstreamTimeout,
			code: ErrCodeGatewayTimeout,
		},
		{
			name: "unavailable",
			err:  fmt.Errorf("%w: unexpected http status 503", gateway.ErrUpstream),
			kind: KindUpstream,
			code: ErrCodeGatewayUnavailable,
		},
		{
			name: "missing key",
			err:  fmt.Errorf("failed to sign status inquiry: %w", signature.ErrEmptySecret),
			kind: KindSigning,
			code: ErrCodeSigningKeyMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler, f := newReconciliationFixture(t, PolicyStrict, &fakeInquirer{err: tt.err})
			txn := f.initiate(t)

			_, err := reconciler.HandleStatusInquiry(context.Background(), txn.OrderID)
			requireKind(t, err, tt.kind, tt.code)

			stored, err := f.repo.FindByOrderID(context.Background(), txn.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.TransactionStatusPending, stored.Status)
			assert.Equal(t, txn.UpdatedAt, stored.UpdatedAt)
		})
	}
}

func TestReconciliationService_HandleStatusInquiry_BadResponses(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "different order", fields: map[string]string{"ORDERID": "ORDOTHER", "STATUS": GatewayStatusSuccess}},
		{name: "no status", fields: map[string]string{"RESPCODE": "334"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler, f := newReconciliationFixture(t, PolicyStrict, &fakeInquirer{fields: tt.fields})
			txn := f.initiate(t)

			_, err := reconciler.HandleStatusInquiry(context.Background(), txn.OrderID)
			requireKind(t, err, KindUpstream, ErrCodeGatewayUnavailable)
		})
	}
}

func TestReconciliationService_HandleStatusInquiry_UnknownOrderSkipsGateway(t *testing.T) {
	inquirer := &fakeInquirer{err: errors.New("must not be called")}
	reconciler, _ := newReconciliationFixture(t, PolicyStrict, inquirer)

	_, err := reconciler.HandleStatusInquiry(context.Background(), "ORDMISSING")
	requireKind(t, err, KindNotFound, ErrCodeTransactionNotFound)
	assert.Empty(t, inquirer.Calls())
}
