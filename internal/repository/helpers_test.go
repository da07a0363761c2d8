package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/db"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database := db.ConnectForTest(t)
	truncateTables(t, database)
	return database
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"transactions", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

func newPendingTransaction(orderID string, createdAt time.Time) *models.Transaction {
	return &models.Transaction{
		OrderID:  orderID,
		Amount:   decimal.RequireFromString("499.00"),
		Currency: "INR",
		Customer: models.Customer{
			Email: "a@b.com",
			Phone: "9999999999",
			Name:  "A B",
		},
		Status:        models.TransactionStatusPending,
		IntegrityCode: "0f0e0d",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func successUpdate(at time.Time) *models.StatusUpdate {
	gatewayTxnID := "20241017111212800110168123456789"
	verified := true
	return &models.StatusUpdate{
		Status:               models.TransactionStatusSuccess,
		GatewayTransactionID: &gatewayTxnID,
		GatewayResponse: map[string]string{
			"ORDERID": "ORD1",
			"STATUS":  "TXN_SUCCESS",
		},
		ResponseCode:      "01",
		ResponseMessage:   "Txn Success",
		PaymentMode:       "UPI",
		BankName:          "HDFC",
		BankTransactionID: "777001",
		SignatureVerified: &verified,
		OutcomeSource:     models.OutcomeSourceCallback,
		UpdatedAt:         at,
	}
}

func statusPtr(s models.TransactionStatus) *models.TransactionStatus {
	return &s
}
