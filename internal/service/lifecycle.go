package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/events"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/orderid"
	"github.com/benx421/payment-gateway/mediator/internal/repository"
	"github.com/benx421/payment-gateway/mediator/internal/signature"
	"github.com/shopspring/decimal"
)

const (
	maxInsertAttempts = 3

	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = 1_000_000

	publishTimeout = 3 * time.Second
)

// InitiateRequest carries the caller's input for a new order
type InitiateRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail" validate:"required,email,max=254"`
	CustomerPhone string          `json:"customerPhone" validate:"required,numeric,min=10,max=15"`
	CustomerName  string          `json:"customerName" validate:"required,max=100"`
}

// InitiateResult is a freshly persisted PENDING order and the signed parameters to send to the gateway
type InitiateResult struct {
	Transaction *models.Transaction
	Params      map[string]string
	GatewayURL  string
}

// LifecycleService owns every status transition of a transaction
type LifecycleService struct {
	repo      repository.TransactionRepository
	ids       orderid.Generator
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
	cfg       config.PaytmConfig
	policy    AuthenticityPolicy
}

// NewLifecycleService creates a new LifecycleService. A nil publisher disables status events.
func NewLifecycleService(
	repo repository.TransactionRepository,
	ids orderid.Generator,
	cfg config.PaytmConfig,
	policy AuthenticityPolicy,
	publisher events.Publisher,
	logger *slog.Logger,
) *LifecycleService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LifecycleService{
		repo:      repo,
		ids:       ids,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
		policy:    policy,
	}
}

// Initiate validates req, persists a PENDING transaction under a fresh order id and returns the
// signed gateway parameters for it.
func (s *LifecycleService) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerName = strings.TrimSpace(req.CustomerName)

	if err := ValidateAmount(req.Amount); err != nil {
		return nil, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeInvalidAmount,
			Message: err.Error(),
		}
	}

	if err := validateCustomer(req); err != nil {
		return nil, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeInvalidCustomer,
			Message: err.Error(),
		}
	}

	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		orderID := s.ids.Generate()

		params := s.gatewayParams(orderID, req)
		checksum, err := signature.Sign(params, s.cfg.MerchantKey)
		if err != nil {
			return nil, &ServiceError{
				Kind:    KindSigning,
				Code:    ErrCodeSigningKeyMissing,
				Message: "failed to sign gateway parameters",
				Err:     err,
			}
		}
		params[signature.Field] = checksum

		createdAt := s.now().UTC().Truncate(time.Microsecond)
		txn := &models.Transaction{
			OrderID:       orderID,
			Amount:        req.Amount,
			Currency:      s.cfg.Currency,
			Status:        models.TransactionStatusPending,
			IntegrityCode: checksum,
			Customer: models.Customer{
				Email: req.CustomerEmail,
				Phone: req.CustomerPhone,
				Name:  req.CustomerName,
			},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		inserted, err := s.repo.InsertIfAbsent(ctx, txn)
		if err != nil {
			return nil, persistenceError("failed to create transaction", err)
		}
		if inserted {
			s.logger.Info("transaction initiated",
				"order_id", orderID,
				"amount", txn.Amount.StringFixed(2),
				"currency", txn.Currency,
			)
			return &InitiateResult{
				Transaction: txn,
				Params:      params,
				GatewayURL:  s.cfg.TransactionURL,
			}, nil
		}

		s.logger.Warn("order id collision, regenerating", "order_id", orderID, "attempt", attempt)
	}

	return nil, &ServiceError{
		Kind:    KindPersistence,
		Code:    ErrCodeOrderIDExhausted,
		Message: fmt.Sprintf("could not allocate a unique order id after %d attempts", maxInsertAttempts),
	}
}

func (s *LifecycleService) gatewayParams(orderID string, req InitiateRequest) map[string]string {
	return map[string]string{
		"MID":              s.cfg.MerchantID,
		"WEBSITE":          s.cfg.Website,
		"CHANNEL_ID":       s.cfg.ChannelID,
		"INDUSTRY_TYPE_ID": s.cfg.IndustryTypeID,
		"ORDER_ID":         orderID,
		"CUST_ID":          req.CustomerEmail,
		"TXN_AMOUNT":       req.Amount.StringFixed(2),
		"CALLBACK_URL":     s.cfg.CallbackURL,
		"EMAIL":            req.CustomerEmail,
		"MOBILE_NO":        req.CustomerPhone,
	}
}

// ApplyOutcome moves a PENDING transaction to the terminal status the gateway reported.
// Replaying the outcome a terminal transaction already holds returns it unchanged; a different
// outcome is a conflict.
func (s *LifecycleService) ApplyOutcome(ctx context.Context, outcome Outcome) (*models.Transaction, error) {
	if outcome.OrderID == "" {
		return nil, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeMissingField,
			Message: "order id is required",
		}
	}

	txn, err := s.Get(ctx, outcome.OrderID)
	if err != nil {
		return nil, err
	}

	target := MapGatewayStatus(outcome.ReportedStatus)

	if txn.Status.IsTerminal() {
		return s.resolveTerminal(txn, target, outcome.Source)
	}

	if err := s.policy.Check(outcome.SignatureValid); err != nil {
		s.logger.Warn("rejected unauthenticated gateway outcome",
			"order_id", txn.OrderID,
			"reported_status", outcome.ReportedStatus,
			"source", outcome.Source,
		)
		return nil, err
	}

	if err := checkAmount(txn.Amount, outcome.ReportedAmount); err != nil {
		s.logger.Warn("gateway reported a different amount",
			"order_id", txn.OrderID,
			"expected_amount", txn.Amount.StringFixed(2),
			"reported_amount", outcome.ReportedAmount,
			"source", outcome.Source,
		)
		return nil, err
	}

	verified := outcome.SignatureValid
	update := &models.StatusUpdate{
		Status:            target,
		UpdatedAt:         s.now().UTC().Truncate(time.Microsecond),
		GatewayResponse:   outcome.GatewayResponse,
		SignatureVerified: &verified,
		ResponseCode:      outcome.ResponseCode,
		ResponseMessage:   outcome.ResponseMessage,
		PaymentMode:       outcome.PaymentMode,
		BankName:          outcome.BankName,
		BankTransactionID: outcome.BankTransactionID,
		OutcomeSource:     outcome.Source,
	}
	if outcome.GatewayTransactionID != "" {
		gatewayTxnID := outcome.GatewayTransactionID
		update.GatewayTransactionID = &gatewayTxnID
	}

	return s.commit(ctx, txn, update)
}

// Cancel moves a PENDING transaction to CANCELLED on the merchant's behalf.
func (s *LifecycleService) Cancel(ctx context.Context, orderID string) (*models.Transaction, error) {
	txn, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if txn.Status.IsTerminal() {
		return s.resolveTerminal(txn, models.TransactionStatusCancelled, models.OutcomeSourceMerchant)
	}

	update := &models.StatusUpdate{
		Status:          models.TransactionStatusCancelled,
		UpdatedAt:       s.now().UTC().Truncate(time.Microsecond),
		ResponseMessage: "Cancelled by merchant",
		OutcomeSource:   models.OutcomeSourceMerchant,
	}

	return s.commit(ctx, txn, update)
}

// commit applies update if txn is still PENDING in the store. A writer that loses the race
// re-reads the winner's outcome and compares against it.
func (s *LifecycleService) commit(ctx context.Context, txn *models.Transaction, update *models.StatusUpdate) (*models.Transaction, error) {
	applied, err := s.repo.CompareAndUpdateStatus(ctx, txn.OrderID, models.TransactionStatusPending, update)
	if err != nil {
		return nil, persistenceError("failed to update transaction status", err)
	}

	if !applied {
		current, err := s.Get(ctx, txn.OrderID)
		if err != nil {
			return nil, err
		}
		if !current.Status.IsTerminal() {
			return nil, persistenceError("transaction status changed concurrently", nil)
		}
		return s.resolveTerminal(current, update.Status, update.OutcomeSource)
	}

	previous := txn.Status
	update.Apply(txn)

	s.logger.Info("transaction status updated",
		"order_id", txn.OrderID,
		"previous_status", previous,
		"status", txn.Status,
		"source", txn.OutcomeSource,
	)

	event := models.TransactionEvent{
		OrderID:           txn.OrderID,
		Amount:            txn.Amount.StringFixed(2),
		Currency:          txn.Currency,
		PreviousStatus:    previous,
		Status:            txn.Status,
		Source:            txn.OutcomeSource,
		SignatureVerified: txn.SignatureVerified,
		OccurredAt:        txn.UpdatedAt,
	}
	// The transition is committed; deliver its event even if the caller has gone away.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(publishCtx, event); err != nil {
		s.logger.Error("failed to publish status event", "order_id", txn.OrderID, "error", err)
	}

	return txn, nil
}

func (s *LifecycleService) resolveTerminal(
	txn *models.Transaction,
	target models.TransactionStatus,
	source models.OutcomeSource,
) (*models.Transaction, error) {
	if txn.Status == target {
		s.logger.Debug("outcome already applied", "order_id", txn.OrderID, "status", txn.Status, "source", source)
		return txn, nil
	}

	s.logger.Warn("conflicting outcome for terminal transaction",
		"order_id", txn.OrderID,
		"stored_status", txn.Status,
		"reported_status", target,
		"source", source,
	)
	return nil, &ServiceError{
		Kind:    KindConflict,
		Code:    ErrCodeOutcomeConflict,
		Message: fmt.Sprintf("transaction %s is already %s", txn.OrderID, txn.Status),
	}
}

// checkAmount rejects a reported amount that differs from the stored one. An absent amount passes.
func checkAmount(stored decimal.Decimal, reported string) error {
	if reported == "" {
		return nil
	}

	amount, err := decimal.NewFromString(reported)
	if err != nil || !amount.Equal(stored) {
		return &ServiceError{
			Kind:    KindConflict,
			Code:    ErrCodeAmountMismatch,
			Message: "reported amount does not match the transaction amount",
			Err:     err,
		}
	}
	return nil
}

// Get retrieves a transaction by order id
func (s *LifecycleService) Get(ctx context.Context, orderID string) (*models.Transaction, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeMissingField,
			Message: "order id is required",
		}
	}

	txn, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFoundError(orderID)
		}
		return nil, persistenceError("failed to load transaction", err)
	}
	return txn, nil
}

// List returns one page of transactions, newest first, together with the total match count.
func (s *LifecycleService) List(
	ctx context.Context,
	filter models.TransactionFilter,
	page models.Pagination,
) ([]models.TransactionSummary, int, models.Pagination, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, page, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeInvalidRequest,
			Message: fmt.Sprintf("unknown status filter %q", *filter.Status),
		}
	}

	page = normalizePagination(page)
	if page.Page > maxPage {
		return nil, 0, page, &ServiceError{
			Kind:    KindValidation,
			Code:    ErrCodeInvalidRequest,
			Message: fmt.Sprintf("page must be at most %d", maxPage),
		}
	}

	summaries, total, err := s.repo.Find(ctx, filter, page)
	if err != nil {
		return nil, 0, page, persistenceError("failed to list transactions", err)
	}
	return summaries, total, page, nil
}

func normalizePagination(page models.Pagination) models.Pagination {
	if page.Page < 1 {
		page.Page = defaultPage
	}
	if page.PageSize < 1 {
		page.PageSize = defaultPageSize
	}
	if page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}
	return page
}
