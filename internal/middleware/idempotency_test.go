package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/benx421/payment-gateway/mediator/internal/api"
	"github.com/benx421/payment-gateway/mediator/internal/models"
	"github.com/benx421/payment-gateway/mediator/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const initiatePath = "/api/paytm/initiate"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test helper
	})
}

// countingHandler answers like the initiate endpoint and counts how often it ran.
type countingHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"success":true,"data":{"orderId":"ORD1"}}`)) //nolint:errcheck // test helper
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func initiateRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, initiatePath, strings.NewReader(`{"amount":499}`))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotency_Bypassed(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		key    string
	}{
		{name: "GET request", method: http.MethodGet, path: initiatePath, key: "k1"},
		{name: "callback is not cached", method: http.MethodPost, path: "/api/paytm/callback", key: "k1"},
		{name: "cancel is not cached", method: http.MethodPost, path: "/api/paytm/payments/ORD1/cancel", key: "k1"},
		{name: "missing key", method: http.MethodPost, path: initiatePath},
		{name: "blank key", method: http.MethodPost, path: initiatePath, key: "   "},
		{name: "oversized key", method: http.MethodPost, path: initiatePath, key: strings.Repeat("k", maxIdempotencyKeyLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			next := &countingHandler{}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("Idempotency-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			Idempotency(repo, testLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, 1, next.count())
			assert.Empty(t, rec.Header().Get(idempotentReplayHeader))
			repo.AssertNotCalled(t, "Get")
			repo.AssertNotCalled(t, "Store")
		})
	}
}

func TestIdempotency_StoresSuccessfulInitiate(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "order-42", initiatePath).Return(nil, nil)

	var stored *models.IdempotencyKey
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.IdempotencyKey) }).
		Return(nil)

	next := &countingHandler{}
	rec := httptest.NewRecorder()
	Idempotency(repo, testLogger())(next).ServeHTTP(rec, initiateRequest("  order-42 "))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(idempotentReplayHeader))
	require.NotNil(t, stored)
	assert.Equal(t, "order-42", stored.Key)
	assert.Equal(t, initiatePath, stored.RequestPath)
	assert.Equal(t, http.StatusOK, stored.ResponseStatus)
	assert.Equal(t, rec.Body.String(), stored.ResponseBody)
	assert.Equal(t, bodyHash(`{"amount":499}`), stored.RequestHash)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "order-42", initiatePath).Return(&models.IdempotencyKey{
		Key:            "order-42",
		RequestPath:    initiatePath,
		ResponseStatus: http.StatusOK,
		ResponseBody:   `{"success":true,"data":{"orderId":"ORD-FIRST"}}`,
	}, nil)

	next := &countingHandler{}
	rec := httptest.NewRecorder()
	Idempotency(repo, testLogger())(next).ServeHTTP(rec, initiateRequest("order-42"))

	assert.Equal(t, 0, next.count(), "no second order may be created")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(idempotentReplayHeader))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"orderId":"ORD-FIRST"}}`, rec.Body.String())
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_TrailingSlashSharesScope(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "shared-key", initiatePath).Return(nil, nil).Once()
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, initiatePath+"/", nil)
	req.Header.Set("Idempotency-Key", "shared-key")
	rec := httptest.NewRecorder()

	Idempotency(repo, testLogger())(&countingHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotency_OnlySuccessIsStored(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			repo.On("Get", mock.Anything, "retry-me", initiatePath).Return(nil, nil)

			rec := httptest.NewRecorder()
			Idempotency(repo, testLogger())(testHandler(status, `{"success":false}`)).
				ServeHTTP(rec, initiateRequest("retry-me"))

			assert.Equal(t, status, rec.Code)
			repo.AssertNotCalled(t, "Store")
		})
	}
}

func TestIdempotency_StoreFailures(t *testing.T) {
	t.Run("lookup error fails open", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "k", initiatePath).Return(nil, errors.New("connection refused"))

		next := &countingHandler{}
		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(next).ServeHTTP(rec, initiateRequest("k"))

		assert.Equal(t, 1, next.count())
		assert.Equal(t, http.StatusOK, rec.Code)
		repo.AssertNotCalled(t, "Store")
	})

	t.Run("save error keeps the response", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "k", initiatePath).Return(nil, nil)
		repo.On("Store", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(&countingHandler{}).ServeHTTP(rec, initiateRequest("k"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ORD1")
	})
}

func TestIdempotency_ConcurrentDuplicateRejected(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "double-click", initiatePath).Return(nil, nil).Once()
	repo.On("Store", mock.Anything, mock.Anything).Return(nil).Once()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	handler := Idempotency(repo, testLogger())(slow)

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(first, initiateRequest("double-click"))
	}()
	<-entered

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, initiateRequest("double-click"))

	close(release)
	<-done

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)

	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, api.ErrorKindConflict, body.Error)
	assert.Equal(t, errCodeIdempotencyInUse, body.Code)
}

func bodyHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

func TestIdempotency_RequestBodyBindsKey(t *testing.T) {
	stored := &models.IdempotencyKey{
		Key:            "order-42",
		RequestPath:    initiatePath,
		RequestHash:    bodyHash(`{"amount":499}`),
		ResponseStatus: http.StatusOK,
		ResponseBody:   `{"success":true,"data":{"orderId":"ORD-FIRST"}}`,
	}

	t.Run("same body replays", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "order-42", initiatePath).Return(stored, nil)

		next := &countingHandler{}
		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(next).ServeHTTP(rec, initiateRequest("order-42"))

		assert.Equal(t, 0, next.count())
		assert.Equal(t, "true", rec.Header().Get(idempotentReplayHeader))
		assert.Contains(t, rec.Body.String(), "ORD-FIRST")
	})

	t.Run("different body is rejected", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "order-42", initiatePath).Return(stored, nil)

		req := httptest.NewRequest(http.MethodPost, initiatePath, strings.NewReader(`{"amount":10000}`))
		req.Header.Set("Idempotency-Key", "order-42")

		next := &countingHandler{}
		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(next).ServeHTTP(rec, req)

		assert.Equal(t, 0, next.count())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, rec.Header().Get(idempotentReplayHeader))
		assert.NotContains(t, rec.Body.String(), "ORD-FIRST")

		var body api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, api.ErrorKindConflict, body.Error)
		assert.Equal(t, errCodeKeyReused, body.Code)
		repo.AssertNotCalled(t, "Store")
	})

	t.Run("entry without fingerprint still replays", func(t *testing.T) {
		legacy := *stored
		legacy.RequestHash = ""
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Get", mock.Anything, "order-42", initiatePath).Return(&legacy, nil)

		req := httptest.NewRequest(http.MethodPost, initiatePath, strings.NewReader(`{"amount":1}`))
		req.Header.Set("Idempotency-Key", "order-42")
		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(&countingHandler{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get(idempotentReplayHeader))
	})
}

func TestIdempotency_BodyReachesHandler(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "k", initiatePath).Return(nil, nil)
	repo.On("Store", mock.Anything, mock.Anything).Return(nil)

	var seen string
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Idempotency(repo, testLogger())(echo).ServeHTTP(rec, initiateRequest("k"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"amount":499}`, seen)
}
