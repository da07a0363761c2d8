// Package api holds the HTTP contract of the mediator: the OpenAPI document, its wire types and
// the strict server plumbing that binds requests to a StrictServerInterface implementation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

// StrictServerInterface represents all server handlers.
type StrictServerInterface interface {
	// (GET /)
	GetIndex(ctx context.Context, request GetIndexRequestObject) (ResponseObject, error)
	// (GET /api/health)
	GetHealth(ctx context.Context, request GetHealthRequestObject) (ResponseObject, error)
	// (POST /api/paytm/initiate)
	InitiateTransaction(ctx context.Context, request InitiateTransactionRequestObject) (ResponseObject, error)
	// (POST /api/paytm/callback)
	HandleCallback(ctx context.Context, request HandleCallbackRequestObject) (ResponseObject, error)
	// (GET /api/paytm/status/{orderId})
	GetTransactionStatus(ctx context.Context, request GetTransactionStatusRequestObject) (ResponseObject, error)
	// (GET /api/paytm/payments)
	ListTransactions(ctx context.Context, request ListTransactionsRequestObject) (ResponseObject, error)
	// (POST /api/paytm/transaction-status)
	InquireTransactionStatus(ctx context.Context, request InquireTransactionStatusRequestObject) (ResponseObject, error)
	// (POST /api/paytm/payments/{orderId}/cancel)
	CancelTransaction(ctx context.Context, request CancelTransactionRequestObject) (ResponseObject, error)
}

type GetIndexRequestObject struct{}

type GetHealthRequestObject struct{}

type InitiateTransactionRequestObject struct {
	Body *InitiateTransactionRequest
}

type HandleCallbackRequestObject struct {
	Payload map[string]string
}

type GetTransactionStatusRequestObject struct {
	OrderId string `json:"orderId"`
}

type ListTransactionsRequestObject struct {
	Params ListTransactionsParams
}

type InquireTransactionStatusRequestObject struct {
	Body *TransactionStatusRequest
}

type CancelTransactionRequestObject struct {
	OrderId string `json:"orderId"`
}

// ResponseObject is implemented by every response a handler can return.
type ResponseObject interface {
	VisitResponse(w http.ResponseWriter) error
}

type InitiateTransaction200JSONResponse InitiateTransactionResponse

func (response InitiateTransaction200JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, response)
}

type Transaction200JSONResponse TransactionEnvelope

func (response Transaction200JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, response)
}

type ListTransactions200JSONResponse ListTransactionsResponse

func (response ListTransactions200JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, response)
}

type GetIndex200JSONResponse IndexResponse

func (response GetIndex200JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, response)
}

type GetHealth200JSONResponse HealthResponse

func (response GetHealth200JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusOK, response)
}

type GetHealth503JSONResponse HealthResponse

func (response GetHealth503JSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, http.StatusServiceUnavailable, response)
}

// ErrorJSONResponse is an ErrorResponse sent with StatusCode.
type ErrorJSONResponse struct {
	Body       ErrorResponse
	StatusCode int
}

func (response ErrorJSONResponse) VisitResponse(w http.ResponseWriter) error {
	return writeJSON(w, response.StatusCode, response.Body)
}

// RouteNotFoundResponse is returned for paths no handler serves.
type RouteNotFoundResponse struct {
	Message       string `json:"message"`
	RequestedPath string `json:"requestedPath"`
	Success       bool   `json:"success"`
}

// StrictHTTPServerOptions customises how binding and handler errors are rendered.
type StrictHTTPServerOptions struct {
	RequestErrorHandlerFunc  func(w http.ResponseWriter, r *http.Request, err error)
	ResponseErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type strictHandler struct {
	ssi     StrictServerInterface
	options StrictHTTPServerOptions
}

// HandlerFromMux registers every operation of si on mux and returns mux.
func HandlerFromMux(si StrictServerInterface, mux *http.ServeMux, options StrictHTTPServerOptions) http.Handler {
	if options.RequestErrorHandlerFunc == nil {
		options.RequestErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{ //nolint:errcheck // response already committed
				Error:   ErrorKindValidation,
				Code:    "invalid_request",
				Message: err.Error(),
			})
		}
	}
	if options.ResponseErrorHandlerFunc == nil {
		options.ResponseErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, _ error) {
			_ = writeJSON(w, http.StatusInternalServerError, ErrorResponse{ //nolint:errcheck // response already committed
				Error:   ErrorKindInternal,
				Message: "internal error",
			})
		}
	}

	sh := &strictHandler{ssi: si, options: options}

	mux.HandleFunc("GET /{$}", sh.getIndex)
	mux.HandleFunc("GET /api/health", sh.getHealth)
	mux.HandleFunc("POST /api/paytm/initiate", sh.initiateTransaction)
	mux.HandleFunc("POST /api/paytm/callback", sh.handleCallback)
	mux.HandleFunc("GET /api/paytm/status/{orderId}", sh.getTransactionStatus)
	mux.HandleFunc("GET /api/paytm/payments", sh.listTransactions)
	mux.HandleFunc("POST /api/paytm/transaction-status", sh.inquireTransactionStatus)
	mux.HandleFunc("POST /api/paytm/payments/{orderId}/cancel", sh.cancelTransaction)
	mux.HandleFunc("/", routeNotFound)

	return mux
}

func (sh *strictHandler) respond(w http.ResponseWriter, r *http.Request, response ResponseObject, err error) {
	if err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
		return
	}
	if response == nil {
		sh.options.ResponseErrorHandlerFunc(w, r, errors.New("handler returned no response"))
		return
	}
	if err := response.VisitResponse(w); err != nil {
		sh.options.ResponseErrorHandlerFunc(w, r, err)
	}
}

func (sh *strictHandler) getIndex(w http.ResponseWriter, r *http.Request) {
	response, err := sh.ssi.GetIndex(r.Context(), GetIndexRequestObject{})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) getHealth(w http.ResponseWriter, r *http.Request) {
	response, err := sh.ssi.GetHealth(r.Context(), GetHealthRequestObject{})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) initiateTransaction(w http.ResponseWriter, r *http.Request) {
	var body InitiateTransactionRequest
	if err := decodeJSONBody(w, r, &body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}

	response, err := sh.ssi.InitiateTransaction(r.Context(), InitiateTransactionRequestObject{Body: &body})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeCallbackPayload(w, r)
	if err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode callback: %w", err))
		return
	}

	response, err := sh.ssi.HandleCallback(r.Context(), HandleCallbackRequestObject{Payload: payload})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) getTransactionStatus(w http.ResponseWriter, r *http.Request) {
	var orderID string
	if err := bindOrderID(r, &orderID); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, err)
		return
	}

	response, err := sh.ssi.GetTransactionStatus(r.Context(), GetTransactionStatusRequestObject{OrderId: orderID})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	var params ListTransactionsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "status", query, &params.Status); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter status: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter page: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	response, err := sh.ssi.ListTransactions(r.Context(), ListTransactionsRequestObject{Params: params})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) inquireTransactionStatus(w http.ResponseWriter, r *http.Request) {
	var body TransactionStatusRequest
	if err := decodeJSONBody(w, r, &body); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, fmt.Errorf("can't decode JSON body: %w", err))
		return
	}

	response, err := sh.ssi.InquireTransactionStatus(r.Context(), InquireTransactionStatusRequestObject{Body: &body})
	sh.respond(w, r, response, err)
}

func (sh *strictHandler) cancelTransaction(w http.ResponseWriter, r *http.Request) {
	var orderID string
	if err := bindOrderID(r, &orderID); err != nil {
		sh.options.RequestErrorHandlerFunc(w, r, err)
		return
	}

	response, err := sh.ssi.CancelTransaction(r.Context(), CancelTransactionRequestObject{OrderId: orderID})
	sh.respond(w, r, response, err)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusNotFound, RouteNotFoundResponse{ //nolint:errcheck // response already committed
		Message:       "Route not found",
		RequestedPath: r.URL.RequestURI(),
	})
}

func bindOrderID(r *http.Request, dest *string) error {
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", r.PathValue("orderId"), dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return fmt.Errorf("invalid format for parameter orderId: %w", err)
	}
	return nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest)
}

// decodeCallbackPayload reads the gateway's parameters from a form or a flat JSON object.
// Repeated form keys keep their first value.
func decodeCallbackPayload(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return flattenJSONObject(raw)
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	payload := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload, nil
}

func flattenJSONObject(raw []byte) (map[string]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return nil, err
	}
	if object == nil {
		return nil, errors.New("expected a JSON object")
	}

	payload := make(map[string]string, len(object))
	for key, value := range object {
		switch v := value.(type) {
		case nil:
			payload[key] = ""
		case string:
			payload[key] = v
		case json.Number:
			payload[key] = v.String()
		case bool:
			payload[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %s must be a scalar", key)
		}
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
