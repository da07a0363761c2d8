// Package gateway talks to the Paytm gateway on behalf of the mediator.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/benx421/payment-gateway/mediator/internal/config"
	"github.com/benx421/payment-gateway/mediator/internal/signature"
)

// Errors returned by the client. Both are wrapped together with the underlying cause.
var (
	ErrUpstream        = errors.New("gateway unavailable")
	ErrUpstreamTimeout = errors.New("gateway timed out")
)

const maxResponseBytes = 1 << 20

// StatusResponse is the status inquiry payload, each value rendered as a string
type StatusResponse struct {
	Fields map[string]string
}

// Get returns the value of key, or "" when absent.
func (r *StatusResponse) Get(key string) string {
	return r.Fields[key]
}

// Client performs signed status inquiries
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	cfg        config.PaytmConfig
}

// NewClient creates a Client. A nil httpClient uses a dedicated client without its own
// timeout; every call is bounded by cfg.StatusTimeout instead.
func NewClient(cfg config.PaytmConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		cfg:        cfg,
	}
}

// InquireStatus asks the gateway for the current outcome of orderID.
func (c *Client) InquireStatus(ctx context.Context, orderID string) (*StatusResponse, error) {
	params := map[string]string{
		"MID":     c.cfg.MerchantID,
		"ORDERID": orderID,
	}
	checksum, err := signature.Sign(params, c.cfg.MerchantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign status inquiry: %w", err)
	}
	params[signature.Field] = checksum

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status inquiry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.StatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.StatusURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(orderID, started, err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // body fully consumed or abandoned
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("gateway status inquiry rejected",
			"order_id", orderID,
			"http_status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: unexpected http status %d", ErrUpstream, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(orderID, started, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	c.logger.Debug("gateway status inquiry completed",
		"order_id", orderID,
		"status", fields["STATUS"],
		"duration", time.Since(started),
	)

	return &StatusResponse{Fields: fields}, nil
}

func (c *Client) transportError(orderID string, started time.Time, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.Error("gateway status inquiry timed out",
			"order_id", orderID,
			"duration", time.Since(started),
		)
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}

	c.logger.Error("gateway status inquiry failed", "order_id", orderID, "error", err)
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// decodeFields flattens a JSON object into strings. Numbers keep their literal form so amounts
// such as 499.00 are not reformatted.
func decodeFields(raw []byte) (map[string]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	if payload == nil {
		return nil, errors.New("empty status response")
	}

	fields := make(map[string]string, len(payload))
	for k, v := range payload {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field %s: %w", k, err)
			}
			fields[k] = string(nested)
		}
	}
	return fields, nil
}
