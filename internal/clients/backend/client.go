// Package backend is the typed client for the portfolio/stock-list REST backend.
// Every call maps transport failures to *domain.NetworkError and HTTP statuses >= 400 to
// *domain.APIError; nothing is retried or cached.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/stockcircle/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultTimeout = 10 * time.Second
	// error bodies beyond this are not worth parsing
	maxErrorBody = 64 << 10
)

// Client talks to the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for baseURL. A non-positive timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "backend").Logger(),
	}
}

// number encodes a decimal as a bare JSON number. The backend declares money fields as floats.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call.
type request struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     interface{}
	fallback string
}

// do performs req and decodes a successful body into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", req.op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Debug().Err(err).Str("op", req.op).Str("path", req.path).Msg("Backend unreachable")
		return &domain.NetworkError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", req.op).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend call")

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw, req.fallback),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", req.op, err)
	}
	return nil
}

// errorMessage extracts the backend's `detail` field. Structured details are reported as
// their JSON text; anything unparsable yields fallback.
func errorMessage(raw []byte, fallback string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return fallback
	}
	detail := bytes.TrimSpace(envelope.Detail)
	if bytes.Equal(detail, []byte("null")) {
		return fallback
	}
	var s string
	if err := json.Unmarshal(detail, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, detail); err != nil {
		return string(detail)
	}
	return compact.String()
}

// Ping checks that the backend answers HTTP at all. Any response, including 404, counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "ping", Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &domain.APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return nil
}

func userQuery(userID domain.UserID) url.Values {
	return url.Values{"user_id": {string(userID)}}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
