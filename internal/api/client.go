// Package api implements the REST client for the invoice backend. Every
// endpoint wrapper surfaces failures the same way: transport errors are
// wrapped, non-2xx responses become an *APIError carrying the status code
// and the server's message body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nivke/invoiceflow/internal/common"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"
)

// Client talks to the invoice backend over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      service.RetryOptions
}

var _ service.InvoiceAPI = (*Client)(nil)

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: service.RetryOptions{MaxAttempts: 3},
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d - %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known status codes onto the shared sentinel errors so
// call sites can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusConflict:
		return common.ErrLabelExists
	case http.StatusTooManyRequests:
		return common.ErrRateLimit
	}
	return nil
}

// Scan triggers an email scan over the inclusive ISO date range and returns
// the backend's summary plus the extracted invoices.
func (c *Client) Scan(ctx context.Context, startDate, endDate string) (*model.ScanResult, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)

	var result model.ScanResult
	if err := c.getJSON(ctx, "/scan", q, &result); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return &result, nil
}

// getJSON performs a GET with retry on transient failures and decodes the
// JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	operation := func() error {
		err := c.do(ctx, http.MethodGet, path, query, nil, "", out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError &&
			apiErr.StatusCode != http.StatusTooManyRequests {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		return err
	}
	return common.WithRetry(ctx, operation, c.retry)
}

// sendJSON performs a mutating request with a JSON body. Mutations are not
// retried: the backend does not guarantee idempotency for creates.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, nil, reader, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	common.LogDebug("api request", common.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doBinary performs a request and returns the raw response body.
func (c *Client) doBinary(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
