package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenProvider supplies the bearer token for outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenProvider interface {
	Token() string
}

// Client is the single configured HTTP client every resource call goes
// through. It injects auth headers, unwraps the backend's
// {success, data, message} envelope, and retries idempotent reads once.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	baseURL    string
	getRetries int
}

// New creates a Client. Without options it targets the configured
// API_URL (default "/api") with a 30s timeout and one GET retry.
func New(opts ...Option) *Client {
	cfg := LoadConfig()
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		getRetries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request. Transport failures are retried up to the
// configured GET retry count before the error is returned.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body. Writes are never retried.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with a JSON body. Writes are never retried.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Patch issues a PATCH request with a JSON body. Writes are never retried.
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete issues a DELETE request. Writes are never retried.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// wireEnvelope is the backend's outer response wrapper. Success is a
// pointer so endpoints that return bare payloads pass through unchanged.
type wireEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	target := strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Join(ErrEncode, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.getRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.tokens != nil {
			if tok := c.tokens.Token(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = errors.Join(ErrTransport, err)
			continue
		}

		data, err := unwrap(resp)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	return nil, lastErr
}

// unwrap reads the response body and peels off the {success, data,
// message} envelope. Non-2xx statuses and success=false both become an
// *APIError carrying the backend message.
func unwrap(resp *http.Response) (json.RawMessage, error) {
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	var env wireEnvelope
	enveloped := json.Unmarshal(raw, &env) == nil && env.Success != nil

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if enveloped {
		if !*env.Success {
			msg := env.Message
			if msg == "" {
				msg = "request failed"
			}
			return nil, &APIError{Status: resp.StatusCode, Message: msg}
		}
		return env.Data, nil
	}

	return raw, nil
}
