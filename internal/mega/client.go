// Package mega implements the subset of the MEGA API needed to register an
// account and confirm it: ephemeral account creation, the v2 signup flow and
// account key attachment.
package mega

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// DefaultBaseURL is the public MEGA API endpoint.
const DefaultBaseURL = "https://g.api.mega.co.nz"

// Client talks to the MEGA API. Commands are JSON arrays POSTed to the /cs
// endpoint with a strictly increasing sequence number. A Client is safe for
// concurrent use; sessions are per-call, not per-client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryConfig
	seqno      atomic.Uint64
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the API endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRetryConfig overrides the transport retry behavior.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// New creates a new MEGA API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// The sequence number starts at a random value, as the reference
	// clients do.
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err == nil {
		c.seqno.Store(binary.BigEndian.Uint64(seed[:]) & 0x7fffffff)
	}

	return c
}

// Do executes a single API command and decodes its result. The sid is the
// session to act under; empty for pre-session commands. EAGAIN responses are
// retried with backoff, any other error is returned as-is.
func (c *Client) Do(ctx context.Context, sid string, cmd, result interface{}) error {
	payload, err := json.Marshal([]interface{}{cmd})
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = c.once(ctx, sid, payload, result)
		if lastErr == nil || !c.retry.Retryable(lastErr) || attempt >= c.retry.MaxRetries {
			return lastErr
		}
		if err := c.retry.Wait(ctx, attempt); err != nil {
			return err
		}
	}
}

// once performs one request round trip.
func (c *Client) once(ctx context.Context, sid string, payload []byte, result interface{}) error {
	u := fmt.Sprintf("%s/cs?id=%d", c.baseURL, c.seqno.Add(1))
	if sid != "" {
		u += "&sid=" + url.QueryEscape(sid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err, URL: c.baseURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err, URL: c.baseURL}
	}

	return parseResult(body, result)
}

// parseResult decodes a /cs response body. The body is either a bare
// negative integer (request-level error) or a one-element array holding the
// command's result: a negative integer on failure, otherwise a JSON value.
func parseResult(body []byte, result interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty response")
	}

	if trimmed[0] != '[' {
		var code int
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return &APIError{Code: code}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("empty result array")
	}

	first := bytes.TrimSpace(items[0])
	var code int
	if err := json.Unmarshal(first, &code); err == nil {
		if code < 0 {
			return &APIError{Code: code}
		}
		// Some commands acknowledge with a plain 0.
		return nil
	}

	if result != nil {
		if err := json.Unmarshal(first, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}

	return nil
}
