// Package guerrilla implements a minimal client for the Guerrilla Mail
// JSON API (https://api.guerrillamail.com/ajax.php).
package guerrilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public Guerrilla Mail API endpoint.
const DefaultBaseURL = "https://api.guerrillamail.com/ajax.php"

// Client talks to the Guerrilla Mail API. One Client can serve many
// addresses; the API session token (sid_token) is tracked per address, so a
// single Client is safe for concurrent use across independent mailboxes.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	sessions map[string]string // email address -> sid_token
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

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Guerrilla Mail client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateAddress provisions a mailbox for the given alias and returns the
// full email address assigned by the server. The server may normalize the
// alias, so the returned address is authoritative.
func (c *Client) CreateAddress(ctx context.Context, alias string) (string, error) {
	var got struct {
		EmailAddr string `json:"email_addr"`
		SidToken  string `json:"sid_token"`
	}

	params := url.Values{"f": {"get_email_address"}}
	if err := c.call(ctx, params, &got); err != nil {
		return "", err
	}
	sid := got.SidToken

	params = url.Values{
		"f":          {"set_email_user"},
		"email_user": {alias},
		"sid_token":  {sid},
	}
	if err := c.call(ctx, params, &got); err != nil {
		return "", err
	}
	if got.SidToken != "" {
		sid = got.SidToken
	}
	if got.EmailAddr == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "empty email_addr in set_email_user response"}
	}

	c.mu.Lock()
	c.sessions[got.EmailAddr] = sid
	c.mu.Unlock()

	return got.EmailAddr, nil
}

// ListMessages returns the mailbox content for an address created by this
// client, newest first, in the order the server returns it.
func (c *Client) ListMessages(ctx context.Context, address string) ([]Message, error) {
	sid, err := c.session(address)
	if err != nil {
		return nil, err
	}

	var got struct {
		List     []Message `json:"list"`
		SidToken string    `json:"sid_token"`
	}

	params := url.Values{
		"f":         {"get_email_list"},
		"offset":    {"0"},
		"sid_token": {sid},
	}
	if err := c.call(ctx, params, &got); err != nil {
		return nil, err
	}
	c.storeSession(address, got.SidToken)

	return got.List, nil
}

// FetchMessage retrieves a full message, including its body.
func (c *Client) FetchMessage(ctx context.Context, address string, id MessageID) (*MessageDetails, error) {
	sid, err := c.session(address)
	if err != nil {
		return nil, err
	}

	var got MessageDetails

	params := url.Values{
		"f":         {"fetch_email"},
		"email_id":  {string(id)},
		"sid_token": {sid},
	}
	if err := c.call(ctx, params, &got); err != nil {
		return nil, err
	}

	return &got, nil
}

// DeleteAddress tells the server to forget the address and drops the local
// session. Further calls for the address return ErrUnknownAddress.
func (c *Client) DeleteAddress(ctx context.Context, address string) error {
	sid, err := c.session(address)
	if err != nil {
		return err
	}

	params := url.Values{
		"f":          {"forget_me"},
		"email_addr": {address},
		"sid_token":  {sid},
	}
	if err := c.call(ctx, params, nil); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.sessions, address)
	c.mu.Unlock()

	return nil
}

// session returns the sid_token for an address.
func (c *Client) session(address string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sid, ok := c.sessions[address]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAddress, address)
	}
	return sid, nil
}

// storeSession updates the sid_token for an address. The server rotates the
// token on some responses; an empty token means keep the current one.
func (c *Client) storeSession(address, sid string) {
	if sid == "" {
		return
	}
	c.mu.Lock()
	if _, ok := c.sessions[address]; ok {
		c.sessions[address] = sid
	}
	c.mu.Unlock()
}

func (c *Client) call(ctx context.Context, params url.Values, result interface{}) error {
	u := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err, URL: c.baseURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
