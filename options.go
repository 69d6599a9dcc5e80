package megagen

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// defaultTimeout is how long an attempt waits for the confirmation email.
	defaultTimeout = 300 * time.Second
	// defaultPollInterval is the pause between mailbox polls.
	defaultPollInterval = 5 * time.Second
)

// generatorConfig holds configuration for the generator.
type generatorConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
	proxyURL     string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option configures the generator.
type Option func(*generatorConfig)

// WithTimeout sets how long a generation attempt waits for the confirmation
// email before giving up. Default: 5 minutes.
func WithTimeout(timeout time.Duration) Option {
	return func(c *generatorConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the pause between mailbox polls while waiting for
// the confirmation email. Default: 5 seconds.
func WithPollInterval(interval time.Duration) Option {
	return func(c *generatorConfig) {
		c.pollInterval = interval
	}
}

// WithProxy routes all mailbox and MEGA traffic through the given proxy URL.
// The URL is not validated here; a malformed proxy URL surfaces as a
// transport error on the first request that tries to use it.
func WithProxy(proxyURL string) Option {
	return func(c *generatorConfig) {
		c.proxyURL = proxyURL
	}
}

// WithHTTPClient sets a custom HTTP client used for both the mailbox and the
// MEGA API. Takes precedence over WithProxy.
func WithHTTPClient(client *http.Client) Option {
	return func(c *generatorConfig) {
		c.httpClient = client
	}
}

// WithLogger enables debug tracing of generation attempts. The generator is
// silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *generatorConfig) {
		c.logger = logger
	}
}
