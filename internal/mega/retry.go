package mega

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig controls how the transport backs off when the API reports
// transient congestion. MEGA signals this with the EAGAIN code or a plain
// HTTP 500 and expects clients to repeat the request after an exponentially
// growing pause.
type RetryConfig struct {
	// MaxRetries bounds how often a single command is repeated.
	MaxRetries int
	// BaseDelay is the pause before the first retry. It doubles with every
	// further attempt.
	BaseDelay time.Duration
	// MaxDelay caps the pause between attempts.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry behavior used unless WithRetryConfig
// overrides it.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 4,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   8 * time.Second,
	}
}

// Retryable reports whether an error is worth repeating the request for.
func (r *RetryConfig) Retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == CodeAgain || apiErr.Code == CodeRateLimit
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode >= 500
	}
	return false
}

// delay computes the pause before retry attempt n: BaseDelay doubled n
// times, capped at MaxDelay, spread by up to 20% in either direction so
// concurrent commands drift apart.
func (r *RetryConfig) delay(attempt int) time.Duration {
	d := r.BaseDelay
	for i := 0; i < attempt && d < r.MaxDelay; i++ {
		d *= 2
	}
	if d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		return 0
	}

	span := int64(d) / 5
	return d - time.Duration(span) + time.Duration(rand.Int63n(2*span+1))
}

// Wait sleeps until the next attempt is due or ctx is cancelled.
func (r *RetryConfig) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
