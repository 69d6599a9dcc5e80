package mega

import (
	"errors"
	"fmt"
)

// API error codes as documented for the MEGA API (API_E* constants). The
// server reports errors as negative integers, either for the whole request
// or per command.
const (
	CodeInternal        = -1
	CodeArgs            = -2
	CodeAgain           = -3
	CodeRateLimit       = -4
	CodeFailed          = -5
	CodeTooMany         = -6
	CodeRange           = -7
	CodeExpired         = -8
	CodeNotFound        = -9
	CodeCircular        = -10
	CodeAccess          = -11
	CodeExists          = -12
	CodeIncomplete      = -13
	CodeKey             = -14
	CodeSession         = -15
	CodeBlocked         = -16
	CodeOverQuota       = -17
	CodeTempUnavailable = -18
)

var codeMessages = map[int]string{
	CodeInternal:        "internal error",
	CodeArgs:            "invalid argument",
	CodeAgain:           "temporary congestion, retry",
	CodeRateLimit:       "rate limit exceeded",
	CodeFailed:          "request failed permanently",
	CodeTooMany:         "too many concurrent requests",
	CodeRange:           "out of range",
	CodeExpired:         "expired",
	CodeNotFound:        "not found",
	CodeCircular:        "circular linkage",
	CodeAccess:          "access denied",
	CodeExists:          "already exists",
	CodeIncomplete:      "incomplete request",
	CodeKey:             "invalid key or decryption error",
	CodeSession:         "bad session id",
	CodeBlocked:         "blocked",
	CodeOverQuota:       "over quota",
	CodeTempUnavailable: "temporarily unavailable",
}

// Common errors that can be checked with errors.Is.
var (
	// ErrAlreadyExists indicates the email address is already registered.
	ErrAlreadyExists = errors.New("already registered")
	// ErrNotFound indicates the referenced object does not exist, for
	// example an unknown confirmation code.
	ErrNotFound = errors.New("not found")
	// ErrExpired indicates the confirmation link has expired.
	ErrExpired = errors.New("expired")
	// ErrInvalidSession indicates the session id failed its self-challenge.
	ErrInvalidSession = errors.New("invalid session id")
	// ErrEmailMismatch indicates a confirmation link for a different email.
	ErrEmailMismatch = errors.New("confirmation link is for a different email")
)

// APIError is a negative result code returned by the API.
type APIError struct {
	Code int
}

func (e *APIError) Error() string {
	if msg, ok := codeMessages[e.Code]; ok {
		return fmt.Sprintf("mega API error %d: %s", e.Code, msg)
	}
	return fmt.Sprintf("mega API error %d", e.Code)
}

// Is maps the numeric code onto the matching package sentinel.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case CodeExists:
		return target == ErrAlreadyExists
	case CodeNotFound:
		return target == ErrNotFound
	case CodeExpired:
		return target == ErrExpired
	}
	return false
}

// ServerError represents an HTTP-level failure, typically a 500 from the
// load balancer when the API is busy.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("mega API HTTP error %d", e.StatusCode)
}

// NetworkError wraps a transport failure: the request never produced an API
// response at all.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("mega: request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
