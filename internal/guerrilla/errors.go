package guerrilla

import (
	"errors"
	"fmt"
)

// ErrUnknownAddress indicates an operation on an address this client did not
// create (or already forgot). Sessions are per-address; there is no way to
// recover one.
var ErrUnknownAddress = errors.New("no session for address")

// APIError represents an HTTP-level failure from the Guerrilla Mail API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("guerrillamail API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("guerrillamail API error %d", e.StatusCode)
}

// NetworkError wraps a transport failure: the request never reached the API
// or the response never arrived.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("guerrillamail: request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
