package megagen

import (
	"errors"
	"fmt"
)

// Sentinels reported when polling runs out of time.
var (
	// ErrEmailTimeout is returned when the timeout elapsed without a likely
	// confirmation email appearing in the mailbox.
	ErrEmailTimeout = errors.New("timeout waiting for confirmation email")

	// ErrNoConfirmationLink is returned when at least one likely confirmation
	// email was inspected but no confirmation key could be extracted before
	// the timeout.
	ErrNoConfirmationLink = errors.New("no confirmation link found in email")
)

// MailError wraps a failure of the disposable-mail provider. Any listing or
// fetch failure during polling aborts the attempt with a MailError; there is
// no retry within the attempt.
type MailError struct {
	Op  string // "create address", "list messages", "fetch message", "delete address"
	Err error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("guerrillamail error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *MailError) Unwrap() error {
	return e.Err
}

// AccountServiceError wraps a failure of the MEGA API during registration
// or verification.
type AccountServiceError struct {
	Op  string // "register", "verify"
	Err error
}

func (e *AccountServiceError) Error() string {
	return fmt.Sprintf("mega error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AccountServiceError) Unwrap() error {
	return e.Err
}
