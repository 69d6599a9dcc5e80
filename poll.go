package megagen

import (
	"context"
	"time"
)

// waitForConfirmation polls the mailbox until a confirmation key can be
// extracted, the configured timeout elapses, or ctx is cancelled.
//
// The deadline is checked at the top of each iteration, before any fetch.
// Which sentinel the timeout maps to depends on whether a likely
// confirmation email was ever seen: ErrNoConfirmationLink if one was
// inspected without yielding a key, ErrEmailTimeout otherwise. Any mailbox
// failure aborts the attempt immediately.
func (g *AccountGenerator) waitForConfirmation(ctx context.Context, address string) (string, error) {
	deadline := time.Now().Add(g.timeout)
	sawLikely := false

	for {
		if !time.Now().Before(deadline) {
			if sawLikely {
				return "", ErrNoConfirmationLink
			}
			return "", ErrEmailTimeout
		}

		messages, err := g.mail.ListMessages(ctx, address)
		if err != nil {
			return "", &MailError{Op: "list messages", Err: err}
		}

		for _, msg := range messages {
			if !isLikelyConfirmation(msg.From, msg.Subject) {
				continue
			}
			sawLikely = true
			g.logger.Debug("likely confirmation email", "address", address, "from", msg.From, "subject", msg.Subject)

			details, err := g.mail.FetchMessage(ctx, address, msg.ID)
			if err != nil {
				return "", &MailError{Op: "fetch message", Err: err}
			}
			if key := extractConfirmKey(details.Body); key != "" {
				return key, nil
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.pollInterval):
		}
	}
}
