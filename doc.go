// Package megagen creates confirmed MEGA.nz accounts backed by disposable
// Guerrilla Mail inboxes.
//
// Each generation attempt provisions a fresh throwaway mailbox, registers an
// account with the MEGA API, polls the mailbox for the signup confirmation
// email, extracts the confirmation key from the email body and completes the
// registration. On success the mailbox is discarded on a best-effort basis.
//
// Basic usage:
//
//	gen, err := megagen.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	account, err := gen.Generate(ctx, "hunter2hunter2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(account.Email)
//
// Generation blocks until the confirmation email arrives or the configured
// timeout (default 5 minutes) elapses. The mailbox is polled every
// poll-interval (default 5 seconds); both are configurable via WithTimeout
// and WithPollInterval. A single AccountGenerator is safe for concurrent use;
// every call runs an independent attempt with its own mailbox.
//
// Failed attempts are not retried and leave no cleanup guarantees: an account
// registered but never confirmed simply expires on the MEGA side.
package megagen
