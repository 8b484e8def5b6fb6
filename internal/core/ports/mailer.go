package ports

import "context"

// Mailer dispatches outbound email. Implementations own delivery and any
// retries; callers treat a returned error as non-fatal and never roll back
// the action that triggered the mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
