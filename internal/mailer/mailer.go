package mailer

import "context"

// Mailer sends plain-text email. Failures surface to the caller; nothing is
// retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
