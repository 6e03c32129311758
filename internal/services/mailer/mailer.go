// Package mailer delivers the transactional mail the credential flows
// depend on. Registration treats delivery failure as fatal, so the
// implementation must return an error rather than queue and forget.
package mailer

import "context"

type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, otp string) error
	SendPasswordResetEmail(ctx context.Context, email, link string) error
}
