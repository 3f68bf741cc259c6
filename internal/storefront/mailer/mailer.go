package mailer

import (
	"context"

	"github.com/merchantry/storefront/internal/storefront/domain"
)

// Kind selects which message template a dispatch uses.
type Kind string

const (
	// KindWelcome greets a new registration and carries their
	// verification token.
	KindWelcome Kind = "welcome"

	// KindVerify carries a verification token without the welcome
	// framing, for callers re-delivering to an existing registration.
	KindVerify Kind = "verify"

	// KindReset carries a password reset token.
	KindReset Kind = "reset"

	// KindReminder nudges an unverified account with a regenerated
	// verification token.
	KindReminder Kind = "reminder"
)

// Mailer dispatches transactional messages to a credential's email address.
// The token argument is the plaintext action token to embed; it is empty for
// kinds that carry none. Callers decide whether a send failure is fatal.
type Mailer interface {
	Send(ctx context.Context, to domain.User, kind Kind, token string) error
}

func subjectFor(kind Kind) string {
	switch kind {
	case KindWelcome:
		return "Welcome! Please verify your email"
	case KindVerify:
		return "Verify your email address"
	case KindReset:
		return "Reset your password"
	case KindReminder:
		return "Reminder: verify your email address"
	default:
		return "Notification"
	}
}

func bodyFor(kind Kind, token string) string {
	switch kind {
	case KindWelcome:
		return "Thanks for registering. Use this token to verify your email address:\r\n\r\n" + token + "\r\n"
	case KindVerify, KindReminder:
		return "Use this token to verify your email address:\r\n\r\n" + token + "\r\n"
	case KindReset:
		return "Use this token to reset your password. It expires in one hour:\r\n\r\n" + token + "\r\n"
	default:
		return ""
	}
}
