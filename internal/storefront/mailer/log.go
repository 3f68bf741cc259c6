package mailer

import (
	"context"
	"log/slog"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/pkg/slogx"
)

// LogMailer writes messages to the structured log instead of delivering
// them. Used in development so action tokens are visible without a relay.
type LogMailer struct{}

var _ Mailer = (*LogMailer)(nil)

func (LogMailer) Send(ctx context.Context, to domain.User, kind Kind, token string) error {
	slogx.FromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "mail dispatched",
		slog.String("to", to.Email),
		slog.String("kind", string(kind)),
		slog.String("subject", subjectFor(kind)),
		slog.String("token", token),
	)
	return nil
}
