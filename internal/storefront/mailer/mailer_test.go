package mailer

import (
	"context"
	"testing"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/stretchr/testify/require"
)

func TestSubjectFor_CoversAllKinds(t *testing.T) {
	kinds := []Kind{KindWelcome, KindVerify, KindReset, KindReminder}

	seen := make(map[string]Kind, len(kinds))
	for _, kind := range kinds {
		subject := subjectFor(kind)
		require.NotEmpty(t, subject, "kind %q should have a subject", kind)

		prev, dup := seen[subject]
		require.False(t, dup, "kinds %q and %q share a subject", prev, kind)
		seen[subject] = kind
	}

	require.Equal(t, "Notification", subjectFor(Kind("unknown")))
}

func TestBodyFor_TokenKindsEmbedToken(t *testing.T) {
	const token = "opaque-action-token"

	for _, kind := range []Kind{KindWelcome, KindVerify, KindReset, KindReminder} {
		require.Contains(t, bodyFor(kind, token), token,
			"kind %q should carry the action token", kind)
	}

	require.Empty(t, bodyFor(Kind("unknown"), token))
}

func TestLogMailer_Send(t *testing.T) {
	to := domain.User{ID: "user-1", Email: "shopper@example.com"}

	for _, kind := range []Kind{KindWelcome, KindVerify, KindReset, KindReminder} {
		require.NoError(t, LogMailer{}.Send(context.Background(), to, kind, "tok"))
	}
}
