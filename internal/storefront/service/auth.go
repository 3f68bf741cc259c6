package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/mailer"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/cryptox"
	"github.com/merchantry/storefront/pkg/idx"
	"github.com/merchantry/storefront/pkg/jwtx"
	"github.com/merchantry/storefront/pkg/slogx"
)

// ResetTokenTTL bounds how long a password reset token stays redeemable.
// Verification tokens deliberately carry no expiry; see domain.User.
const ResetTokenTTL = time.Hour

// AuthService orchestrates the credential flows: registration, login, token
// refresh, email verification, password recovery and change.
//
// Mutations always commit to the store before any mail dispatch so an
// abandoned request never leaves a record half-updated. Welcome and reminder
// mail is best-effort; reset mail failure fails the request, since an
// undelivered reset token is useless.
type AuthService struct {
	Store  store.Store
	Codec  *jwtx.Codec
	Mailer mailer.Mailer

	// Now is the injected clock. Defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NormalizeEmail lower-cases and trims a login handle. All lookups and
// writes go through this so the unique index never sees case variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issuePair(subject string) (domain.TokenPair, error) {
	now := s.now()

	access, err := s.Codec.Issue(subject, jwtx.PurposeAccess, now)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Codec.Issue(subject, jwtx.PurposeRefresh, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.Codec.TTL(jwtx.PurposeAccess).Seconds()),
	}, nil
}

// Register creates an unverified, active, user-role credential record and
// issues a token pair for it. The email must not already be registered;
// duplicates surface as ErrEmailTaken (callers need to know to log in
// instead). A welcome mail carrying the verification token is sent
// best-effort after the record commits.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	email = NormalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	verifyToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("generate verification token: %w", err)
	}

	user := domain.User{
		ID:                    idx.New().String(),
		Email:                 email,
		PasswordHash:          hash,
		Role:                  domain.RoleUser,
		IsActive:              true,
		VerificationTokenHash: cryptox.FingerprintToken(verifyToken),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Mailer.Send(ctx, user, mailer.KindWelcome, verifyToken); err != nil {
		slogx.FromContext(ctx).Warn("welcome mail failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	return user, pair, nil
}

// Login verifies the password for an email and issues a token pair. Unknown
// emails and wrong passwords collapse into ErrInvalidCredentials so callers
// cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			return domain.User{}, domain.TokenPair{}, ErrCorruptCredential
		}
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return domain.User{}, domain.TokenPair{}, ErrAccountDeactivated
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh-purpose token for a fresh access token. The
// subject must still resolve to an active record; purposes are not
// interchangeable.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Codec.Verify(refreshToken, jwtx.PurposeRefresh)
	if err != nil {
		return domain.TokenPair{}, mapTokenError(err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrUnauthenticated
		}
		return domain.TokenPair{}, err
	}
	if !user.IsActive {
		return domain.TokenPair{}, ErrAccountDeactivated
	}

	access, err := s.Codec.Issue(user.ID, jwtx.PurposeAccess, s.now())
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.Codec.TTL(jwtx.PurposeAccess).Seconds()),
	}, nil
}

// VerifyEmail consumes a verification token, marking the record verified
// exactly once. A consumed or unknown token fails with ErrInvalidActionToken.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.Store.Users().GetUserByVerificationTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidActionToken
		}
		return err
	}
	return s.Store.Users().MarkVerified(ctx, user.ID)
}

// ForgotPassword issues a reset token for a registered email and mails it.
// Unknown emails surface as ErrEmailNotFound (the asymmetry with Login is a
// recorded policy choice). Mail failure fails the request.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	resetToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(ResetTokenTTL)
	if err := s.Store.Users().SetResetToken(ctx, user.ID, cryptox.FingerprintToken(resetToken), expiresAt); err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, user, mailer.KindReset, resetToken); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and installs a new password hash.
// Match and expiry failures are indistinguishable to the caller. The rehash
// and token clear commit in one transaction, making the token single-use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.Store.Users().GetUserByResetTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidActionToken
		}
		return err
	}

	if user.ResetExpiresAt == nil || !s.now().Before(*user.ResetExpiresAt) {
		return ErrInvalidActionToken
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
}

// ChangePassword rehashes the caller's password after verifying the current
// one. A wrong current password is ErrInvalidCredentials; an unreadable
// stored hash is ErrCorruptCredential.
func (s *AuthService) ChangePassword(ctx context.Context, user domain.User, currentPassword, newPassword string) error {
	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			return ErrCorruptCredential
		}
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash)
}

// ResendVerification regenerates the caller's verification token,
// invalidating any previously mailed one, and sends a reminder best-effort.
func (s *AuthService) ResendVerification(ctx context.Context, user domain.User) error {
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	verifyToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	if err := s.Store.Users().SetVerificationTokenHash(ctx, user.ID, cryptox.FingerprintToken(verifyToken)); err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, user, mailer.KindReminder, verifyToken); err != nil {
		slogx.FromContext(ctx).Warn("reminder mail failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return nil
}

// mapTokenError converts codec verification failures into the service
// taxonomy.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return ErrExpiredToken
	case errors.Is(err, jwtx.ErrWrongPurpose):
		return ErrWrongTokenPurpose
	default:
		return ErrInvalidToken
	}
}
