package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSigningSecret = errors.New("jwtx: no signing secret configured")

	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrWrongPurpose = errors.New("jwtx: wrong token purpose")
)

// Codec signs and verifies compact bearer tokens binding a subject, an
// expiry window, and a purpose. Tokens are HMAC-SHA256 signed with a single
// process-wide secret; there is no key rotation here, a secret change
// invalidates all outstanding sessions.
type Codec struct {
	secret []byte
	issuer string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// TimeFunc supplies "now" during verification. Nil means time.Now.
	// Injected so expiry behaviour is testable without sleeping.
	TimeFunc func() time.Time
}

// NewCodec builds a Codec. A missing secret is a startup-fatal
// misconfiguration, so it is reported here rather than on first use.
func NewCodec(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSigningSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &Codec{
		secret:     []byte(secret),
		issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}

// TTL returns the lifetime used for tokens of the given purpose.
func (c *Codec) TTL(purpose Purpose) time.Duration {
	if purpose == PurposeRefresh {
		return c.RefreshTTL
	}
	return c.AccessTTL
}

// Issue signs a token for subject with the given purpose, valid from now
// for the purpose's TTL.
func (c *Codec) Issue(subject string, purpose Purpose, now time.Time) (string, error) {
	if !purpose.Valid() {
		return "", ErrWrongPurpose
	}
	claims := NewClaims(subject, purpose, c.TTL(purpose), c.issuer, now)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates raw, then checks the embedded purpose against
// want. Failure modes are distinguished so callers can answer differently:
// ErrExpired prompts a re-login, ErrMalformed/ErrInvalidSig are rejected
// outright, ErrWrongPurpose means a refresh token was presented where an
// access token belongs (or the reverse).
func (c *Codec) Verify(raw string, want Purpose) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.TimeFunc != nil {
		opts = append(opts, jwt.WithTimeFunc(c.TimeFunc))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Purpose != want {
		return Claims{}, ErrWrongPurpose
	}

	return claims, nil
}

// mapParseError collapses golang-jwt's error tree into our sentinels.
// Expiry is checked first: an expired-but-authentic token should read as
// expired, not invalid.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidSig
	default:
		return ErrMalformed
	}
}
