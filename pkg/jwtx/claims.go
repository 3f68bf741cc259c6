package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for bearer sessions. Access tokens are what
// the storefront hands to browsers after login; refresh tokens let a client
// mint a new access token without re-entering credentials.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 7 * 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Purpose restricts what a bearer token may be presented for. A refresh
// token is never accepted where an access token is expected, and vice
// versa; the tag travels inside the signed payload so it cannot be swapped.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	return p == PurposeAccess || p == PurposeRefresh
}

// Claims are the signed bearer-token claims used across the service.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose tags the token as access or refresh. Verified explicitly,
	// never inferred from context.
	Purpose Purpose `json:"purpose"`
}

// NewClaims builds minimally-correct claims for a subject.
func NewClaims(subject string, purpose Purpose, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Purpose: purpose,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
