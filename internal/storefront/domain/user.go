package domain

import "time"

// User is a customer or staff credential record. The auth service reads and
// mutates its security fields; row lifecycle (creation aside, which happens
// at registration) belongs to the administrative tooling.
//
// Token fields hold SHA-256 fingerprints of the opaque action tokens, never
// the tokens themselves. EmailVerificationToken carries no expiry: a pending
// verification stays redeemable until consumed or regenerated. Reset tokens
// always travel with their expiry; the pair is set and cleared together.
type User struct {
	ID           string
	Email        string // unique, stored lower-cased
	PasswordHash string // argon2 encoded, never serialized outward
	Role         Role
	IsActive     bool
	IsVerified   bool // email ownership proven

	VerificationTokenHash string     // empty when no verification pending
	ResetTokenHash        string     // empty when no reset pending
	ResetExpiresAt        *time.Time // set iff ResetTokenHash is set

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingReset reports whether a password reset is outstanding.
func (u User) HasPendingReset() bool {
	return u.ResetTokenHash != "" && u.ResetExpiresAt != nil
}
