package service

import "errors"

// Sentinel outcomes of the credential flows. The HTTP layer maps these onto
// status codes; everything else propagating out of a service is a 500.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrExpiredToken       = errors.New("expired_token")
	ErrWrongTokenPurpose  = errors.New("wrong_token_purpose")
	ErrAccountDeactivated = errors.New("account_deactivated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidActionToken = errors.New("invalid_or_expired_action_token")
	ErrEmailTaken         = errors.New("email_taken")
	ErrEmailNotFound      = errors.New("email_not_found")
	ErrAlreadyVerified    = errors.New("already_verified")
	ErrCorruptCredential  = errors.New("corrupt_credential")
)
