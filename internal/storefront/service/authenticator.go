package service

import (
	"context"
	"errors"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/jwtx"
)

// Authenticator resolves bearer tokens to credential records. It is
// read-only; the HTTP middleware attaches the resolved record to the
// request context.
type Authenticator struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Authenticate verifies an access-purpose bearer token and loads its
// subject. An absent token and an unknown subject both collapse into
// ErrUnauthenticated, so possession of a valid token for a deleted record
// is never confirmed to the caller. Deactivated accounts fail with
// ErrAccountDeactivated regardless of token validity.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	if raw == "" {
		return domain.User{}, ErrUnauthenticated
	}

	claims, err := a.Codec.Verify(raw, jwtx.PurposeAccess)
	if err != nil {
		return domain.User{}, mapTokenError(err)
	}

	user, err := a.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, err
	}

	if !user.IsActive {
		return domain.User{}, ErrAccountDeactivated
	}
	return user, nil
}

// Authorize is a flat role equality check. Admin does not implicitly
// satisfy user-only routes. Roles outside the closed set never authorize,
// even when they compare equal to the requirement.
func Authorize(user domain.User, required domain.Role) error {
	if !user.Role.Valid() || user.Role != required {
		return ErrForbidden
	}
	return nil
}
