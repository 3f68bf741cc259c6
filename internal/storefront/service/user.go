package service

import (
	"context"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/store"
)

// UserService carries the administrative user operations.
type UserService struct {
	Store store.Store
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeactivateUser flips a record inactive, blocking all authentication for
// it. Admin records cannot be deactivated through this path.
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return ErrForbidden
	}
	return s.Store.Users().SetActive(ctx, userID, false)
}
