package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/store"
	"github.com/merchantry/storefront/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("alice@example.com")
	u.VerificationTokenHash = "verify-hash"
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, domain.RoleUser, got.Role)
	require.True(t, got.IsActive)
	require.False(t, got.IsVerified)
	require.Equal(t, "verify-hash", got.VerificationTokenHash)
	require.Nil(t, got.ResetExpiresAt)
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byToken, err := s.Users().GetUserByVerificationTokenHash(ctx, "verify-hash")
	require.NoError(t, err)
	require.Equal(t, u.ID, byToken.ID)
}

func TestUsers_GetMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByResetTokenHash(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("dup@example.com")))

	err := s.Users().CreateUser(ctx, newTestUser("dup@example.com"))
	require.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestUsers_MarkVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("verify@example.com")
	u.VerificationTokenHash = "pending"
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().MarkVerified(ctx, u.ID))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)
	require.Empty(t, got.VerificationTokenHash)

	// The consumed token must no longer resolve.
	_, err = s.Users().GetUserByVerificationTokenHash(ctx, "pending")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_ResetTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("reset@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "reset-hash", expires))

	got, err := s.Users().GetUserByResetTokenHash(ctx, "reset-hash")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.ResetExpiresAt)
	require.True(t, got.HasPendingReset())

	require.NoError(t, s.Users().ClearResetToken(ctx, u.ID))

	_, err = s.Users().GetUserByResetTokenHash(ctx, "reset-hash")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.HasPendingReset())
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("pw@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
}

func TestUsers_SetActiveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestUser("a@example.com")
	b := newTestUser("b@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, a))
	require.NoError(t, s.Users().CreateUser(ctx, b))

	require.NoError(t, s.Users().SetActive(ctx, a.ID, false))

	got, err := s.Users().GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	users, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestProducts_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.Product{
		ID:          idx.New().String(),
		Name:        "Widget",
		Description: "A fine widget",
		PriceCents:  1299,
		Stock:       5,
	}
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	got, err := s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget", got.Name)
	require.Equal(t, int64(1299), got.PriceCents)

	p.Name = "Deluxe Widget"
	p.Stock = 3
	require.NoError(t, s.Products().UpdateProduct(ctx, p))

	got, err = s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Deluxe Widget", got.Name)
	require.Equal(t, int64(3), got.Stock)

	list, err := s.Products().ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Products().DeleteProduct(ctx, p.ID))
	_, err = s.Products().GetProductByID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Products().DeleteProduct(ctx, p.ID), store.ErrNotFound)
	require.ErrorIs(t, s.Products().UpdateProduct(ctx, p), store.ErrNotFound)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("tx@example.com")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("txc@example.com")
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	}))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
}
