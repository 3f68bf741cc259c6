package store

import (
	"context"
	"errors"
	"time"

	"github.com/merchantry/storefront/internal/storefront/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateKey reports a unique-constraint violation (in practice:
	// the email column). Distinguishable from other write failures so the
	// register flow can tell the caller to log in instead.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Products() Products

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	Products() Products
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up the login handle. Callers normalize the
	// email first; the store matches exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByVerificationTokenHash finds the record holding a pending
	// verification with this fingerprint.
	GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error)

	// GetUserByResetTokenHash finds the record holding a pending password
	// reset with this fingerprint. Expiry is the service's concern.
	GetUserByResetTokenHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrDuplicateKey when the email is already taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetVerificationTokenHash replaces the pending verification
	// fingerprint (empty clears it).
	SetVerificationTokenHash(ctx context.Context, userID string, hash string) error

	// MarkVerified sets is_verified and clears the verification fingerprint
	// in one statement.
	MarkVerified(ctx context.Context, userID string) error

	// SetResetToken stores a reset fingerprint and its expiry together.
	SetResetToken(ctx context.Context, userID string, hash string, expiresAt time.Time) error

	// ClearResetToken removes both the reset fingerprint and its expiry.
	// The pair is never cleared independently.
	ClearResetToken(ctx context.Context, userID string) error

	// SetActive flips the is_active flag.
	SetActive(ctx context.Context, userID string, active bool) error

	// ListUsers returns all users ordered by creation (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Products interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
