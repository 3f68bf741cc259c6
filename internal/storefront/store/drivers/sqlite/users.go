package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/store"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, email, password_hash, role, is_active, is_verified,
	verification_token_hash, reset_token_hash, reset_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u                 domain.User
		role              string
		verificationToken sql.NullString
		resetToken        sql.NullString
		resetExpires      sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.IsActive,
		&u.IsVerified,
		&verificationToken,
		&resetToken,
		&resetExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Role = domain.Role(role)
	u.VerificationTokenHash = mapNullString(verificationToken)
	u.ResetTokenHash = mapNullString(resetToken)
	if resetExpires.Valid {
		t := resetExpires.Time
		u.ResetExpiresAt = &t
	}
	return u, nil
}

func (r *usersRepo) getBy(ctx context.Context, where string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, `id = ?`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, `email = ?`, email)
}

func (r *usersRepo) GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error) {
	return r.getBy(ctx, `verification_token_hash = ?`, hash)
}

func (r *usersRepo) GetUserByResetTokenHash(ctx context.Context, hash string) (domain.User, error) {
	return r.getBy(ctx, `reset_token_hash = ?`, hash)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active, is_verified, verification_token_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Role.String(),
		u.IsActive,
		u.IsVerified,
		mapStringNull(u.VerificationTokenHash),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx, `
		UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newHash, userID)
}

func (r *usersRepo) SetVerificationTokenHash(ctx context.Context, userID string, hash string) error {
	return r.exec(ctx, `
		UPDATE users SET verification_token_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		mapStringNull(hash), userID)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	return r.exec(ctx, `
		UPDATE users
		SET is_verified = 1, verification_token_hash = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		userID)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID string, hash string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET reset_token_hash = ?, reset_expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		hash, expiresAt, userID)
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.exec(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		userID)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx, `
		UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active, userID)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// exec runs an UPDATE that must hit exactly one row.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
