// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"mealkit-service/internal/domain/auth"
	xerrors "mealkit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user; a duplicate email yields ErrConflict
func (r *UserRepository) Create(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (full_name, email, phone_number, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, u.FullName, u.Email, u.PhoneNumber, u.Role, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `
		SELECT id, full_name, email, phone_number, role, password_hash,
		       last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.findOne(ctx, query, id)
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, full_name, email, phone_number, role, password_hash,
		       last_login_at, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	return r.findOne(ctx, query, email)
}

// ExistsByEmail checks whether an email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.Role, &u.PasswordHash,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}
