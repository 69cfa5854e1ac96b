package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-book-review/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT uid, username, first_name, last_name, email, password_hash, role, is_verified, created_at
		 FROM user_accounts WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.UID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
			&u.Role, &u.IsVerified, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUID(ctx context.Context, uid string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT uid, username, first_name, last_name, email, password_hash, role, is_verified, created_at
		 FROM user_accounts WHERE uid = $1`, uid).
		Scan(&u.UID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
			&u.Role, &u.IsVerified, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by uid: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_accounts WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_accounts (uid, username, first_name, last_name, email, password_hash, role, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.UID, u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.IsVerified, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, uid string, verified bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_accounts SET is_verified = $2 WHERE uid = $1`, uid, verified)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
