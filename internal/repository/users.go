package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pocketduel/duel-server-go/internal/user"
)

// UserRepository stores user accounts.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Store = (*UserRepository)(nil)

// CreateUser inserts a new account. Usernames are unique.
func (r *UserRepository) CreateUser(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Pool().Exec(ctx, query, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return nil
}

// GetUserByUsername looks an account up by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1`

	return r.scanUser(r.db.Pool().QueryRow(ctx, query, username))
}

// GetUser looks an account up by id.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*user.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.db.Pool().QueryRow(ctx, query, id))
}

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u         user.User
		createdAt time.Time
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}
	u.CreatedAt = createdAt
	return &u, nil
}
