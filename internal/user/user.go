package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound means no account matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrInvalidCredentials covers bad username/password pairs without revealing
// which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is a player account. PasswordHash is a bcrypt hash, never the
// plaintext.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store is the account persistence interface implemented by the repository
// package and the in-memory store.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

// Manager handles registration and credential checks.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager creates a user manager.
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Register creates an account with a bcrypt-hashed password.
func (m *Manager) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := m.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	m.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Authenticate verifies a username/password pair.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := m.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		m.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
