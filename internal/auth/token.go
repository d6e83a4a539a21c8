package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, malformed, or wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenStore issues and verifies the HS256 tokens carrying caller identity.
// The engine trusts the subject claim as the acting player id; it is never
// taken from a request payload.
type TokenStore struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenStore creates a token store with the given signing secret and
// token lifetime.
func NewTokenStore(secret string, ttl time.Duration) *TokenStore {
	return &TokenStore{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue mints a token for the given user.
func (ts *TokenStore) Issue(userID, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	})

	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Identity is the verified caller extracted from a token.
type Identity struct {
	UserID   string
	Username string
}

// Verify parses and validates a token, returning the caller identity.
func (ts *TokenStore) Verify(tokenString string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: c.Subject, Username: c.Username}, nil
}
