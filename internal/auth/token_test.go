package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	ts := NewTokenStore("test-secret", time.Hour)

	token, err := ts.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user-1" || identity.Username != "alice" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	ts := NewTokenStore("test-secret", -time.Minute)

	token, err := ts.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ts.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenStore("secret-a", time.Hour).Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenStore("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := NewTokenStore("test-secret", time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ts.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
