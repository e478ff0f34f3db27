package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionRoundTrip(t *testing.T) {
	manager := NewSessionManager("test-secret", 5*24*time.Hour)

	identity := Identity{ID: "user-1", Email: "parent@example.com", Name: "Pat"}
	token, err := manager.Issue(identity)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != identity {
		t.Fatalf("Validate = %+v, want %+v", got, identity)
	}
}

func TestSessionRequiresIdentityID(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)
	if _, err := manager.Issue(Identity{Email: "parent@example.com"}); err == nil {
		t.Fatal("expected error for identity without id")
	}
}

func TestSessionExpired(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)
	manager.ttl = -time.Minute

	token, err := manager.Issue(Identity{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionTampered(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)
	token, err := manager.Issue(Identity{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := manager.Validate(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionRejectsWrongAlgorithm(t *testing.T) {
	manager := NewSessionManager("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Issue(Identity{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewSessionManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
