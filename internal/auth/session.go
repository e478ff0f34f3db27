package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager exchanges a verified identity for a longer-lived signed
// session token and validates tokens presented on later requests.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 5 * 24 * time.Hour
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(identity Identity) (string, error) {
	if identity.ID == "" {
		return "", fmt.Errorf("identity id is required")
	}

	now := time.Now()
	claims := &sessionClaims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Validate(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidSession
	}

	return Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
