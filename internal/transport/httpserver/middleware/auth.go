package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"allowance-app-go/internal/auth"
)

type contextKey int

const userKey contextKey = iota

// User is the verified identity attached to a request. Requests without a
// valid session simply carry no user; the access policy decides what an
// unauthenticated viewer may see.
type User struct {
	ID    string
	Email string
	Name  string
}

// SessionAuth resolves the session cookie (or a bearer token) into a User.
// It never rejects a request: an invalid session is treated as
// unauthenticated.
type SessionAuth struct {
	sessions   *auth.SessionManager
	cookieName string
}

func NewSessionAuth(sessions *auth.SessionManager, cookieName string) *SessionAuth {
	if cookieName == "" {
		cookieName = "session"
	}
	return &SessionAuth{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.sessions.Validate(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithUser(r.Context(), User{
			ID:    identity.ID,
			Email: identity.Email,
			Name:  identity.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *SessionAuth) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return ""
}

// RequireUser rejects unauthenticated requests with the sign-in signal the
// frontend redirects on.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
