package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"allowance-app-go/internal/config"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrNotConfigured  = errors.New("auth not configured")
)

// Identity is a verified (subject, email) pair returned by the identity
// provider or decoded from a session token.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Verifier checks a freshly issued ID token against the identity provider.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// ProviderVerifier calls the hosted identity provider's user endpoint with the
// bearer token. Constructed once at startup and passed to whatever needs it.
type ProviderVerifier struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	skipVerify bool
	mock       Identity
}

type providerUserResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Sub          string         `json:"sub"`
	UserMetadata map[string]any `json:"user_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

func NewProviderVerifier(cfg config.AuthConfig) *ProviderVerifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &ProviderVerifier{
		baseURL:    strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:     cfg.PublishableKey,
		client:     &http.Client{Timeout: timeout},
		skipVerify: cfg.SkipVerify,
		mock: Identity{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.ToLower(strings.TrimSpace(cfg.MockUserEmail)),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
	}
}

func (v *ProviderVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if v.skipVerify {
		if v.mock.ID == "" {
			return Identity{}, ErrNotConfigured
		}
		return v.mock, nil
	}

	if v.baseURL == "" || v.apiKey == "" {
		return Identity{}, ErrNotConfigured
	}
	if strings.TrimSpace(idToken) == "" {
		return Identity{}, ErrInvalidSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+idToken)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, ErrInvalidSession
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrInvalidSession
	}

	var payload providerUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, ErrInvalidSession
	}

	userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if userID == "" {
		return Identity{}, ErrInvalidSession
	}

	return Identity{
		ID:    userID,
		Email: strings.ToLower(strings.TrimSpace(payload.Email)),
		Name:  firstNonEmpty(stringFromMap(payload.UserMetadata, "name"), stringFromMap(payload.UserMetadata, "full_name")),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
