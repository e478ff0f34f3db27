package handler

import (
	"errors"
	"net/http"
	"strings"

	"allowance-app-go/internal/auth"
	"allowance-app-go/internal/transport/httpserver/middleware"
)

type createSessionRequest struct {
	IDToken string `json:"id_token"`
}

// CreateSession exchanges a freshly issued identity token for the
// longer-lived session cookie.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id_token is required")
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			h.log.Critical("session.create: auth not configured", "err", err)
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}
		h.log.BusinessError("session.create: token verification failed", err)
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Users.UpsertProfile(r.Context(), identity.ID, identity.Email, identity.Name); err != nil {
		h.log.InternalError("session.create: upsert profile failed", err, "user_id", identity.ID)
	}

	token, err := h.sessions.Issue(identity)
	if err != nil {
		h.log.InternalError("session.create: issue session failed", err, "user_id", identity.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Logout invalidates the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
