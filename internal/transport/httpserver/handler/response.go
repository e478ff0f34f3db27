package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	kiddomain "allowance-app-go/internal/domain/kid"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	"allowance-app-go/internal/transport/httpserver/middleware"
	"allowance-app-go/pkg/money"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondServiceError maps domain sentinels to HTTP responses. Anything
// unrecognized is an internal error.
func (h *Handlers) respondServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, kiddomain.ErrKidNotFound) || errors.Is(err, ledgerdomain.ErrKidNotFound):
		h.log.BusinessError(op+": kid not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", "kid not found")
	case errors.Is(err, ledgerdomain.ErrTransactionNotFound):
		h.log.BusinessError(op+": transaction not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", "transaction not found")
	case errors.Is(err, kiddomain.ErrShareNotFound):
		h.log.BusinessError(op+": share not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", "share not found")
	case errors.Is(err, kiddomain.ErrSlugTaken):
		h.log.BusinessError(op+": slug taken", err, args...)
		writeError(w, http.StatusConflict, "slug_taken", "slug is already taken")
	case errors.Is(err, kiddomain.ErrNameRequired),
		errors.Is(err, kiddomain.ErrInvalidSlug),
		errors.Is(err, kiddomain.ErrInvalidDay),
		errors.Is(err, kiddomain.ErrInvalidAllowance),
		errors.Is(err, kiddomain.ErrInvalidEmail),
		errors.Is(err, kiddomain.ErrSlugGenerationFailed),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrEmptyDescription),
		errors.Is(err, money.ErrInvalidAmount):
		h.log.BusinessError(op+": invalid request", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// denyAccess renders the access-policy rejection: unauthenticated viewers
// get the sign-in signal, authenticated ones a plain forbidden.
func denyAccess(w http.ResponseWriter, viewer *kiddomain.Viewer) {
	if viewer == nil {
		writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in required")
		return
	}
	writeError(w, http.StatusForbidden, "forbidden", "access denied")
}

func viewerFromRequest(r *http.Request) *kiddomain.Viewer {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil
	}
	return &kiddomain.Viewer{ID: user.ID, Email: user.Email}
}
