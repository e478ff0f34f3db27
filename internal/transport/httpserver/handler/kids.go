package handler

import (
	"net/http"
	"strings"
	"time"

	kiddomain "allowance-app-go/internal/domain/kid"
	"allowance-app-go/internal/transport/httpserver/middleware"
	"allowance-app-go/pkg/money"
	"github.com/go-chi/chi/v5"
)

type createKidRequest struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	WeeklyAllowance string `json:"weekly_allowance"`
	AllowanceDay    string `json:"allowance_day"`
}

type updateKidSettingsRequest struct {
	Name            *string `json:"name"`
	Slug            *string `json:"slug"`
	WeeklyAllowance *string `json:"weekly_allowance"`
	AllowanceDay    *string `json:"allowance_day"`
}

type setVisibilityRequest struct {
	Public bool `json:"public"`
}

type shareRequest struct {
	Email string `json:"email"`
}

type kidResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Public          bool      `json:"public"`
	Balance         string    `json:"balance"`
	WeeklyAllowance string    `json:"weekly_allowance"`
	AllowanceDay    string    `json:"allowance_day"`
	Role            string    `json:"role,omitempty"`
	SharedWith      []string  `json:"shared_with,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toKidResponse(k kiddomain.Kid, role kiddomain.Role) kidResponse {
	return kidResponse{
		ID:              k.ID,
		Name:            k.Name,
		Slug:            k.Slug,
		Public:          k.Public,
		Balance:         money.FormatCents(k.Balance),
		WeeklyAllowance: money.FormatCents(k.WeeklyAllowance),
		AllowanceDay:    k.AllowanceDay,
		Role:            role.String(),
		CreatedAt:       k.CreatedAt,
		UpdatedAt:       k.UpdatedAt,
	}
}

func (h *Handlers) ListKids(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in required")
		return
	}

	kids, err := h.Kids.ListForViewer(r.Context(), kiddomain.Viewer{ID: user.ID, Email: user.Email})
	if err != nil {
		h.log.InternalError("kids.list: failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]kidResponse, 0, len(kids))
	for _, k := range kids {
		role := kiddomain.RoleSharedEditor
		if k.OwnerID == user.ID {
			role = kiddomain.RoleOwner
		}
		response = append(response, toKidResponse(k, role))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) CreateKid(w http.ResponseWriter, r *http.Request) {
	var req createKidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in required")
		return
	}

	var weeklyAllowance int64
	if strings.TrimSpace(req.WeeklyAllowance) != "" {
		parsed, err := money.ParseNonNegativeCents(req.WeeklyAllowance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid weekly allowance")
			return
		}
		weeklyAllowance = parsed
	}

	created, err := h.Kids.Create(r.Context(), user.ID, user.Email, kiddomain.CreateInput{
		Name:            req.Name,
		Slug:            req.Slug,
		WeeklyAllowance: weeklyAllowance,
		AllowanceDay:    strings.TrimSpace(req.AllowanceDay),
	})
	if err != nil {
		h.respondServiceError(w, "kids.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toKidResponse(*created, kiddomain.RoleOwner))
}

func (h *Handlers) GetKid(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	k, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.get", err, "kid_id", kidID)
		return
	}
	if !role.CanView() {
		denyAccess(w, viewer)
		return
	}

	response := toKidResponse(*k, role)
	if role.CanManage() {
		shares, err := h.Kids.ListShares(r.Context(), k.ID)
		if err != nil {
			h.log.InternalError("kids.get: list shares failed", err, "kid_id", k.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		emails := make([]string, 0, len(shares))
		for _, share := range shares {
			emails = append(emails, share.Email)
		}
		response.SharedWith = emails
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateKidSettings(w http.ResponseWriter, r *http.Request) {
	var req updateKidSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.settings", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	input := kiddomain.UpdateSettingsInput{
		Name:         req.Name,
		Slug:         req.Slug,
		AllowanceDay: req.AllowanceDay,
	}
	if req.WeeklyAllowance != nil {
		parsed, err := money.ParseNonNegativeCents(*req.WeeklyAllowance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid weekly allowance")
			return
		}
		input.WeeklyAllowance = &parsed
	}

	updated, err := h.Kids.UpdateSettings(r.Context(), kidID, input)
	if err != nil {
		h.respondServiceError(w, "kids.settings", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusOK, toKidResponse(*updated, role))
}

func (h *Handlers) SetKidVisibility(w http.ResponseWriter, r *http.Request) {
	var req setVisibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.visibility", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	if err := h.Kids.SetVisibility(r.Context(), kidID, req.Public); err != nil {
		h.respondServiceError(w, "kids.visibility", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"public": req.Public})
}

func (h *Handlers) AddKidShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.share", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	if err := h.Kids.Share(r.Context(), kidID, req.Email); err != nil {
		h.respondServiceError(w, "kids.share", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"shared": true})
}

func (h *Handlers) RemoveKidShare(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.revoke", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	if err := h.Kids.Revoke(r.Context(), kidID, email); err != nil {
		h.respondServiceError(w, "kids.revoke", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

func (h *Handlers) DeleteKid(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.delete", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	if err := h.Kids.Delete(r.Context(), kidID); err != nil {
		h.respondServiceError(w, "kids.delete", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handlers) RecalculateKidBalance(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "kids.recalculate", err, "kid_id", kidID)
		return
	}
	if !role.CanManage() {
		denyAccess(w, viewer)
		return
	}

	balance, err := h.Ledger.Recalculate(r.Context(), kidID)
	if err != nil {
		h.respondServiceError(w, "kids.recalculate", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"balance": money.FormatCents(balance)})
}
