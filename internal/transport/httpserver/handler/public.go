package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const publicTransactionLimit = 20

type publicKidResponse struct {
	Kid          kidResponse           `json:"kid"`
	Transactions []transactionResponse `json:"transactions"`
}

// GetKidBySlug serves the shared/public read-only dashboard.
func (h *Handlers) GetKidBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	viewer := viewerFromRequest(r)

	k, role, err := h.Kids.GetBySlugWithRole(r.Context(), viewer, slug)
	if err != nil {
		h.respondServiceError(w, "public.get", err, "slug", slug)
		return
	}
	if !role.CanView() {
		denyAccess(w, viewer)
		return
	}

	items, _, err := h.Ledger.List(r.Context(), k.ID, publicTransactionLimit, 0)
	if err != nil {
		h.respondServiceError(w, "public.get", err, "kid_id", k.ID)
		return
	}

	transactions := make([]transactionResponse, 0, len(items))
	for _, txn := range items {
		transactions = append(transactions, toTransactionResponse(txn))
	}

	writeJSON(w, http.StatusOK, publicKidResponse{
		Kid:          toKidResponse(*k, role),
		Transactions: transactions,
	})
}

// SlugAvailability is the advisory typing-time check; the unique index
// decides at commit time.
func (h *Handlers) SlugAvailability(w http.ResponseWriter, r *http.Request) {
	candidate := strings.TrimSpace(chi.URLParam(r, "slug"))

	slug, available, err := h.Kids.SlugAvailable(r.Context(), candidate)
	if err != nil {
		h.log.InternalError("slugs.check: failed", err, "candidate", candidate)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slug":      slug,
		"available": available,
	})
}
