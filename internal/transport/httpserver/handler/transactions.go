package handler

import (
	"net/http"
	"strings"
	"time"

	ledgerdomain "allowance-app-go/internal/domain/ledger"
	"allowance-app-go/internal/transport/httpserver/middleware"
	"allowance-app-go/pkg/money"
	"github.com/go-chi/chi/v5"
)

type transactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ParentName  string    `json:"parent_name,omitempty"`
	ParentEmail string    `json:"parent_email,omitempty"`
}

type transactionListResponse struct {
	Items []transactionResponse `json:"items"`
	Total int64                 `json:"total"`
}

func toTransactionResponse(txn ledgerdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          txn.ID,
		Amount:      money.FormatCents(txn.Amount),
		Description: txn.Description,
		Date:        txn.Date,
		ParentName:  txn.ParentName,
		ParentEmail: txn.ParentEmail,
	}
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "transactions.list", err, "kid_id", kidID)
		return
	}
	if !role.CanView() {
		denyAccess(w, viewer)
		return
	}

	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	items, total, err := h.Ledger.List(r.Context(), kidID, limit, offset)
	if err != nil {
		h.respondServiceError(w, "transactions.list", err, "kid_id", kidID)
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, txn := range items {
		response = append(response, toTransactionResponse(txn))
	}

	writeJSON(w, http.StatusOK, transactionListResponse{Items: response, Total: total})
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "transactions.create", err, "kid_id", kidID)
		return
	}
	if !role.CanEditLedger() {
		denyAccess(w, viewer)
		return
	}

	amount, err := money.ParseCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	created, err := h.Ledger.Append(r.Context(), kidID, amount, req.Description, ledgerdomain.Attribution{
		Name:  user.Name,
		Email: user.Email,
	})
	if err != nil {
		h.respondServiceError(w, "transactions.create", err, "kid_id", kidID)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(*created))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	txnID := strings.TrimSpace(chi.URLParam(r, "txn_id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "transactions.update", err, "kid_id", kidID)
		return
	}
	if !role.CanEditLedger() {
		denyAccess(w, viewer)
		return
	}

	amount, err := money.ParseCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	updated, err := h.Ledger.Edit(r.Context(), kidID, txnID, amount, req.Description)
	if err != nil {
		h.respondServiceError(w, "transactions.update", err, "kid_id", kidID, "txn_id", txnID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	txnID := strings.TrimSpace(chi.URLParam(r, "txn_id"))
	viewer := viewerFromRequest(r)

	_, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "transactions.delete", err, "kid_id", kidID)
		return
	}
	if !role.CanEditLedger() {
		denyAccess(w, viewer)
		return
	}

	if err := h.Ledger.Delete(r.Context(), kidID, txnID); err != nil {
		h.respondServiceError(w, "transactions.delete", err, "kid_id", kidID, "txn_id", txnID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
