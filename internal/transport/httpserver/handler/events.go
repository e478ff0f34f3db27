package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	kiddomain "allowance-app-go/internal/domain/kid"
	"github.com/go-chi/chi/v5"
)

var (
	eventsPollInterval = 2 * time.Second
	eventsHeartbeat    = 25 * time.Second
)

const eventsTxnLimit = 20

type kidEventPayload struct {
	Kid          kidResponse           `json:"kid"`
	Transactions []transactionResponse `json:"transactions"`
}

// KidEvents streams committed balance/ledger state over Server-Sent Events.
// The store is polled on a short interval and an event is emitted only when
// the kid row changed, so a subscriber sees states in commit order and never
// a stale balance after a newer one.
func (h *Handlers) KidEvents(w http.ResponseWriter, r *http.Request) {
	kidID := strings.TrimSpace(chi.URLParam(r, "id"))
	viewer := viewerFromRequest(r)

	k, role, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
	if err != nil {
		h.respondServiceError(w, "events.subscribe", err, "kid_id", kidID)
		return
	}
	if !role.CanView() {
		denyAccess(w, viewer)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := h.writeKidEvent(w, r, *k, role); err != nil {
		return
	}
	flusher.Flush()
	lastUpdated := k.UpdatedAt

	poll := time.NewTicker(eventsPollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(eventsHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-poll.C:
			current, currentRole, err := h.Kids.GetWithRole(r.Context(), viewer, kidID)
			if err != nil {
				if errors.Is(err, kiddomain.ErrKidNotFound) {
					fmt.Fprint(w, "event: deleted\ndata: {}\n\n")
					flusher.Flush()
					return
				}
				h.log.InternalError("events.subscribe: poll failed", err, "kid_id", kidID)
				continue
			}

			// Re-resolved every poll so a kid made private mid-stream stops
			// feeding subscribers who lost access.
			if !currentRole.CanView() {
				return
			}
			role = currentRole

			if !current.UpdatedAt.After(lastUpdated) {
				continue
			}
			if err := h.writeKidEvent(w, r, *current, role); err != nil {
				return
			}
			flusher.Flush()
			lastUpdated = current.UpdatedAt
		}
	}
}

func (h *Handlers) writeKidEvent(w http.ResponseWriter, r *http.Request, k kiddomain.Kid, role kiddomain.Role) error {
	items, _, err := h.Ledger.List(r.Context(), k.ID, eventsTxnLimit, 0)
	if err != nil {
		return err
	}

	transactions := make([]transactionResponse, 0, len(items))
	for _, txn := range items {
		transactions = append(transactions, toTransactionResponse(txn))
	}

	data, err := json.Marshal(kidEventPayload{
		Kid:          toKidResponse(k, role),
		Transactions: transactions,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: update\ndata: %s\n\n", data)
	return err
}
