package handler

import (
	"crypto/subtle"
	"net/http"
	"time"
)

// RunAllowanceJob is the scheduled-trigger entry point, invoked by an
// external scheduler roughly once every 24 hours.
func (h *Handlers) RunAllowanceJob(w http.ResponseWriter, r *http.Request) {
	if h.cfg.JobSecret == "" {
		writeError(w, http.StatusServiceUnavailable, "job_not_configured", "allowance job secret not configured")
		return
	}

	provided := r.Header.Get("X-Job-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.cfg.JobSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid job secret")
		return
	}

	if h.jobRuns != nil {
		h.jobRuns.AllowanceRun()
	}

	summary, err := h.Allowance.Run(r.Context(), time.Now().In(h.cfg.AllowanceLocation))
	if err != nil {
		h.log.InternalError("allowance.run: aborted", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "allowance run aborted")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
