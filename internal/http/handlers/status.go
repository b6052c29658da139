package handlers

import (
	"net/http"

	"github.com/smoothbar/studio-backend/internal/schedule"
)

// StatusSource yields the latest open/closed snapshot.
type StatusSource interface {
	Status() schedule.OpenStatus
}

// StatusHandler serves the live open/closed indicator.
type StatusHandler struct {
	source StatusSource
}

func NewStatusHandler(source StatusSource) *StatusHandler {
	return &StatusHandler{source: source}
}

// Get handles GET /api/status. Reads come from the poller's snapshot, so
// this never computes on the request path.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.Status())
}
