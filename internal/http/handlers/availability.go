package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

// AvailabilityAPI is the slice of the Square client the raw availability
// endpoint needs.
type AvailabilityAPI interface {
	FetchAvailability(ctx context.Context, startAt, endAt time.Time) ([]square.AvailabilitySlot, error)
}

// AvailabilityHandler serves raw availability slots for the booking page.
type AvailabilityHandler struct {
	api         AvailabilityAPI
	loc         *time.Location
	horizonDays int
	logger      *logging.Logger

	now func() time.Time
}

func NewAvailabilityHandler(api AvailabilityAPI, loc *time.Location, horizonDays int, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &AvailabilityHandler{
		api:         api,
		loc:         loc,
		horizonDays: horizonDays,
		logger:      logger.Component("availability"),
		now:         time.Now,
	}
}

// List handles GET /api/availability. The search window starts at the
// current studio-local time and runs the configured horizon forward.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	startAt := h.now().In(h.loc)
	slots, err := h.api.FetchAvailability(r.Context(), startAt, startAt.AddDate(0, 0, h.horizonDays))
	if err != nil {
		h.logger.Error("availability fetch failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"availabilities": slots})
}
