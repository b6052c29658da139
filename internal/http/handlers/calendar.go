package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/smoothbar/studio-backend/internal/schedule"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

// ScheduleService renders calendar views from the aggregated dataset.
type ScheduleService interface {
	WeekView(ctx context.Context, start time.Time) (*schedule.WeekView, error)
	MonthView(ctx context.Context, year int, month time.Month) (*schedule.MonthView, error)
}

// CalendarHandler serves the aggregated booking calendar.
type CalendarHandler struct {
	schedule ScheduleService
	loc      *time.Location
	logger   *logging.Logger

	now func() time.Time
}

func NewCalendarHandler(svc ScheduleService, loc *time.Location, logger *logging.Logger) *CalendarHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarHandler{
		schedule: svc,
		loc:      loc,
		logger:   logger.Component("calendar"),
		now:      time.Now,
	}
}

// Week handles GET /api/calendar?start=YYYY-MM-DD. Without a start date the
// window begins on the current local day. Either upstream side failing
// renders a single error block, not a partial grid.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	start := h.now().In(h.loc)
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
			return
		}
		start = parsed
	}

	view, err := h.schedule.WeekView(r.Context(), start)
	if err != nil {
		h.logCalendarError(err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Month handles GET /api/calendar/month?year=2024&month=6. Defaults to the
// current local month.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	local := h.now().In(h.loc)
	year := local.Year()
	month := local.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "invalid month, want 1-12")
			return
		}
		month = time.Month(parsed)
	}

	view, err := h.schedule.MonthView(r.Context(), year, month)
	if err != nil {
		h.logCalendarError(err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CalendarHandler) logCalendarError(err error) {
	var fe *schedule.FetchError
	if errors.As(err, &fe) {
		h.logger.Error("calendar fetch failed", "side", fe.Side, "error", fe.Err)
		return
	}
	h.logger.Error("calendar render failed", "error", err)
}
