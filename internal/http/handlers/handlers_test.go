package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoothbar/studio-backend/internal/schedule"
	"github.com/smoothbar/studio-backend/internal/square"
)

type fakeCatalog struct {
	objects []square.CatalogObject
	err     error
}

func (f fakeCatalog) SearchCatalog(ctx context.Context) ([]square.CatalogObject, error) {
	return f.objects, f.err
}

type fakeAvailability struct {
	slots []square.AvailabilitySlot
	err   error

	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeAvailability) FetchAvailability(ctx context.Context, startAt, endAt time.Time) ([]square.AvailabilitySlot, error) {
	f.gotStart, f.gotEnd = startAt, endAt
	return f.slots, f.err
}

type fakeSchedule struct {
	week  *schedule.WeekView
	month *schedule.MonthView
	err   error

	gotStart time.Time
	gotYear  int
	gotMonth time.Month
}

func (f *fakeSchedule) WeekView(ctx context.Context, start time.Time) (*schedule.WeekView, error) {
	f.gotStart = start
	return f.week, f.err
}

func (f *fakeSchedule) MonthView(ctx context.Context, year int, month time.Month) (*schedule.MonthView, error) {
	f.gotYear, f.gotMonth = year, month
	return f.month, f.err
}

type fixedStatus struct {
	status schedule.OpenStatus
}

func (f fixedStatus) Status() schedule.OpenStatus { return f.status }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServicesList(t *testing.T) {
	api := fakeCatalog{objects: []square.CatalogObject{{
		Type: "ITEM",
		ID:   "i1",
		ItemData: &square.ItemData{
			Name: "Eyebrows",
			Variations: []square.ItemVariation{{
				ID: "v1",
				ItemVariationData: &square.ItemVariationData{
					Name:       "Regular",
					PriceMoney: &square.Money{Amount: 1800},
				},
			}},
		},
	}}}

	rec := httptest.NewRecorder()
	NewServicesHandler(api, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	services := body["services"].([]any)
	require.Len(t, services, 1)
	svc := services[0].(map[string]any)
	assert.Equal(t, "Eyebrows", svc["name"])
	assert.Equal(t, "Face & Brows", svc["category"])
}

func TestServicesNotConnected(t *testing.T) {
	api := fakeCatalog{err: square.ErrNotConnected}

	rec := httptest.NewRecorder()
	NewServicesHandler(api, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "authorize")
}

func TestServicesUpstreamFailure(t *testing.T) {
	api := fakeCatalog{err: errors.New("square down")}

	rec := httptest.NewRecorder()
	NewServicesHandler(api, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAvailabilityList(t *testing.T) {
	api := &fakeAvailability{slots: []square.AvailabilitySlot{{StartAt: "2024-06-03T16:00:00Z"}}}

	rec := httptest.NewRecorder()
	NewAvailabilityHandler(api, calendarLoc(t), 30, nil).List(rec, httptest.NewRequest(http.MethodGet, "/api/availability", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["availabilities"], 1)
}

func TestAvailabilityWindowIsStudioLocal(t *testing.T) {
	loc := calendarLoc(t)
	api := &fakeAvailability{}
	h := NewAvailabilityHandler(api, loc, 30, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/availability", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// 02:00 UTC on June 4 is still June 3 in the studio timezone.
	assert.Equal(t, "2024-06-03", api.gotStart.In(loc).Format("2006-01-02"))
	assert.Equal(t, 30*24*time.Hour, api.gotEnd.Sub(api.gotStart))
}

func calendarLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

func TestCalendarWeekDefaultsToToday(t *testing.T) {
	loc := calendarLoc(t)
	svc := &fakeSchedule{week: &schedule.WeekView{StartDate: "2024-06-03"}}
	h := NewCalendarHandler(svc, loc, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 3, 8, 0, 0, 0, loc) }

	rec := httptest.NewRecorder()
	h.Week(rec, httptest.NewRequest(http.MethodGet, "/api/calendar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-03", svc.gotStart.Format("2006-01-02"))
}

func TestCalendarWeekExplicitStart(t *testing.T) {
	svc := &fakeSchedule{week: &schedule.WeekView{StartDate: "2024-06-09"}}
	h := NewCalendarHandler(svc, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Week(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?start=2024-06-09", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-09", svc.gotStart.Format("2006-01-02"))
}

func TestCalendarWeekRejectsBadStart(t *testing.T) {
	h := NewCalendarHandler(&fakeSchedule{}, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Week(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?start=June+9", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarWeekSingleErrorOnFetchFailure(t *testing.T) {
	svc := &fakeSchedule{err: &schedule.FetchError{Side: "availability", Err: errors.New("boom")}}
	h := NewCalendarHandler(svc, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Week(rec, httptest.NewRequest(http.MethodGet, "/api/calendar", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "days", "no partial grid on failure")
}

func TestCalendarWeekNotConnected(t *testing.T) {
	svc := &fakeSchedule{err: &schedule.FetchError{Side: "bookings", Err: square.ErrNotConnected}}
	h := NewCalendarHandler(svc, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Week(rec, httptest.NewRequest(http.MethodGet, "/api/calendar", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalendarMonth(t *testing.T) {
	svc := &fakeSchedule{month: &schedule.MonthView{Year: 2024, Month: 6}}
	h := NewCalendarHandler(svc, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Month(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/month?year=2024&month=6", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, svc.gotYear)
	assert.Equal(t, time.June, svc.gotMonth)
}

func TestCalendarMonthRejectsBadMonth(t *testing.T) {
	h := NewCalendarHandler(&fakeSchedule{}, calendarLoc(t), nil)

	rec := httptest.NewRecorder()
	h.Month(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/month?month=13", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusGet(t *testing.T) {
	closesAt := 1260
	h := NewStatusHandler(fixedStatus{status: schedule.OpenStatus{IsOpen: true, ClosesAt: &closesAt}})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["is_open"])
	assert.Equal(t, float64(1260), body["closes_at"])
}

func TestPagesServeExistingPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pricing.html"), []byte("<html>pricing</html>"), 0o644))
	h := NewPagesHandler(dir, nil)

	rec := httptest.NewRecorder()
	h.Page("pricing")(rec, httptest.NewRequest(http.MethodGet, "/pricing", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pricing")
}

func TestPagesMissingPageIs404(t *testing.T) {
	h := NewPagesHandler(t.TempDir(), nil)

	rec := httptest.NewRecorder()
	h.Page("training")(rec, httptest.NewRequest(http.MethodGet, "/training", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler().Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
