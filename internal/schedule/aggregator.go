package schedule

import (
	"time"

	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

const (
	dateKeyFormat     = "2006-01-02"
	displayTimeFormat = "3:04 PM"

	// Business-hours window rendered on the booking page, inclusive.
	openHour  = 9
	closeHour = 21

	// Availability slots without segments default to a one-hour opening.
	defaultAvailabilityMinutes = 60
)

// Bucketize groups bookings and availability slots by their local calendar
// date in loc. Buckets are created lazily; dates with no entries are absent
// from the result. Source slices are only read, never mutated, and entries
// keep their input order within each bucket. Records with a malformed
// start_at are excluded with a warning rather than failing the pass.
func Bucketize(bookings []square.Booking, avails []square.AvailabilitySlot, loc *time.Location, logger *logging.Logger) map[string]*DayBucket {
	if logger == nil {
		logger = logging.Default()
	}
	buckets := make(map[string]*DayBucket)

	bucket := func(key string) *DayBucket {
		b, ok := buckets[key]
		if !ok {
			b = &DayBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, booking := range bookings {
		local, err := parseLocal(booking.StartAt, loc)
		if err != nil {
			logger.Warn("skipping booking with malformed start_at", "booking_id", booking.ID, "start_at", booking.StartAt, "error", err)
			continue
		}
		duration := 0
		for _, seg := range booking.AppointmentSegments {
			duration += seg.DurationMinutes
		}
		b := bucket(local.Format(dateKeyFormat))
		b.Bookings = append(b.Bookings, TimeEntry{
			DisplayTime:     local.Format(displayTimeFormat),
			DurationMinutes: duration,
			Hour:            local.Hour(),
		})
	}

	for _, slot := range avails {
		local, err := parseLocal(slot.StartAt, loc)
		if err != nil {
			logger.Warn("skipping availability with malformed start_at", "start_at", slot.StartAt, "error", err)
			continue
		}
		duration := defaultAvailabilityMinutes
		if len(slot.AppointmentSegments) > 0 {
			duration = slot.AppointmentSegments[0].DurationMinutes
		}
		b := bucket(local.Format(dateKeyFormat))
		b.Availabilities = append(b.Availabilities, TimeEntry{
			DisplayTime:     local.Format(displayTimeFormat),
			DurationMinutes: duration,
			Hour:            local.Hour(),
		})
	}

	return buckets
}

func parseLocal(instant string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// BuildWeekView renders exactly 7 consecutive days starting at start. It is
// a pure function of its inputs: navigation re-renders over the same bucket
// map without refetching. Days missing from buckets get an empty bucket,
// and a day with no data at all is marked closed.
func BuildWeekView(start time.Time, buckets map[string]*DayBucket, loc *time.Location, now time.Time) WeekView {
	start = start.In(loc)
	todayKey := now.In(loc).Format(dateKeyFormat)

	view := WeekView{
		StartDate: start.Format(dateKeyFormat),
		Days:      make([]DayView, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		view.Days = append(view.Days, buildDayView(date, buckets, todayKey))
	}
	return view
}

// BuildMonthView renders every day of the given month with leading blank
// cells so the first week aligns on Sunday.
func BuildMonthView(year int, month time.Month, buckets map[string]*DayBucket, loc *time.Location, now time.Time) MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	todayKey := now.In(loc).Format(dateKeyFormat)

	view := MonthView{
		Year:          year,
		Month:         int(month),
		Name:          first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
	}

	daysInMonth := first.AddDate(0, 1, -1).Day()
	view.Days = make([]DayView, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		view.Days = append(view.Days, buildDayView(date, buckets, todayKey))
	}
	return view
}

func buildDayView(date time.Time, buckets map[string]*DayBucket, todayKey string) DayView {
	key := date.Format(dateKeyFormat)
	day := buckets[key]
	if day == nil {
		day = &DayBucket{}
	}

	view := DayView{
		Date:     key,
		DayName:  date.Format("Mon"),
		MonthDay: date.Format("Jan 2"),
		IsToday:  key == todayKey,
	}

	// A day with neither bookings nor availability is treated as a
	// non-working day, distinct from working hours with no openings.
	if len(day.Bookings) == 0 && len(day.Availabilities) == 0 {
		view.Closed = true
		return view
	}

	view.Slots = HourSlots(day)
	return view
}

// HourSlots renders the 09:00-21:00 window of one day. A booking in an hour
// overrides availability, which overrides unavailable. Matching compares the
// hour parsed from the instant, not the display string.
func HourSlots(day *DayBucket) []HourSlot {
	slots := make([]HourSlot, 0, closeHour-openHour+1)
	for hour := openHour; hour <= closeHour; hour++ {
		status := SlotUnavailable
		if hasEntryInHour(day.Availabilities, hour) {
			status = SlotAvailable
		}
		if hasEntryInHour(day.Bookings, hour) {
			status = SlotBooked
		}
		slots = append(slots, HourSlot{
			Hour:   hour,
			Label:  hourLabel(hour),
			Status: status,
		})
	}
	return slots
}

func hasEntryInHour(entries []TimeEntry, hour int) bool {
	for _, e := range entries {
		if e.Hour == hour {
			return true
		}
	}
	return false
}

func hourLabel(hour int) string {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format(displayTimeFormat)
}
