// Package schedule merges the merchant's bookings and availability into a
// timezone-correct per-day, per-hour occupancy grid, and derives the live
// open/closed status from the studio's weekly hours.
package schedule

// TimeEntry is one booking or availability occurrence inside a day bucket.
type TimeEntry struct {
	// DisplayTime is the 12-hour local time shown to visitors, e.g. "12:00 PM".
	DisplayTime string `json:"time"`
	// DurationMinutes is the total appointment length.
	DurationMinutes int `json:"duration"`
	// Hour is the 24-hour local hour used for slot matching. It is derived
	// from the instant, not from the display string.
	Hour int `json:"-"`
}

// DayBucket aggregates everything happening on one local calendar date.
type DayBucket struct {
	Bookings       []TimeEntry `json:"bookings"`
	Availabilities []TimeEntry `json:"availabilities"`
}

// SlotStatus classifies one business-hours slot.
type SlotStatus string

const (
	// SlotBooked wins over available: the hour already has an appointment.
	SlotBooked SlotStatus = "booked"
	// SlotAvailable means an open slot starts in this hour.
	SlotAvailable SlotStatus = "available"
	// SlotUnavailable means the hour has neither.
	SlotUnavailable SlotStatus = "unavailable"
)

// HourSlot is one hour of the business-hours window.
type HourSlot struct {
	Hour   int        `json:"hour"` // 24-hour local hour
	Label  string     `json:"label"`
	Status SlotStatus `json:"status"`
}

// DayView is one rendered day of a week or month view.
type DayView struct {
	Date     string `json:"date"` // YYYY-MM-DD in the studio timezone
	DayName  string `json:"day_name"`
	MonthDay string `json:"month_day"`
	IsToday  bool   `json:"is_today"`
	// Closed marks a day with no bookings and no availability at all. A
	// closed day renders as a single indicator, not as empty slots.
	Closed bool       `json:"closed"`
	Slots  []HourSlot `json:"slots,omitempty"`
}

// WeekView is a 7-day sliding window over the bucketized data.
type WeekView struct {
	StartDate string    `json:"start_date"`
	Days      []DayView `json:"days"`
}

// MonthView covers one calendar month with leading blanks for alignment.
type MonthView struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Name  string `json:"name"`
	// LeadingBlanks is the number of empty cells before day 1 so the grid
	// aligns on a Sunday-first week.
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayView `json:"days"`
}
