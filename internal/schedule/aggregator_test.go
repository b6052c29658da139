package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoothbar/studio-backend/internal/square"
)

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

func TestBucketizeUsesLocalDates(t *testing.T) {
	loc := vancouver(t)

	// 19:00 UTC on June 3 is 12:00 PM PDT the same day; 05:00 UTC on
	// June 4 is still 10:00 PM June 3 locally.
	bookings := []square.Booking{
		{ID: "b1", StartAt: "2024-06-03T19:00:00Z", AppointmentSegments: []square.AppointmentSegment{{DurationMinutes: 45}, {DurationMinutes: 15}}},
		{ID: "b2", StartAt: "2024-06-04T05:00:00Z", AppointmentSegments: []square.AppointmentSegment{{DurationMinutes: 30}}},
	}
	avails := []square.AvailabilitySlot{
		{StartAt: "2024-06-03T16:00:00Z", AppointmentSegments: []square.AppointmentSegment{{DurationMinutes: 45}}},
		{StartAt: "2024-06-05T17:00:00Z"},
	}

	buckets := Bucketize(bookings, avails, loc, nil)

	require.Len(t, buckets, 2)
	require.Contains(t, buckets, "2024-06-03")
	require.Contains(t, buckets, "2024-06-05")

	day := buckets["2024-06-03"]
	require.Len(t, day.Bookings, 2)
	assert.Equal(t, "12:00 PM", day.Bookings[0].DisplayTime)
	assert.Equal(t, 60, day.Bookings[0].DurationMinutes)
	assert.Equal(t, 12, day.Bookings[0].Hour)
	assert.Equal(t, "10:00 PM", day.Bookings[1].DisplayTime)

	require.Len(t, day.Availabilities, 1)
	assert.Equal(t, "9:00 AM", day.Availabilities[0].DisplayTime)
	assert.Equal(t, 45, day.Availabilities[0].DurationMinutes)

	// Slot without segments defaults to an hour.
	assert.Equal(t, 60, buckets["2024-06-05"].Availabilities[0].DurationMinutes)
}

func TestBucketizeSkipsMalformedTimestamps(t *testing.T) {
	loc := vancouver(t)

	bookings := []square.Booking{
		{ID: "bad", StartAt: "not-a-time"},
		{ID: "good", StartAt: "2024-06-03T19:00:00Z"},
	}
	buckets := Bucketize(bookings, nil, loc, nil)

	require.Len(t, buckets, 1)
	assert.Len(t, buckets["2024-06-03"].Bookings, 1)
}

func TestBucketizeDoesNotMutateInputs(t *testing.T) {
	loc := vancouver(t)
	bookings := []square.Booking{{ID: "b1", StartAt: "2024-06-03T19:00:00Z"}}

	Bucketize(bookings, nil, loc, nil)

	assert.Equal(t, "b1", bookings[0].ID)
	assert.Equal(t, "2024-06-03T19:00:00Z", bookings[0].StartAt)
}

func TestBuildWeekViewAlwaysSevenDays(t *testing.T) {
	loc := vancouver(t)
	start := time.Date(2024, 6, 2, 0, 0, 0, 0, loc) // a Sunday
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, loc)

	view := BuildWeekView(start, map[string]*DayBucket{}, loc, now)

	assert.Equal(t, "2024-06-02", view.StartDate)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "2024-06-02", view.Days[0].Date)
	assert.Equal(t, "2024-06-08", view.Days[6].Date)
	assert.True(t, view.Days[1].IsToday)
	for _, day := range view.Days {
		assert.True(t, day.Closed)
		assert.Empty(t, day.Slots)
	}
}

func TestBuildWeekViewIsPure(t *testing.T) {
	loc := vancouver(t)
	buckets := Bucketize([]square.Booking{
		{ID: "b1", StartAt: "2024-06-03T19:00:00Z", AppointmentSegments: []square.AppointmentSegment{{DurationMinutes: 60}}},
	}, nil, loc, nil)
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, loc)
	start := time.Date(2024, 6, 2, 0, 0, 0, 0, loc)

	first := BuildWeekView(start, buckets, loc, now)
	second := BuildWeekView(start, buckets, loc, now)
	assert.Equal(t, first, second)

	// Navigating a week forward and back lands on the same render.
	next := BuildWeekView(start.AddDate(0, 0, 7), buckets, loc, now)
	assert.Equal(t, "2024-06-09", next.StartDate)
	back := BuildWeekView(start, buckets, loc, now)
	assert.Equal(t, first, back)
}

func TestHourSlotsPrecedence(t *testing.T) {
	day := &DayBucket{
		Bookings:       []TimeEntry{{DisplayTime: "12:00 PM", Hour: 12}},
		Availabilities: []TimeEntry{{DisplayTime: "12:00 PM", Hour: 12}, {DisplayTime: "3:00 PM", Hour: 15}},
	}

	slots := HourSlots(day)
	require.Len(t, slots, 13)

	byHour := make(map[int]HourSlot)
	for _, s := range slots {
		byHour[s.Hour] = s
	}

	assert.Equal(t, SlotBooked, byHour[12].Status, "booked wins over available")
	assert.Equal(t, SlotAvailable, byHour[15].Status)
	assert.Equal(t, SlotUnavailable, byHour[9].Status)
	assert.Equal(t, SlotUnavailable, byHour[21].Status)
	assert.Equal(t, "9:00 AM", slots[0].Label)
	assert.Equal(t, "9:00 PM", slots[12].Label)
}

func TestHourSlotsMatchesParsedHourNotLabel(t *testing.T) {
	// 12:05 PM and 12:00 PM share hour 12 even though the strings differ;
	// 1:00 PM does not match 12:00 anything.
	day := &DayBucket{
		Bookings: []TimeEntry{{DisplayTime: "12:05 PM", Hour: 12}},
	}

	slots := HourSlots(day)
	byHour := make(map[int]SlotStatus)
	for _, s := range slots {
		byHour[s.Hour] = s.Status
	}
	assert.Equal(t, SlotBooked, byHour[12])
	assert.Equal(t, SlotUnavailable, byHour[13])
}

func TestClosedDayRendersSingleIndicator(t *testing.T) {
	loc := vancouver(t)
	buckets := map[string]*DayBucket{
		"2024-06-03": {Bookings: []TimeEntry{{Hour: 12}}},
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, loc)

	view := BuildWeekView(time.Date(2024, 6, 2, 0, 0, 0, 0, loc), buckets, loc, now)

	monday := view.Days[1]
	assert.False(t, monday.Closed)
	assert.Len(t, monday.Slots, 13)

	tuesday := view.Days[2]
	assert.True(t, tuesday.Closed)
	assert.Nil(t, tuesday.Slots)
}

func TestBuildMonthView(t *testing.T) {
	loc := vancouver(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)

	view := BuildMonthView(2024, time.June, map[string]*DayBucket{}, loc, now)

	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, 6, view.Month)
	assert.Equal(t, "June 2024", view.Name)
	// June 1, 2024 is a Saturday.
	assert.Equal(t, 6, view.LeadingBlanks)
	require.Len(t, view.Days, 30)
	assert.Equal(t, "2024-06-01", view.Days[0].Date)
	assert.True(t, view.Days[14].IsToday)
}
