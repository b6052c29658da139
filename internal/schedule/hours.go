package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// Interval is a half-open [Start, End) range of minutes within a day during
// which the studio is open. 18:30-21:00 is {1110, 1260}.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// WeeklyHours maps weekday index (0=Sunday .. 6=Saturday) to the day's open
// intervals, sorted by ascending start time. It is operator-configured and
// independent of booking data.
type WeeklyHours [7][]Interval

// OpenStatus reports whether the studio is open right now, and the next
// transition. ClosesAt/OpensAt are minutes of day; Day is a weekday index.
type OpenStatus struct {
	IsOpen   bool `json:"is_open"`
	ClosesAt *int `json:"closes_at,omitempty"`
	OpensAt  *int `json:"opens_at,omitempty"`
	Day      *int `json:"day,omitempty"`
}

// ComputeStatus resolves now in loc and scans the weekly hours: today's
// remaining intervals first, then a full week forward, wrapping back to
// today so an interval already past still counts as next week's opening.
// Intervals are assumed pre-sorted; the engine does not sort.
func ComputeStatus(hours WeeklyHours, now time.Time, loc *time.Location) OpenStatus {
	local := now.In(loc)
	weekday := int(local.Weekday())
	minute := local.Hour()*60 + local.Minute()

	for _, iv := range hours[weekday] {
		if minute >= iv.Start && minute < iv.End {
			end := iv.End
			return OpenStatus{IsOpen: true, ClosesAt: &end}
		}
	}

	for offset := 0; offset <= 7; offset++ {
		day := (weekday + offset) % 7
		for _, iv := range hours[day] {
			// On day zero only intervals still ahead count; at offset 7
			// the same weekday comes around again and any interval is next
			// week's opening.
			if offset == 0 && iv.Start <= minute {
				continue
			}
			start := iv.Start
			d := day
			return OpenStatus{IsOpen: false, OpensAt: &start, Day: &d}
		}
	}

	return OpenStatus{IsOpen: false}
}

// dayHoursJSON is the wire form of one interval, using "15:04" clock times
// the way the studio operator writes them.
type dayHoursJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

var weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ParseWeeklyHours decodes operator-configured hours from JSON like
//
//	{"monday": [{"open": "10:00", "close": "18:00"}], ...}
//
// Days absent from the document are closed. Intervals are validated to be
// well-formed, in-range, sorted and non-overlapping.
func ParseWeeklyHours(data []byte) (WeeklyHours, error) {
	var hours WeeklyHours

	var doc map[string][]dayHoursJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return hours, fmt.Errorf("schedule: parse weekly hours: %w", err)
	}

	for name, entries := range doc {
		day := -1
		for i, n := range weekdayNames {
			if strings.EqualFold(name, n) {
				day = i
				break
			}
		}
		if day < 0 {
			return hours, fmt.Errorf("schedule: unknown weekday %q", name)
		}

		prevEnd := -1
		for _, e := range entries {
			start, err := parseClockMinute(e.Open)
			if err != nil {
				return hours, fmt.Errorf("schedule: %s open: %w", name, err)
			}
			end, err := parseClockMinute(e.Close)
			if err != nil {
				return hours, fmt.Errorf("schedule: %s close: %w", name, err)
			}
			if end <= start {
				return hours, fmt.Errorf("schedule: %s: close %s not after open %s", name, e.Close, e.Open)
			}
			if start < prevEnd {
				return hours, fmt.Errorf("schedule: %s: overlapping or unsorted intervals", name)
			}
			prevEnd = end
			hours[day] = append(hours[day], Interval{Start: start, End: end})
		}
	}

	return hours, nil
}

func parseClockMinute(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	minute := t.Hour()*60 + t.Minute()
	if minute < 0 || minute >= minutesPerDay {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}
	return minute, nil
}

// DefaultWeeklyHours is the studio's standing schedule, used when the
// operator has not configured hours via WEEKLY_HOURS.
func DefaultWeeklyHours() WeeklyHours {
	var hours WeeklyHours
	open10 := 10 * 60
	for day := time.Monday; day <= time.Friday; day++ {
		hours[int(day)] = []Interval{{Start: open10, End: 21 * 60}}
	}
	hours[int(time.Saturday)] = []Interval{{Start: open10, End: 18 * 60}}
	// Sunday closed.
	return hours
}
