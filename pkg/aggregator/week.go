package aggregator

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	mondayLabels = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	sundayLabels = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// ParseWeekStart parses "monday" or "sunday", case-insensitively.
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mon":
		return Monday, nil
	case "sunday", "sun":
		return Sunday, nil
	default:
		return Monday, fmt.Errorf("%w: %q", ErrUnknownWeekStart, s)
	}
}

// String implements fmt.Stringer.
func (w WeekStart) String() string {
	if w == Sunday {
		return "sunday"
	}
	return "monday"
}

// Weekday returns the first weekday of the week.
func (w WeekStart) Weekday() time.Weekday {
	if w == Sunday {
		return time.Sunday
	}
	return time.Monday
}

// DayLabels returns the short day labels in bucket order.
func DayLabels(w WeekStart) [DaysPerWeek]string {
	if w == Sunday {
		return sundayLabels
	}
	return mondayLabels
}

// DayNames returns the full day names in bucket order.
func DayNames(w WeekStart) [DaysPerWeek]string {
	var names [DaysPerWeek]string
	first := w.Weekday()
	for i := range names {
		names[i] = time.Weekday((int(first) + i) % DaysPerWeek).String()
	}
	return names
}

// WindowFor returns the week containing now, in now's location.
//
// Both bounds are local midnights computed with calendar arithmetic, so
// a week spanning a DST change is 7 calendar days long rather than
// 168 hours.
func WindowFor(now time.Time, w WeekStart) Window {
	y, m, d := now.Date()
	back := (int(now.Weekday()) - int(w.Weekday()) + DaysPerWeek) % DaysPerWeek

	loc := now.Location()
	return Window{
		Start: time.Date(y, m, d-back, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d-back+DaysPerWeek, 0, 0, 0, 0, loc),
	}
}

// Contains reports whether t lies in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayOffset returns the calendar-day index of t within the window.
func (w Window) DayOffset(t time.Time) (int, bool) {
	if !w.Contains(t) {
		return 0, false
	}

	local := t.In(w.Start.Location())
	y, m, d := local.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, local.Location())

	// Days can be 23 or 25 hours long; rounding absorbs that.
	offset := int(math.Round(midnight.Sub(w.Start).Hours() / 24))
	if offset < 0 || offset >= DaysPerWeek {
		return 0, false
	}
	return offset, true
}

// Day returns midnight of the day at offset i.
func (w Window) Day(i int) time.Time {
	y, m, d := w.Start.Date()
	return time.Date(y, m, d+i, 0, 0, 0, 0, w.Start.Location())
}

// LastDay returns midnight of the final day of the window.
func (w Window) LastDay() time.Time {
	return w.Day(DaysPerWeek - 1)
}

// Total returns the sum over all days.
func (h Hours) Total() float64 {
	var total float64
	for _, v := range h {
		total += v
	}
	return total
}

// Max returns the largest single-day value.
func (h Hours) Max() float64 {
	var highest float64
	for _, v := range h {
		if v > highest {
			highest = v
		}
	}
	return highest
}
