// Package aggregator buckets completed sessions into the days of a week.
//
// A week is a window of seven calendar days starting at midnight of its
// first day, in the location of the reference instant. A session belongs
// entirely to the day its start falls on; it is never split across days
// or weeks.
//
// Example usage:
//
//	hours := aggregator.WeeklyHours(store.All(), time.Now(), aggregator.Monday)
//	for i, label := range aggregator.DayLabels(aggregator.Monday) {
//	    fmt.Printf("%s %.2f\n", label, hours[i])
//	}
//
// For incremental use, New returns an Aggregator bound to one window:
//
//	agg := aggregator.New(aggregator.Config{Window: aggregator.WindowFor(now, aggregator.Sunday)})
//	for _, s := range sessions {
//	    agg.Add(s)
//	}
//	fmt.Println(agg.Summary().Total)
package aggregator

import (
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
)

// WeekStart selects the first day of the week.
type WeekStart int

const (
	// Monday starts the week on Monday (on-screen chart).
	Monday WeekStart = iota

	// Sunday starts the week on Sunday (exported report).
	Sunday
)

// DaysPerWeek is the number of buckets in Hours.
const DaysPerWeek = 7

// Hours holds hours per day, indexed by offset from the window start.
type Hours [DaysPerWeek]float64

// Window is the half-open interval [Start, End) covering one week.
type Window struct {
	Start time.Time
	End   time.Time
}

// Summary describes the sessions of one window.
type Summary struct {
	// Count is the number of sessions in the window.
	Count int

	// Total is the summed duration.
	Total time.Duration

	// Longest is the longest session. Zero if Count is 0.
	Longest session.Session

	// BusiestDay is the offset of the day with the most hours, or -1
	// when the window is empty. Ties go to the earliest day.
	BusiestDay int

	// Hours is the per-day breakdown.
	Hours Hours
}

// Aggregator accumulates sessions into a fixed window.
type Aggregator interface {
	// Add counts s if its start lies in the window.
	//
	// Returns true if s was counted.
	Add(s session.Session) bool

	// Hours returns the per-day totals so far.
	Hours() Hours

	// Summary returns the statistics so far.
	Summary() Summary

	// Window returns the window sessions are bucketed into.
	Window() Window

	// Reset clears all accumulated data; the window is kept.
	Reset()
}

// Config contains aggregator configuration.
type Config struct {
	// Window is the week to aggregate. Use WindowFor to build one.
	Window Window
}
