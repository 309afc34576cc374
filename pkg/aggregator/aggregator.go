package aggregator

import (
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
)

// aggregator implements the Aggregator interface.
type aggregator struct {
	config Config

	mu      sync.RWMutex
	hours   Hours
	count   int
	total   time.Duration
	longest session.Session
}

// New creates a new aggregator for cfg.Window.
func New(cfg Config) Aggregator {
	return &aggregator{config: cfg}
}

// Add implements Aggregator.Add.
func (a *aggregator) Add(s session.Session) bool {
	day, ok := a.config.Window.DayOffset(s.Start)
	if !ok {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.hours[day] += s.Hours()
	a.count++
	a.total += s.Duration()
	if a.count == 1 || s.Duration() > a.longest.Duration() {
		a.longest = s
	}
	return true
}

// Hours implements Aggregator.Hours.
func (a *aggregator) Hours() Hours {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hours
}

// Summary implements Aggregator.Summary.
func (a *aggregator) Summary() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sum := Summary{
		Count:      a.count,
		Total:      a.total,
		Longest:    a.longest,
		BusiestDay: -1,
		Hours:      a.hours,
	}
	if a.count == 0 {
		return sum
	}

	busiest := 0
	for i, v := range a.hours {
		if v > a.hours[busiest] {
			busiest = i
		}
	}
	sum.BusiestDay = busiest
	return sum
}

// Window implements Aggregator.Window.
func (a *aggregator) Window() Window {
	return a.config.Window
}

// Reset implements Aggregator.Reset.
func (a *aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.hours = Hours{}
	a.count = 0
	a.total = 0
	a.longest = session.Session{}
}

// WeeklyHours returns hours per day for the week containing now.
//
// Sessions starting outside the week are ignored. Each session adds its
// full duration, with no rounding, to the day it starts on.
func WeeklyHours(sessions []session.Session, now time.Time, w WeekStart) Hours {
	return Summarize(sessions, WindowFor(now, w)).Hours
}

// Summarize aggregates sessions into window.
func Summarize(sessions []session.Session, window Window) Summary {
	agg := New(Config{Window: window})
	for _, s := range sessions {
		agg.Add(s)
	}
	return agg.Summary()
}
