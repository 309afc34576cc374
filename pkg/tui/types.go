// Package tui is the interactive terminal front end: a live weekly
// chart, today's sessions and single-key clock controls.
package tui

import (
	"context"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/export"
	"github.com/0xmhha/punchclock/pkg/session"
)

// Clock starts and stops sessions.
type Clock interface {
	ClockIn() (time.Time, error)
	ClockOut() (session.Session, error)
	Active() (time.Time, bool)
}

// History is the completed session list.
type History interface {
	All() []session.Session
	Clear() error
}

// Exporter writes the weekly report.
type Exporter interface {
	Export(ctx context.Context, sessions []session.Session, now time.Time) (export.Result, error)
}

// Config contains UI configuration.
type Config struct {
	// WeekStart selects the first day of the chart week.
	WeekStart aggregator.WeekStart

	// ColorEnabled styles the chart.
	ColorEnabled bool

	// BarWidth is the width in cells of the longest bar.
	// Default: 40.
	BarWidth int

	// TimeFormat renders clock times.
	// Default: "15:04:05".
	TimeFormat string

	// Location renders clock times in this zone.
	// Default: time.Local.
	Location *time.Location

	// TickInterval is how often the elapsed timer redraws.
	// Default: 1s.
	TickInterval time.Duration

	// Now is the time source.
	// Default: time.Now.
	Now func() time.Time
}
