// Package display provides terminal output for sessions and weekly hours.
//
// It supports multiple output formats (table, JSON, simple text). The table
// format draws the weekly chart as horizontal bars.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/session"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays bars and aligned columns.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays one line per item.
	FormatSimple Format = "simple"
)

// WeekView is the on-screen weekly chart.
type WeekView struct {
	WeekStart aggregator.WeekStart
	Window    aggregator.Window
	Labels    [aggregator.DaysPerWeek]string
	Summary   aggregator.Summary
}

// NewWeekView aggregates sessions into the week containing now.
func NewWeekView(sessions []session.Session, now time.Time, ws aggregator.WeekStart) WeekView {
	window := aggregator.WindowFor(now, ws)
	return WeekView{
		WeekStart: ws,
		Window:    window,
		Labels:    aggregator.DayLabels(ws),
		Summary:   aggregator.Summarize(sessions, window),
	}
}

// Status is the clock state.
type Status struct {
	// Active is true while clocked in.
	Active bool

	// Since is the clock-in instant when Active.
	Since time.Time

	// Elapsed is the time since Since.
	Elapsed time.Duration

	// Today is the total of today's completed sessions.
	Today time.Duration

	// Week is the total of this week's completed sessions.
	Week time.Duration
}

// Formatter writes sessions and weekly hours.
type Formatter interface {
	// FormatWeek writes the weekly chart.
	FormatWeek(w io.Writer, v WeekView) error

	// FormatToday writes today's sessions, in the order given.
	FormatToday(w io.Writer, sessions []session.Session) error

	// FormatStatus writes the clock state.
	FormatStatus(w io.Writer, s Status) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ColorEnabled styles table output with ANSI colors.
	// Default: false.
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

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
