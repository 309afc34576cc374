// Package monitor keeps a live view of the weekly hours and the clock.
//
// The monitor reloads its Snapshot through a Loader whenever the watcher
// reports a change to the database file, and ticks between reloads so the
// elapsed time of an open session keeps running.
package monitor

import (
	"context"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/session"
)

// Snapshot is the persisted state at one point in time.
type Snapshot struct {
	Sessions []session.Session

	// Since is the pending clock-in, valid when Active.
	Since  time.Time
	Active bool
}

// Loader reads the current Snapshot.
type Loader func(ctx context.Context) (Snapshot, error)

// Config holds the configuration for the live monitor.
type Config struct {
	// Files to watch for changes.
	Files []string

	// RefreshInterval is the interval between ticks without reload.
	// Default: 1s.
	RefreshInterval time.Duration

	// WeekStart selects the first day of the displayed week.
	// Default: aggregator.Monday.
	WeekStart aggregator.WeekStart

	// Now is the time source.
	// Default: time.Now.
	Now func() time.Time
}

// LiveMonitor provides real-time session monitoring.
type LiveMonitor interface {
	// Start loads the initial snapshot, publishes it and begins watching.
	Start(ctx context.Context) error

	// Stop stops the monitor gracefully.
	Stop() error

	// Updates returns the channel of published updates.
	//
	// The channel is closed by Close.
	Updates() <-chan Update

	// Latest returns the most recent update.
	Latest() Update

	// Close stops the monitor and closes the updates channel.
	Close() error
}

// Update represents a live monitoring update event.
type Update struct {
	// Timestamp of the update.
	Timestamp time.Time

	// Week is the on-screen weekly chart.
	Week display.WeekView

	// Today lists today's sessions in store order.
	Today []session.Session

	// Status is the clock state.
	Status display.Status

	// NewSessions is the number of sessions added since the previous load.
	NewSessions int

	// Reloaded is true if the snapshot was read for this update.
	Reloaded bool
}
