// Package watcher notifies about changes to specific files.
//
// It uses fsnotify on the parent directory of each watched file, so a
// file that is replaced, or created after Start, is still tracked. Events
// for other files in the same directory are dropped, and rapid bursts of
// writes to one file are debounced into a single event.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 250 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/.config/punchclock/punchclock.db"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("File %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"strings"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// Has reports whether op includes every bit of other.
func (op Op) Has(other Op) bool {
	return op&other == other
}

// String returns a human-readable operation name, e.g. "CREATE|WRITE"
// for a debounced burst.
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the watched file.
	Path string

	// Op is the union of the operations seen during the debounce window.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher provides file change notifications.
type Watcher interface {
	// Start begins watching the given files and returns once the watches
	// are registered. Events flow until ctx is cancelled, Stop is called
	// or the watcher is closed.
	//
	// A file whose directory does not exist is skipped; ErrInvalidPath is
	// returned if no file can be watched.
	Start(ctx context.Context, files []string) error

	// Stop halts event processing.
	Stop() error

	// Events returns the channel for receiving debounced events.
	//
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel for receiving watcher errors.
	//
	// Non-fatal errors are sent to this channel.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events for the same file within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of consecutive fsnotify
	// errors after which ErrCircuitBreakerOpen is reported and event
	// processing stops.
	// Default: 5.
	CircuitBreakerThreshold int

	// NotifyChmod reports permission-only changes. The session database
	// content does not change on chmod, so they are dropped by default.
	NotifyChmod bool
}
