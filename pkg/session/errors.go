package session

import (
	"errors"
	"fmt"
	"time"
)

// Common errors returned by the session package.
var (
	// ErrInvalidInterval is returned when a session ends before it starts.
	ErrInvalidInterval = errors.New("session end is before start")

	// ErrInvalidTimestamp is returned when a persisted instant cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid session timestamp")

	// ErrMalformedRecord is returned when a persisted session is not valid JSON.
	ErrMalformedRecord = errors.New("malformed session record")

	// ErrPersistenceUnavailable is returned when durable storage rejects a
	// write. The in-memory state is left unchanged.
	ErrPersistenceUnavailable = errors.New("session storage unavailable")

	// ErrAlreadyClockedIn is returned by ClockIn while a clock-in is pending.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn is returned by ClockOut without a pending clock-in.
	ErrNotClockedIn = errors.New("not clocked in")
)

// ValidationError describes a rejected session interval.
type ValidationError struct {
	Start time.Time
	End   time.Time
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid session %s - %s: %v",
		FormatTimestamp(e.Start), FormatTimestamp(e.End), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
