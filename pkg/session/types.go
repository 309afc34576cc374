// Package session provides the completed-session model, its persistent
// store and the clock-in state.
//
// A Session is immutable once built. The Store is an append-only log of
// sessions persisted as one JSON snapshot in a storage slot; the only
// destructive operation is Clear, which drops the whole history.
//
// Example usage:
//
//	slots, _ := storage.Open(storage.Config{DBPath: dbPath}, log)
//	store := session.NewStore(slots, log)
//	clock := session.NewClock(slots, store, log)
//
//	if _, err := clock.ClockIn(); err != nil {
//	    return err
//	}
//	// ... later
//	s, err := clock.ClockOut()
//	fmt.Println(s.Duration())
package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout is the wire format of session instants: UTC with
// millisecond precision, e.g. 2024-01-01T09:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Session is one completed work interval.
//
// Invariant: End is never before Start.
type Session struct {
	Start time.Time
	End   time.Time
}

// New builds a session from start and end, truncated to milliseconds.
//
// Returns a *ValidationError if end is before start.
func New(start, end time.Time) (Session, error) {
	s := Session{
		Start: start.Truncate(time.Millisecond),
		End:   end.Truncate(time.Millisecond),
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Validate checks the End >= Start invariant.
func (s Session) Validate() error {
	if s.End.Before(s.Start) {
		return &ValidationError{Start: s.Start, End: s.End, Err: ErrInvalidInterval}
	}
	return nil
}

// Duration is End - Start, derived on every call.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// DurationMillis is the duration in whole milliseconds.
func (s Session) DurationMillis() int64 {
	return s.Duration().Milliseconds()
}

// Hours is the duration as fractional hours.
func (s Session) Hours() float64 {
	return float64(s.DurationMillis()) / float64(time.Hour/time.Millisecond)
}

// StartedOn reports whether the session starts on the same calendar day
// as ref, in ref's location.
func (s Session) StartedOn(ref time.Time) bool {
	start := s.Start.In(ref.Location())
	y1, m1, d1 := start.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatTimestamp renders t in the persisted wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts any RFC 3339 instant, with or without fraction.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t.UTC(), nil
}

// record is the persisted shape of a session.
//
// Duration is written for compatibility with existing snapshots and
// ignored on read: the authoritative duration is End - Start.
type record struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int64  `json:"duration"`
}

// MarshalJSON implements json.Marshaler.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Start:    FormatTimestamp(s.Start),
		End:      FormatTimestamp(s.End),
		Duration: s.DurationMillis(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded session is
// validated.
func (s *Session) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	start, err := ParseTimestamp(r.Start)
	if err != nil {
		return err
	}
	end, err := ParseTimestamp(r.End)
	if err != nil {
		return err
	}

	decoded, err := New(start, end)
	if err != nil {
		return err
	}

	*s = decoded
	return nil
}
