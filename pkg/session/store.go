package session

import (
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/storage"
)

// SlotSessions is the slot holding the session snapshot.
const SlotSessions = "sessions"

// Store is the ordered, persisted sequence of completed sessions.
//
// Insertion order is creation order; it is not guaranteed to be sorted by
// Start. Every successful mutation rewrites the full snapshot.
type Store struct {
	slots  storage.Slots
	logger logger.Logger

	mu       sync.RWMutex
	sessions []Session
}

// NewStore creates a store and hydrates it from slots.
//
// A missing, unreadable or unparseable snapshot yields an empty store;
// the problem is logged and no error is returned.
func NewStore(slots storage.Slots, log logger.Logger) *Store {
	s := &Store{
		slots:  slots,
		logger: log.Component("session-store"),
	}
	s.sessions = s.hydrate()
	return s
}

func (s *Store) hydrate() []Session {
	data, err := s.slots.Get(SlotSessions)
	if err != nil {
		s.logger.Warn("failed to read session snapshot, starting with empty history",
			"error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	sessions, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("session snapshot is corrupt, starting with empty history",
			"error", err,
			"bytes", len(data))
		return nil
	}

	s.logger.Debug("session history loaded", "count", len(sessions))
	return sessions
}

// Append adds sess to the end of the sequence and persists the snapshot.
//
// extra mutations, if any, are committed in the same transaction as the
// snapshot. Returns a *ValidationError for an invalid interval and an
// error wrapping ErrPersistenceUnavailable if the write fails; in both
// cases the store is unchanged.
func (s *Store) Append(sess Session, extra ...storage.Mutation) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return s.commit([]Session{sess}, extra...)
}

// Import appends every session in one write. If any session is invalid
// nothing is appended.
func (s *Store) Import(sessions []Session) error {
	for _, sess := range sessions {
		if err := sess.Validate(); err != nil {
			return err
		}
	}
	if len(sessions) == 0 {
		return nil
	}
	return s.commit(sessions)
}

func (s *Store) commit(added []Session, extra ...storage.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Session, 0, len(s.sessions)+len(added))
	next = append(next, s.sessions...)
	next = append(next, added...)

	data, err := EncodeSnapshot(next)
	if err != nil {
		return err
	}

	mutations := append([]storage.Mutation{func(w storage.Writer) error {
		return w.Put(SlotSessions, data)
	}}, extra...)

	if err := s.slots.Update(mutations...); err != nil {
		s.logger.Error("failed to persist sessions", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	s.sessions = next
	s.logger.Info("sessions appended", "added", len(added), "total", len(next))
	return nil
}

// Clear empties the sequence and erases the persisted snapshot.
//
// Irreversible. Callers obtain user confirmation before calling it.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slots.Delete(SlotSessions); err != nil {
		s.logger.Error("failed to erase session snapshot", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	cleared := len(s.sessions)
	s.sessions = nil
	s.logger.Info("session history cleared", "removed", cleared)
	return nil
}

// All returns a copy of the sequence in store order.
func (s *Store) All() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TodaysSessions yields, in store order, the sessions that start on the
// same calendar day as now (in now's location).
//
// The sequence filters the snapshot taken when it is created and can be
// ranged over any number of times.
func (s *Store) TodaysSessions(now time.Time) iter.Seq[Session] {
	return StartedOn(s.All(), now)
}

// StartedOn yields the sessions of list that start on ref's calendar day.
func StartedOn(list []Session, ref time.Time) iter.Seq[Session] {
	return func(yield func(Session) bool) {
		for _, sess := range list {
			if !sess.StartedOn(ref) {
				continue
			}
			if !yield(sess) {
				return
			}
		}
	}
}
