package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/storage"
)

// SlotActive is the slot holding the pending clock-in instant.
const SlotActive = "active"

// Clock tracks the clock-in/clock-out state.
//
// The pending clock-in is persisted so that "punchclock in" and
// "punchclock out" may run as separate processes.
type Clock struct {
	slots  storage.Slots
	store  *Store
	logger logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock creates a clock that records completed sessions in store.
func NewClock(slots storage.Slots, store *Store, log logger.Logger, opts ...ClockOption) *Clock {
	c := &Clock{
		slots:  slots,
		store:  store,
		logger: log.Component("clock"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the pending clock-in instant, if any.
func (c *Clock) Active() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active()
}

func (c *Clock) active() (time.Time, bool) {
	data, err := c.slots.Get(SlotActive)
	if err != nil {
		c.logger.Warn("failed to read clock-in state", "error", err)
		return time.Time{}, false
	}
	if data == nil {
		return time.Time{}, false
	}

	start, err := ParseTimestamp(string(data))
	if err != nil {
		c.logger.Warn("ignoring corrupt clock-in state", "error", err)
		return time.Time{}, false
	}
	return start, true
}

// Elapsed returns the time since the pending clock-in, or zero.
func (c *Clock) Elapsed() time.Duration {
	start, ok := c.Active()
	if !ok {
		return 0
	}
	return c.now().Sub(start)
}

// ClockIn starts a session now.
//
// Returns ErrAlreadyClockedIn if a clock-in is pending.
func (c *Clock) ClockIn() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if start, ok := c.active(); ok {
		return start, ErrAlreadyClockedIn
	}

	start := c.now().Truncate(time.Millisecond)
	if err := c.slots.Put(SlotActive, []byte(FormatTimestamp(start))); err != nil {
		c.logger.Error("failed to persist clock-in", "error", err)
		return time.Time{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	c.logger.Info("clocked in", "start", FormatTimestamp(start))
	return start, nil
}

// ClockOut completes the pending session at now and appends it to the
// store. The pending clock-in is cleared in the same transaction.
//
// Returns ErrNotClockedIn without a pending clock-in, and a
// *ValidationError if the clock moved backwards since clock-in.
func (c *Clock) ClockOut() (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, ok := c.active()
	if !ok {
		return Session{}, ErrNotClockedIn
	}

	sess, err := New(start, c.now())
	if err != nil {
		c.logger.Warn("rejected clock-out", "error", err)
		return Session{}, err
	}

	if err := c.store.Append(sess, func(w storage.Writer) error {
		return w.Delete(SlotActive)
	}); err != nil {
		return Session{}, err
	}

	c.logger.Info("clocked out",
		"start", FormatTimestamp(sess.Start),
		"end", FormatTimestamp(sess.End),
		"duration_ms", sess.DurationMillis())
	return sess, nil
}

// Cancel discards a pending clock-in without recording a session.
func (c *Clock) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.active(); !ok {
		return ErrNotClockedIn
	}
	if err := c.slots.Delete(SlotActive); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	c.logger.Info("clock-in cancelled")
	return nil
}
