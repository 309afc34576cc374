package session

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultySlots wraps a Slots and fails reads or writes on demand.
type faultySlots struct {
	storage.Slots
	failGet    bool
	failUpdate bool
}

var errDisk = errors.New("disk on fire")

func (f *faultySlots) Get(key string) ([]byte, error) {
	if f.failGet {
		return nil, errDisk
	}
	return f.Slots.Get(key)
}

func (f *faultySlots) Put(key string, value []byte) error {
	return f.Update(func(w storage.Writer) error { return w.Put(key, value) })
}

func (f *faultySlots) Delete(key string) error {
	return f.Update(func(w storage.Writer) error { return w.Delete(key) })
}

func (f *faultySlots) Update(mutations ...storage.Mutation) error {
	if f.failUpdate {
		return errDisk
	}
	return f.Slots.Update(mutations...)
}

func newSession(t *testing.T, start, end string) Session {
	t.Helper()
	s, err := New(mustTime(t, start), mustTime(t, end))
	require.NoError(t, err)
	return s
}

func openBoltStore(t *testing.T, path string) (*Store, *storage.Bolt) {
	t.Helper()
	slots, err := storage.Open(storage.Config{DBPath: path}, logger.Noop())
	require.NoError(t, err)
	return NewStore(slots, logger.Noop()), slots
}

func TestAppendThenAll(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())

	first := newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	second := newSession(t, "2024-01-01T11:00:00Z", "2024-01-01T13:30:00Z")

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, second, all[len(all)-1])
	assert.Equal(t, int64(150*60*1000), all[1].DurationMillis())
	assert.Equal(t, 2, store.Len())
}

func TestAppendRejectsInvalidSession(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())
	require.NoError(t, store.Append(newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")))
	before := store.All()

	bad := Session{
		Start: mustTime(t, "2024-01-01T17:00:00Z"),
		End:   mustTime(t, "2024-01-01T09:00:00Z"),
	}
	err := store.Append(bad)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, before, store.All())
}

func TestAllReturnsCopy(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())
	require.NoError(t, store.Append(newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")))

	all := store.All()
	all[0] = Session{}

	assert.NotEqual(t, Session{}, store.All()[0])
}

func TestAppendWriteFailureLeavesStoreUnchanged(t *testing.T) {
	slots := &faultySlots{Slots: storage.NewMemory()}
	store := NewStore(slots, logger.Noop())
	require.NoError(t, store.Append(newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")))

	slots.failUpdate = true
	err := store.Append(newSession(t, "2024-01-01T11:00:00Z", "2024-01-01T12:00:00Z"))

	require.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.Len(t, store.All(), 1)
}

func TestHydrateFromPersistedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchclock.db")

	store, slots := openBoltStore(t, path)
	s := newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T17:00:00Z")
	require.NoError(t, store.Append(s))
	require.NoError(t, slots.Close())

	reloaded, slots := openBoltStore(t, path)
	defer slots.Close()

	assert.Equal(t, []Session{s}, reloaded.All())
}

func TestHydrateRecoversToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		slots func() storage.Slots
	}{
		{
			name:  "absent snapshot",
			slots: func() storage.Slots { return storage.NewMemory() },
		},
		{
			name: "unparseable snapshot",
			slots: func() storage.Slots {
				m := storage.NewMemory()
				_ = m.Put(SlotSessions, []byte(`{not json`))
				return m
			},
		},
		{
			name: "invalid record in snapshot",
			slots: func() storage.Slots {
				m := storage.NewMemory()
				_ = m.Put(SlotSessions, []byte(`[{"start":"2024-01-01T10:00:00.000Z","end":"2024-01-01T09:00:00.000Z"}]`))
				return m
			},
		},
		{
			name: "read failure",
			slots: func() storage.Slots {
				return &faultySlots{Slots: storage.NewMemory(), failGet: true}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.slots(), logger.Noop())
			assert.Empty(t, store.All())
		})
	}
}

func TestClearErasesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchclock.db")

	store, slots := openBoltStore(t, path)
	require.NoError(t, store.Append(newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")))
	require.NoError(t, store.Clear())
	assert.Empty(t, store.All())
	require.NoError(t, slots.Close())

	reloaded, slots := openBoltStore(t, path)
	defer slots.Close()
	assert.Empty(t, reloaded.All())

	raw, err := slots.Get(SlotSessions)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClearWriteFailureKeepsHistory(t *testing.T) {
	slots := &faultySlots{Slots: storage.NewMemory()}
	store := NewStore(slots, logger.Noop())
	require.NoError(t, store.Append(newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")))

	slots.failUpdate = true
	require.ErrorIs(t, store.Clear(), ErrPersistenceUnavailable)
	assert.Len(t, store.All(), 1)
}

func TestImportIsAllOrNothing(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())

	good := newSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	bad := Session{Start: mustTime(t, "2024-01-02T10:00:00Z"), End: mustTime(t, "2024-01-02T09:00:00Z")}

	require.ErrorIs(t, store.Import([]Session{good, bad}), ErrInvalidInterval)
	assert.Empty(t, store.All())

	require.NoError(t, store.Import([]Session{good, good}))
	assert.Len(t, store.All(), 2)

	require.NoError(t, store.Import(nil))
	assert.Len(t, store.All(), 2)
}

func TestTodaysSessions(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())

	today1 := newSession(t, "2024-01-03T15:00:00Z", "2024-01-03T16:00:00Z")
	yesterday := newSession(t, "2024-01-02T09:00:00Z", "2024-01-02T10:00:00Z")
	today2 := newSession(t, "2024-01-03T08:00:00Z", "2024-01-03T09:00:00Z")
	for _, s := range []Session{today1, yesterday, today2} {
		require.NoError(t, store.Append(s))
	}

	now := mustTime(t, "2024-01-03T20:00:00Z")
	seq := store.TodaysSessions(now)

	// Store order, not start order.
	assert.Equal(t, []Session{today1, today2}, slices.Collect(seq))
	// Restartable.
	assert.Equal(t, []Session{today1, today2}, slices.Collect(seq))
}

func TestTodaysSessionsStopsEarly(t *testing.T) {
	store := NewStore(storage.NewMemory(), logger.Noop())
	for i := 0; i < 3; i++ {
		start := time.Date(2024, 1, 3, 9+i, 0, 0, 0, time.UTC)
		s, err := New(start, start.Add(30*time.Minute))
		require.NoError(t, err)
		require.NoError(t, store.Append(s))
	}

	count := 0
	for range store.TodaysSessions(time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC)) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
