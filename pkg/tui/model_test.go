package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/punchclock/pkg/export"
	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/0xmhha/punchclock/pkg/storage"
)

type fakeExporter struct {
	mu       sync.Mutex
	calls    int
	sessions []session.Session
	err      error
}

func (f *fakeExporter) Export(ctx context.Context, sessions []session.Session, now time.Time) (export.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sessions = sessions
	if f.err != nil {
		return export.Result{}, f.err
	}
	return export.Result{Path: "/tmp/weekly-coding-report.pdf"}, nil
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	model    Model
	store    *session.Store
	exporter *fakeExporter
	time     *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tc := &testClock{now: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)}
	slots := storage.NewMemory()
	store := session.NewStore(slots, logger.Noop())
	clock := session.NewClock(slots, store, logger.Noop(), session.WithNow(tc.Now))
	exp := &fakeExporter{}

	m := New(Config{Location: time.UTC, Now: tc.Now}, clock, store, exp)
	return &fixture{model: m, store: store, exporter: exp, time: tc}
}

func (f *fixture) press(t *testing.T, keys string) tea.Cmd {
	t.Helper()
	model, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	f.model = model.(Model)
	return cmd
}

func TestClockInOut(t *testing.T) {
	f := newFixture(t)

	require.Nil(t, f.press(t, "i"))
	assert.Equal(t, "Clocked in at 09:00:00", f.model.Status())
	assert.Contains(t, f.model.View(), "Clocked in since 09:00:00")

	f.time.Advance(90 * time.Minute)
	require.Nil(t, f.press(t, "o"))
	assert.Equal(t, "Clocked out after 1h 30m", f.model.Status())

	require.Equal(t, 1, f.store.Len())
	view := f.model.View()
	assert.Contains(t, view, "Clocked out")
	assert.Contains(t, view, "09:00:00 - 10:30:00 (1h 30m)")
}

func TestClockErrorsBecomeStatus(t *testing.T) {
	f := newFixture(t)

	f.press(t, "o")
	assert.Equal(t, "Error: not clocked in", f.model.Status())

	f.press(t, "i")
	f.time.Advance(time.Minute)
	f.press(t, "i")
	assert.Equal(t, "Error: already clocked in since 09:00:00", f.model.Status())
	assert.Contains(t, f.model.View(), "Error: already clocked in")
}

func TestTickUpdatesElapsed(t *testing.T) {
	f := newFixture(t)
	f.press(t, "i")

	f.time.Advance(65 * time.Second)
	model, cmd := f.model.Update(tickMsg{})
	f.model = model.(Model)

	assert.NotNil(t, cmd, "tick must reschedule")
	assert.Contains(t, f.model.View(), "00:01:05")
}

func TestExportRunsInBackground(t *testing.T) {
	f := newFixture(t)
	f.press(t, "i")
	f.time.Advance(time.Hour)
	f.press(t, "o")

	cmd := f.press(t, "e")
	require.NotNil(t, cmd)
	assert.True(t, f.model.Exporting())
	assert.Equal(t, "Exporting report...", f.model.Status())
	assert.Contains(t, f.model.View(), "exporting...")

	// The trigger is ignored while an export is in flight.
	assert.Nil(t, f.press(t, "e"))

	msg := cmd()
	model, _ := f.model.Update(msg)
	f.model = model.(Model)

	assert.False(t, f.model.Exporting())
	assert.Equal(t, "Report saved to /tmp/weekly-coding-report.pdf", f.model.Status())
	assert.Equal(t, 1, f.exporter.calls)
	assert.Len(t, f.exporter.sessions, 1)
}

func TestExportFailureBecomesStatus(t *testing.T) {
	f := newFixture(t)
	f.exporter.err = export.ErrRenderingDependencyMissing

	cmd := f.press(t, "e")
	require.NotNil(t, cmd)
	model, _ := f.model.Update(cmd())
	f.model = model.(Model)

	assert.False(t, f.model.Exporting())
	assert.True(t, strings.HasPrefix(f.model.Status(), "Error: export failed:"))

	// A new export may be started after a failure.
	assert.NotNil(t, f.press(t, "e"))
}

func TestClearConfirmation(t *testing.T) {
	f := newFixture(t)
	f.press(t, "i")
	f.time.Advance(time.Hour)
	f.press(t, "o")
	require.Equal(t, 1, f.store.Len())

	f.press(t, "c")
	assert.Contains(t, f.model.Status(), "(y/N)")

	// Any other key cancels.
	f.press(t, "n")
	assert.Equal(t, "Clear cancelled", f.model.Status())
	assert.Equal(t, 1, f.store.Len())

	// q cancels instead of quitting while confirming.
	f.press(t, "c")
	assert.Nil(t, f.press(t, "q"))
	assert.Equal(t, 1, f.store.Len())

	f.press(t, "c")
	f.press(t, "y")
	assert.Equal(t, "All sessions cleared", f.model.Status())
	assert.Equal(t, 0, f.store.Len())
	assert.Contains(t, f.model.View(), "No sessions today")
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			model, cmd := f.model.Update(tt.msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, model.(Model).View())
		})
	}
}

func TestCtrlCQuitsWhileConfirming(t *testing.T) {
	f := newFixture(t)
	f.press(t, "c")

	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUnknownKeyIgnored(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.press(t, "z"))
	assert.Empty(t, f.model.Status())
}

func TestViewShowsWeek(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s, err := session.New(start, start.Add(8*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.store.Append(s))

	view := f.model.View()
	assert.Contains(t, view, "Hours Worked")
	assert.Contains(t, view, "8.00h")
	assert.Contains(t, view, "i clock in")
}

func TestClearFailure(t *testing.T) {
	f := newFixture(t)
	f.model.history = failingHistory{}

	f.press(t, "c")
	f.press(t, "y")
	assert.Equal(t, "Error: clear failed: disk full", f.model.Status())
}

type failingHistory struct{}

func (failingHistory) All() []session.Session { return nil }
func (failingHistory) Clear() error           { return errors.New("disk full") }
