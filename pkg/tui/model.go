package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/export"
	"github.com/0xmhha/punchclock/pkg/session"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4bc0c0"))
	styleActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ec07c"))
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934"))
	styleHelp   = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
)

type tickMsg struct{}

// exportDoneMsg carries the outcome of a background export.
type exportDoneMsg struct {
	result export.Result
	err    error
}

// Model is the bubbletea model of the interactive UI.
type Model struct {
	clock    Clock
	history  History
	exporter Exporter
	keys     KeyMap
	config   Config
	format   display.Formatter

	now        time.Time
	exporting  bool
	confirming bool
	status     string
	statusErr  bool
	quitting   bool
}

// New creates the UI model.
func New(cfg Config, clock Clock, history History, exporter Exporter) Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return Model{
		clock:    clock,
		history:  history,
		exporter: exporter,
		keys:     DefaultKeyMap(),
		config:   cfg,
		format: display.New(display.Config{
			Format:       display.FormatTable,
			ColorEnabled: cfg.ColorEnabled,
			BarWidth:     cfg.BarWidth,
			TimeFormat:   cfg.TimeFormat,
			Location:     cfg.Location,
			Compact:      true,
		}),
		now: cfg.Now(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.config.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = m.config.Now()
		return m, m.tick()

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.setError(fmt.Errorf("export failed: %w", msg.err))
		} else {
			m.setStatus("Report saved to " + msg.result.Path)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	m.now = m.config.Now()

	// Any key other than the confirmation cancels a pending clear.
	if m.confirming {
		m.confirming = false
		if !key.Matches(msg, m.keys.Confirm) {
			m.setStatus("Clear cancelled")
			return m, nil
		}
		if err := m.history.Clear(); err != nil {
			m.setError(fmt.Errorf("clear failed: %w", err))
			return m, nil
		}
		m.setStatus("All sessions cleared")
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.ClockIn):
		start, err := m.clock.ClockIn()
		switch {
		case errors.Is(err, session.ErrAlreadyClockedIn):
			m.setError(fmt.Errorf("already clocked in since %s", m.clockTime(start)))
		case err != nil:
			m.setError(err)
		default:
			m.setStatus("Clocked in at " + m.clockTime(start))
		}
		return m, nil

	case key.Matches(msg, m.keys.ClockOut):
		s, err := m.clock.ClockOut()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Clocked out after " + display.FormatHoursMinutes(s.Duration()))
		return m, nil

	case key.Matches(msg, m.keys.Export):
		if m.exporting {
			return m, nil
		}
		m.exporting = true
		m.setStatus("Exporting report...")
		return m, m.exportCmd(m.history.All(), m.now)

	case key.Matches(msg, m.keys.Clear):
		m.confirming = true
		m.setStatus("Clear all sessions? This cannot be undone. (y/N)")
		return m, nil
	}

	return m, nil
}

// exportCmd runs the export off the update loop.
func (m Model) exportCmd(sessions []session.Session, now time.Time) tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		result, err := exporter.Export(context.Background(), sessions, now)
		return exportDoneMsg{result: result, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = "Error: " + err.Error()
	m.statusErr = true
}

func (m Model) clockTime(t time.Time) string {
	format := m.config.TimeFormat
	if format == "" {
		format = "15:04:05"
	}
	return t.In(m.config.Location).Format(format)
}

func (m Model) style(s lipgloss.Style, text string) string {
	if !m.config.ColorEnabled {
		return text
	}
	return s.Render(text)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.style(styleTitle, "punchclock"))
	b.WriteString("\n\n")

	if since, ok := m.clock.Active(); ok {
		b.WriteString(m.style(styleActive, "● Clocked in"))
		fmt.Fprintf(&b, " since %s  %s\n\n", m.clockTime(since), display.FormatElapsed(m.now.Sub(since)))
	} else {
		b.WriteString(m.style(styleIdle, "○ Clocked out"))
		b.WriteString("\n\n")
	}

	sessions := m.history.All()
	week := display.NewWeekView(sessions, m.now, m.config.WeekStart)
	if err := m.format.FormatWeek(&b, week); err != nil {
		fmt.Fprintf(&b, "%v\n", err)
	}
	b.WriteString("\n")

	today := slices.Collect(session.StartedOn(sessions, m.now))
	if err := m.format.FormatToday(&b, today); err != nil {
		fmt.Fprintf(&b, "%v\n", err)
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.style(styleError, m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.style(styleHelp, m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		desc := h.Desc
		if h.Key == m.keys.Export.Help().Key && m.exporting {
			desc = "exporting..."
		}
		parts = append(parts, h.Key+" "+desc)
	}
	return strings.Join(parts, " • ")
}

// Exporting reports whether an export is in flight.
func (m Model) Exporting() bool {
	return m.exporting
}

// Status returns the status line.
func (m Model) Status() string {
	return m.status
}
