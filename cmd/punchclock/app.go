package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/0xmhha/punchclock/pkg/config"
	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/export"
	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/report"
	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/0xmhha/punchclock/pkg/storage"
)

// app holds the state shared by all commands. Components are created
// lazily so that commands such as "version" never touch the database.
type app struct {
	configPath string

	cfg *config.Config
	log logger.Logger
	loc *time.Location

	slots *storage.Bolt
	store *session.Store
	clock *session.Clock

	// Environment hooks, replaced in tests.
	now              func() time.Time
	stdinIsTerminal  func() bool
	stdoutIsTerminal func() bool
	confirm          func(title string) (bool, error)
}

func newApp() *app {
	return &app{
		now: time.Now,
		stdinIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		stdoutIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd())
		},
		confirm: confirmPrompt,
	}
}

// loadConfig loads the configuration and creates the logger.
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loc = loc
	a.log = logger.New(cfg.Logging.Logger())
	return nil
}

// open loads the configuration and opens the session database.
func (a *app) open() error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if a.slots != nil {
		return nil
	}

	slots, err := storage.Open(storage.Config{
		DBPath:  a.cfg.Storage.DBPath,
		Timeout: a.cfg.Storage.Timeout,
	}, a.log)
	if err != nil {
		return fmt.Errorf("failed to open session database (is another punchclock running?): %w", err)
	}

	a.slots = slots
	a.store = session.NewStore(slots, a.log)
	a.clock = session.NewClock(slots, a.store, a.log, session.WithNow(a.now))
	return nil
}

// close releases the database.
func (a *app) close() {
	if a.slots == nil {
		return
	}
	if err := a.slots.Close(); err != nil {
		a.log.Error("failed to close session database", "error", err)
	}
	a.slots = nil
}

// currentTime returns now in the configured zone.
func (a *app) currentTime() time.Time {
	return a.now().In(a.loc)
}

// clockTime renders t as a clock time in the configured zone.
func (a *app) clockTime(t time.Time) string {
	return t.In(a.loc).Format(a.cfg.Display.TimeFormat)
}

// formatter returns a display formatter; an empty format selects the
// configured default.
func (a *app) formatter(format string) (display.Formatter, error) {
	if format == "" {
		format = a.cfg.Display.Format
	}

	f := display.Format(format)
	switch f {
	case display.FormatTable, display.FormatJSON, display.FormatSimple:
	default:
		return nil, fmt.Errorf("invalid format %q: must be table, json, or simple", format)
	}

	return display.New(display.Config{
		Format:       f,
		ColorEnabled: a.cfg.Display.ColorEnabled && a.stdoutIsTerminal(),
		BarWidth:     a.cfg.Display.BarWidth,
		TimeFormat:   a.cfg.Display.TimeFormat,
		Location:     a.loc,
	}), nil
}

// exporter wires the report exporter writing to dir, or to the
// configured directory when dir is empty.
func (a *app) exporter(dir string) (*export.Exporter, error) {
	if dir == "" {
		dir = a.cfg.Report.OutputDir
	}

	ws, err := a.cfg.ReportWeekStart()
	if err != nil {
		return nil, err
	}

	renderer := export.NewChartRenderer(export.ChartConfig{
		Width:  a.cfg.Report.ChartWidth,
		Height: a.cfg.Report.ChartHeight,
	})

	return export.New(export.Config{
		OutputDir: storage.ExpandHome(dir),
		Report: &report.Options{
			DateFormat: a.cfg.Report.DateFormat,
			WeekStart:  ws,
		},
	}, renderer, export.NewPDFComposer(), a.log), nil
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
