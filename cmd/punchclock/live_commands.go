package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/monitor"
	"github.com/0xmhha/punchclock/pkg/storage"
	"github.com/0xmhha/punchclock/pkg/tui"
	"github.com/0xmhha/punchclock/pkg/watcher"
)

// Width of a chart line besides the bar: label, gaps and the value.
const chartLineOverhead = 16

func newWatchCmd(a *app) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the week that follows the database",
		Long: `Watch redraws the weekly chart, today's sessions and the clock whenever
the session database changes, for example after "punchclock out" in
another terminal. The database is opened read-only on each reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			return a.runWatch(cmd.Context(), cmd.OutOrStdout(), !history)
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "keep history of updates (append mode)")
	return cmd
}

func (a *app) runWatch(ctx context.Context, out io.Writer, clearScreen bool) error {
	ws, err := a.cfg.ChartWeekStart()
	if err != nil {
		return err
	}

	// Quiet mode for live monitoring: only errors reach the screen.
	log := logger.New(logger.Config{
		Level:  "error",
		Format: a.cfg.Logging.Format,
		Output: a.cfg.Logging.Output,
	})

	dbPath := storage.ExpandHome(a.cfg.Storage.DBPath)

	// The watch is on the directory; the database itself may not exist yet.
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: a.cfg.Watch.Debounce,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Error("failed to close watcher", "error", err)
		}
	}()

	mon, err := monitor.New(monitor.Config{
		Files:           []string{dbPath},
		RefreshInterval: a.cfg.Watch.RefreshInterval,
		WeekStart:       ws,
		Now:             a.currentTime,
	}, w, monitor.StorageLoader(dbPath, a.cfg.Storage.Timeout, log), log)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer func() {
		if err := mon.Close(); err != nil {
			log.Error("failed to close monitor", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mon.Start(ctx); err != nil {
		return err
	}

	interactive := clearScreen && a.stdoutIsTerminal()
	f := display.New(display.Config{
		Format:       display.FormatTable,
		ColorEnabled: a.cfg.Display.ColorEnabled && a.stdoutIsTerminal(),
		BarWidth:     a.watchBarWidth(),
		TimeFormat:   a.cfg.Display.TimeFormat,
		Location:     a.loc,
		Compact:      true,
	})

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStopping watch...")
			if err := mon.Stop(); err != nil {
				log.Error("failed to stop monitor", "error", err)
			}
			return nil

		case update, ok := <-mon.Updates():
			if !ok {
				return nil
			}
			if err := renderUpdate(out, f, update, interactive); err != nil {
				return err
			}
		}
	}
}

// watchBarWidth fits the configured bar width into the terminal.
func (a *app) watchBarWidth() int {
	width := a.cfg.Display.BarWidth
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return width
	}
	if fit := cols - chartLineOverhead; fit > 0 && fit < width {
		return fit
	}
	return width
}

// renderUpdate draws one monitor update. With clearScreen the previous
// frame is replaced; otherwise frames are appended.
func renderUpdate(w io.Writer, f display.Formatter, u monitor.Update, clearScreen bool) error {
	var b strings.Builder

	if clearScreen {
		b.WriteString("\033[2J\033[H")
	}

	fmt.Fprintf(&b, "punchclock watch - %s - Press Ctrl+C to stop\n", u.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	if err := f.FormatStatus(&b, u.Status); err != nil {
		return err
	}
	b.WriteString("\n")
	if err := f.FormatWeek(&b, u.Week); err != nil {
		return err
	}
	b.WriteString("\n")
	if err := f.FormatToday(&b, u.Today); err != nil {
		return err
	}
	if u.NewSessions > 0 {
		fmt.Fprintf(&b, "\n+%d new session(s)\n", u.NewSessions)
	}
	if !clearScreen {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI",
		Long: `UI shows the weekly chart and today's sessions with single-key controls:
i clock in, o clock out, e export, c clear (y confirms), q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			ws, err := a.cfg.ChartWeekStart()
			if err != nil {
				return err
			}
			exp, err := a.exporter("")
			if err != nil {
				return err
			}

			model := tui.New(tui.Config{
				WeekStart:    ws,
				ColorEnabled: a.cfg.Display.ColorEnabled,
				BarWidth:     a.cfg.Display.BarWidth,
				TimeFormat:   a.cfg.Display.TimeFormat,
				Location:     a.loc,
				TickInterval: a.cfg.Watch.RefreshInterval,
				Now:          a.currentTime,
			}, a.clock, a.store, exp)

			_, err = tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}
