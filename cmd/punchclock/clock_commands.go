package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/monitor"
	"github.com/0xmhha/punchclock/pkg/session"
)

func newInCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "in",
		Short: "Clock in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			start, err := a.clock.ClockIn()
			if errors.Is(err, session.ErrAlreadyClockedIn) {
				return fmt.Errorf("%w since %s", err, a.clockTime(start))
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Clocked in at %s\n", a.clockTime(start))
			return err
		},
	}
}

func newOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "out",
		Short: "Clock out and record the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			s, err := a.clock.ClockOut()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Clocked out at %s after %s\n",
				a.clockTime(s.End), display.FormatHoursMinutes(s.Duration()))
			return err
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard the pending clock-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			if err := a.clock.Cancel(); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Clock-in cancelled")
			return err
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the clock state and today's and this week's totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			f, err := a.formatter(format)
			if err != nil {
				return err
			}
			ws, err := a.cfg.ChartWeekStart()
			if err != nil {
				return err
			}

			snap := monitor.Snapshot{Sessions: a.store.All()}
			snap.Since, snap.Active = a.clock.Active()

			update := monitor.NewUpdate(snap, a.currentTime(), ws)
			return f.FormatStatus(cmd.OutOrStdout(), update.Status)
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	return cmd
}

func newTodayCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "List the sessions started today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			f, err := a.formatter(format)
			if err != nil {
				return err
			}

			today := slices.Collect(a.store.TodaysSessions(a.currentTime()))
			return f.FormatToday(cmd.OutOrStdout(), today)
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	return cmd
}

func newWeekCmd(a *app) *cobra.Command {
	var format, weekStart string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Chart the hours worked per day of the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			f, err := a.formatter(format)
			if err != nil {
				return err
			}

			ws, err := a.cfg.ChartWeekStart()
			if err != nil {
				return err
			}
			if weekStart != "" {
				if ws, err = aggregator.ParseWeekStart(weekStart); err != nil {
					return err
				}
			}

			view := display.NewWeekView(a.store.All(), a.currentTime(), ws)
			return f.FormatWeek(cmd.OutOrStdout(), view)
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	cmd.Flags().StringVar(&weekStart, "week-start", "", "first day of the week (monday, sunday)")
	return cmd
}

// addFormatFlag registers the --format flag shared by the read commands.
func addFormatFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVarP(p, "format", "f", "", "output format (table, json, simple)")
}
