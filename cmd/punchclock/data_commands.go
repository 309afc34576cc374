package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xmhha/punchclock/pkg/session"
)

// errNotConfirmed is returned by clear when there is no one to ask.
var errNotConfirmed = errors.New("refusing to clear all sessions without confirmation: stdin is not a terminal, pass --yes")

func newExportCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export this week's report as a PDF",
		Long: `Export writes weekly-coding-report-<start>-<end>.pdf with a chart of the
hours coded per day (Sunday to Saturday by default) and one line per session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			exp, err := a.exporter(dir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := exp.Export(ctx, a.store.All(), a.currentTime())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d session(s), %d bytes)\n",
				result.Path, len(result.Report.DetailRows), result.Size)
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from config)")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !a.stdinIsTerminal() {
					return errNotConfirmed
				}
				ok, err := a.confirm("Clear all sessions? This cannot be undone.")
				if err != nil {
					return fmt.Errorf("confirmation failed: %w", err)
				}
				if !ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled")
					return err
				}
			}

			if err := a.open(); err != nil {
				return err
			}

			n := a.store.Len()
			if err := a.store.Clear(); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d session(s)\n", n)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Append sessions from a JSON export",
		Long: `Import appends the sessions of a JSON array of {start, end, duration}
records, such as a dump of the legacy "sessions" local-storage entry.
Malformed records are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			sessions, skipped, err := session.ReadImportFile(args[0])
			if err != nil {
				return err
			}
			for _, rec := range skipped {
				a.log.Warn("skipped record", "index", rec.Index, "error", rec.Err)
			}

			if err := a.store.Import(sessions); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d session(s), skipped %d\n",
				len(sessions), len(skipped))
			return err
		},
	}
}
