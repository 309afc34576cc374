// Package main provides the punchclock CLI application.
//
// punchclock is a clock-in/clock-out time tracker. It keeps completed work
// sessions in a local database, charts the hours of the current week and
// exports a weekly PDF report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	a := newApp()
	defer a.close()

	return newRootCmd(a).Execute()
}

// newRootCmd creates the top-level "punchclock" command and registers all
// subcommands against a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "punchclock",
		Short: "Clock in, clock out, and report the hours of the week",
		Long: `punchclock records work sessions between a clock-in and a clock-out,
charts the hours worked per day of the current week and exports a weekly
PDF report with the session details.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to configuration file")
	root.SetVersionTemplate("punchclock {{.Version}}\n")

	root.AddCommand(
		newInCmd(a),
		newOutCmd(a),
		newCancelCmd(a),
		newStatusCmd(a),
		newTodayCmd(a),
		newWeekCmd(a),
		newExportCmd(a),
		newClearCmd(a),
		newImportCmd(a),
		newWatchCmd(a),
		newUICmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "punchclock %s\n", version)
			return err
		},
	}
}
