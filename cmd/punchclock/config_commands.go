package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/punchclock/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigInitCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return showJSON(out, a.cfg)
			case "yaml", "":
				return showYAML(out, a.cfg, a.configSource())
			default:
				return fmt.Errorf("invalid format %q: must be yaml or json", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	return cmd
}

// showYAML displays configuration in YAML format.
func showYAML(w io.Writer, cfg *config.Config, source string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = fmt.Fprintf(w, "# Current Configuration\n# Source: %s\n\n%s", source, data)
	return err
}

// showJSON displays configuration in JSON format.
func showJSON(w io.Writer, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			paths := []string{"./config.yaml", config.DefaultConfigPath()}
			if a.configPath != "" {
				paths = []string{a.configPath}
			} else if env := os.Getenv(config.EnvConfig); env != "" {
				paths = []string{env}
			}

			fmt.Fprintln(out, "Configuration file search paths (in order of precedence):")
			fmt.Fprintln(out)
			for i, p := range paths {
				exists := "not found"
				if _, err := os.Stat(p); err == nil {
					exists = "found"
				}
				fmt.Fprintf(out, "  %d. %s [%s]\n", i+1, p, exists)
			}
			fmt.Fprintln(out)

			_, err := fmt.Fprintln(out, "Active configuration:", a.configSource())
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			outputPath := output
			if outputPath == "" {
				outputPath = a.configPath
			}
			if outputPath == "" {
				outputPath = config.DefaultConfigPath()
			}

			if _, err := os.Stat(outputPath); err == nil && !force {
				if !a.stdinIsTerminal() {
					return fmt.Errorf("configuration file already exists at %s: pass --force to overwrite", outputPath)
				}
				ok, err := a.confirm(fmt.Sprintf("Overwrite %s?", outputPath))
				if err != nil {
					return fmt.Errorf("confirmation failed: %w", err)
				}
				if !ok {
					_, err := fmt.Fprintln(out, "Init cancelled.")
					return err
				}
			}

			if err := config.Save(config.Default(), outputPath); err != nil {
				return err
			}

			_, err := fmt.Fprintf(out, "Default configuration written to: %s\n", outputPath)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file without asking")
	cmd.Flags().StringVar(&output, "output", "", "output path (default: ~/.config/punchclock/config.yaml)")
	return cmd
}

// configSource returns the path of the active configuration file.
func (a *app) configSource() string {
	if p := config.NewLoader(a.configPath).Path(); p != "" {
		return p
	}
	return "defaults (no config file found)"
}
