// Package config provides configuration management for punchclock.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables, including a .env file in the working directory
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("database: %s\n", cfg.Storage.DBPath)
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/logger"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Storage.DBPath is not empty and Storage.Timeout > 0
// - Week.ChartStart and Week.ReportStart name a supported week start
// - Report.DateFormat is not empty, chart dimensions are > 0
// - Watch.Debounce and Watch.RefreshInterval are > 0
// - Timezone is empty, "Local" or a loadable IANA name.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Week conventions
	Week WeekConfig `yaml:"week"`

	// Report export settings
	Report ReportConfig `yaml:"report"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Watch mode settings
	Watch WatchConfig `yaml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Timezone used for calendar days (empty means the host zone)
	Timezone string `yaml:"timezone"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to BoltDB database file
	DBPath string `yaml:"db_path"`

	// How long to wait for the database lock
	Timeout time.Duration `yaml:"timeout"`
}

// WeekConfig selects the first day of the week per surface.
type WeekConfig struct {
	// On-screen chart (monday or sunday)
	ChartStart string `yaml:"chart_start"`

	// Exported report (monday or sunday)
	ReportStart string `yaml:"report_start"`
}

// ReportConfig contains report export settings.
type ReportConfig struct {
	// Directory the report file is written to
	OutputDir string `yaml:"output_dir"`

	// Go layout for the dates in the report title and filename
	DateFormat string `yaml:"date_format"`

	// Chart image size in pixels
	ChartWidth  int `yaml:"chart_width"`
	ChartHeight int `yaml:"chart_height"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Output format (table, json, simple)
	Format string `yaml:"format"`

	// Enable colored output
	ColorEnabled bool `yaml:"color_enabled"`

	// Width of the longest bar in cells
	BarWidth int `yaml:"bar_width"`

	// Go layout for clock times
	TimeFormat string `yaml:"time_format"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	// Debounce window for database change events
	Debounce time.Duration `yaml:"debounce"`

	// How often the elapsed time is redrawn
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Logger returns the logger configuration.
func (c LoggingConfig) Logger() logger.Config {
	return logger.Config{
		Level:  c.Level,
		Output: c.Output,
		Format: c.Format,
	}
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns the first violated invariant as a sentinel error, possibly
// wrapped with the offending value.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	// Validate storage config
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		return ErrNoDBPath
	}
	if c.Storage.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Validate week config
	if _, err := c.ChartWeekStart(); err != nil {
		return err
	}
	if _, err := c.ReportWeekStart(); err != nil {
		return err
	}

	// Validate report config
	if strings.TrimSpace(c.Report.DateFormat) == "" {
		return ErrInvalidDateFormat
	}
	if c.Report.ChartWidth <= 0 || c.Report.ChartHeight <= 0 {
		return ErrInvalidChartSize
	}

	// Validate display config
	validFormats := map[display.Format]bool{
		display.FormatTable:  true,
		display.FormatJSON:   true,
		display.FormatSimple: true,
	}
	if !validFormats[display.Format(c.Display.Format)] {
		return ErrInvalidDisplayFormat
	}
	if c.Display.BarWidth <= 0 {
		return ErrInvalidBarWidth
	}

	// Validate watch config
	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}
	if c.Watch.RefreshInterval <= 0 {
		return ErrInvalidRefreshRate
	}

	// Validate logging config
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// ChartWeekStart returns the first day of the on-screen week.
func (c *Config) ChartWeekStart() (aggregator.WeekStart, error) {
	ws, err := aggregator.ParseWeekStart(c.Week.ChartStart)
	if err != nil {
		return ws, fmt.Errorf("%w: chart_start %q", ErrInvalidWeekStart, c.Week.ChartStart)
	}
	return ws, nil
}

// ReportWeekStart returns the first day of the exported week.
func (c *Config) ReportWeekStart() (aggregator.WeekStart, error) {
	ws, err := aggregator.ParseWeekStart(c.Week.ReportStart)
	if err != nil {
		return ws, fmt.Errorf("%w: report_start %q", ErrInvalidWeekStart, c.Week.ReportStart)
	}
	return ws, nil
}

// Location resolves Timezone. Empty and "Local" select the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	return loc, nil
}

// Default returns a configuration with sensible default values.
//
// The chart week starts on Monday and the report week on Sunday; both
// surfaces keep their historical conventions.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			Timeout: 1 * time.Second,
		},
		Week: WeekConfig{
			ChartStart:  aggregator.Monday.String(),
			ReportStart: aggregator.Sunday.String(),
		},
		Report: ReportConfig{
			OutputDir:  ".",
			DateFormat: "1/2/2006",
			ChartWidth: 800,
			// 2:1 matches the 170x85mm slot in the document.
			ChartHeight: 400,
		},
		Display: DisplayConfig{
			Format:       string(display.FormatTable),
			ColorEnabled: true,
			BarWidth:     40,
			TimeFormat:   "15:04:05",
		},
		Watch: WatchConfig{
			Debounce:        100 * time.Millisecond,
			RefreshInterval: 1 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
