package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/charmbracelet/lipgloss"
)

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	// Set defaults.
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = 40
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "15:04:05"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// FormatHoursMinutes renders d as "Xh Ym". Hours are not wrapped at 24.
func FormatHoursMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dh %dm", int64(d/time.Hour), int64(d%time.Hour/time.Minute))
}

// FormatElapsed renders d as a running timer, HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d",
		int64(d/time.Hour),
		int64(d%time.Hour/time.Minute),
		int64(d%time.Minute/time.Second))
}

// formatFloat formats a float with specified precision.
func formatFloat(f float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, f)
}

// sessionLine renders "start - end (Xh Ym)" in the configured zone.
func sessionLine(cfg Config, s session.Session) string {
	return fmt.Sprintf("%s - %s (%s)",
		s.Start.In(cfg.Location).Format(cfg.TimeFormat),
		s.End.In(cfg.Location).Format(cfg.TimeFormat),
		FormatHoursMinutes(s.Duration()))
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", lipgloss.Width(title)))
	return err
}
