package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/punchclock/pkg/session"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatWeek implements Formatter.FormatWeek.
func (f *simpleFormatter) FormatWeek(w io.Writer, v WeekView) error {
	for i, label := range v.Labels {
		if _, err := fmt.Fprintf(w, "%s: %s\n", label, formatFloat(v.Summary.Hours[i], 2)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", formatFloat(v.Summary.Hours.Total(), 2))
	return err
}

// FormatToday implements Formatter.FormatToday.
func (f *simpleFormatter) FormatToday(w io.Writer, sessions []session.Session) error {
	for _, s := range sessions {
		if _, err := fmt.Fprintln(w, sessionLine(f.config, s)); err != nil {
			return err
		}
	}
	return nil
}

// FormatStatus implements Formatter.FormatStatus.
func (f *simpleFormatter) FormatStatus(w io.Writer, s Status) error {
	if !s.Active {
		_, err := fmt.Fprintf(w, "clocked out | today: %s | week: %s\n",
			FormatHoursMinutes(s.Today),
			FormatHoursMinutes(s.Week))
		return err
	}

	_, err := fmt.Fprintf(w, "clocked in since %s (%s) | today: %s | week: %s\n",
		s.Since.In(f.config.Location).Format(f.config.TimeFormat),
		FormatElapsed(s.Elapsed),
		FormatHoursMinutes(s.Today),
		FormatHoursMinutes(s.Week))
	return err
}
