package display

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/charmbracelet/lipgloss"
)

// Teal bars, matching the exported chart.
var (
	colorBar    = lipgloss.Color("#4bc0c0")
	colorDim    = lipgloss.Color("#928374")
	colorActive = lipgloss.Color("#8ec07c")

	styleBar    = lipgloss.NewStyle().Foreground(colorBar)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleActive = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	styleHeader = lipgloss.NewStyle().Bold(true)
)

const barCell = "█"

// tableFormatter formats output as bars and aligned columns.
type tableFormatter struct {
	config Config
}

func (f *tableFormatter) style(s lipgloss.Style, text string) string {
	if !f.config.ColorEnabled {
		return text
	}
	return s.Render(text)
}

// FormatWeek implements Formatter.FormatWeek.
func (f *tableFormatter) FormatWeek(w io.Writer, v WeekView) error {
	title := fmt.Sprintf("Hours Worked %s - %s",
		v.Window.Start.Format("Mon Jan 2"),
		v.Window.LastDay().Format("Mon Jan 2"))
	if err := writeHeader(w, f.style(styleHeader, title), f.config.Compact); err != nil {
		return err
	}

	hours := v.Summary.Hours
	top := hours.Max()

	for i, label := range v.Labels {
		cells := 0
		if top > 0 {
			cells = int(math.Round(hours[i] / top * float64(f.config.BarWidth)))
		}
		bar := strings.Repeat(barCell, cells)
		pad := strings.Repeat(" ", f.config.BarWidth-cells)

		if _, err := fmt.Fprintf(w, "%-3s  %s%s  %sh\n",
			label,
			f.style(styleBar, bar),
			pad,
			formatFloat(hours[i], 2)); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s  %sh in %d session(s)\n",
		f.style(styleHeader, "Total"),
		formatFloat(hours.Total(), 2),
		v.Summary.Count)
	return err
}

// FormatToday implements Formatter.FormatToday.
func (f *tableFormatter) FormatToday(w io.Writer, sessions []session.Session) error {
	if err := writeHeader(w, f.style(styleHeader, "Today's Sessions"), f.config.Compact); err != nil {
		return err
	}

	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, f.style(styleDim, "No sessions today"))
		return err
	}

	var total time.Duration
	for _, s := range sessions {
		total += s.Duration()
		if _, err := fmt.Fprintf(w, "  %s\n", sessionLine(f.config, s)); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s  %s\n", f.style(styleHeader, "Total"), FormatHoursMinutes(total))
	return err
}

// FormatStatus implements Formatter.FormatStatus.
func (f *tableFormatter) FormatStatus(w io.Writer, s Status) error {
	var rows [][]string
	if s.Active {
		rows = append(rows,
			[]string{"Status", f.style(styleActive, "clocked in")},
			[]string{"Since", s.Since.In(f.config.Location).Format(f.config.TimeFormat)},
			[]string{"Elapsed", FormatElapsed(s.Elapsed)},
		)
	} else {
		rows = append(rows, []string{"Status", f.style(styleDim, "clocked out")})
	}

	rows = append(rows,
		[]string{"Today", FormatHoursMinutes(s.Today)},
		[]string{"This week", FormatHoursMinutes(s.Week)},
	)

	return f.writeTable(w, rows)
}

// writeTable writes label/value rows with the labels padded to one width.
func (f *tableFormatter) writeTable(w io.Writer, rows [][]string) error {
	width := 0
	for _, row := range rows {
		if l := lipgloss.Width(row[0]); l > width {
			width = l
		}
	}

	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	for _, row := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(row[0]))
		if _, err := fmt.Fprintf(w, "%s%s%s%s\n", row[0], pad, gap, row[1]); err != nil {
			return err
		}
	}
	return nil
}
