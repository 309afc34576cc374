// Package report assembles the weekly report payload: per-day chart
// series, session detail rows and the week label.
//
// A Report is pure data; rendering it to an image or document is done by
// the export package.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/session"
)

// DefaultDateFormat renders dates like 1/7/2024.
const DefaultDateFormat = "1/2/2006"

// SeriesLabel names the chart series.
const SeriesLabel = "Hours Coded"

// FilenamePrefix starts every exported report filename.
const FilenamePrefix = "weekly-coding-report"

// Options controls report assembly.
type Options struct {
	// DateFormat is the Go layout for the week label.
	// Default: DefaultDateFormat.
	DateFormat string

	// WeekStart selects the first day of the reported week.
	// DefaultOptions uses aggregator.Sunday.
	WeekStart aggregator.WeekStart
}

// DefaultOptions returns the options of the exported weekly report.
func DefaultOptions() Options {
	return Options{
		DateFormat: DefaultDateFormat,
		WeekStart:  aggregator.Sunday,
	}
}

// Row is one session detail line.
type Row struct {
	Start          time.Time
	End            time.Time
	DurationMillis int64
}

// Line renders the row as "<start> - <end> (HH:MM)".
func (r Row) Line() string {
	return fmt.Sprintf("%s - %s (%s)",
		session.FormatTimestamp(r.Start),
		session.FormatTimestamp(r.End),
		FormatDuration(r.DurationMillis))
}

// Report is the payload of one weekly export.
type Report struct {
	// ChartSeries holds hours per day, first day of the week first.
	ChartSeries aggregator.Hours

	// DayNames labels ChartSeries.
	DayNames [aggregator.DaysPerWeek]string

	// DetailRows lists the week's sessions in store order.
	DetailRows []Row

	// WeekLabel is "<first day> - <last day>".
	WeekLabel string

	// WeekStart is midnight of the first day.
	WeekStart time.Time

	// WeekEnd is the last millisecond of the last day.
	WeekEnd time.Time

	dateFormat string
}

// Build assembles the report for the week containing now.
//
// A session is included if its start lies in [WeekStart, WeekEnd], both
// ends inclusive. The same sessions feed ChartSeries and DetailRows.
func Build(sessions []session.Session, now time.Time, opts Options) Report {
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultDateFormat
	}

	window := aggregator.WindowFor(now, opts.WeekStart)
	r := Report{
		ChartSeries: aggregator.Summarize(sessions, window).Hours,
		DayNames:    aggregator.DayNames(opts.WeekStart),
		WeekStart:   window.Start,
		WeekEnd:     window.End.Add(-time.Millisecond),
		dateFormat:  opts.DateFormat,
	}
	r.WeekLabel = r.formatDate(r.WeekStart) + " - " + r.formatDate(r.WeekEnd)

	for _, s := range sessions {
		start := s.Start.In(window.Start.Location())
		if start.Before(r.WeekStart) || start.After(r.WeekEnd) {
			continue
		}
		r.DetailRows = append(r.DetailRows, Row{
			Start:          s.Start,
			End:            s.End,
			DurationMillis: s.DurationMillis(),
		})
	}

	return r
}

// Title is the document heading.
func (r Report) Title() string {
	return "Weekly Coding Report - " + r.WeekLabel
}

// Filename returns the export filename, e.g.
// weekly-coding-report-172024-1132024.pdf for 1/7/2024 - 1/13/2024.
//
// Date separators are removed so the name is valid on every filesystem.
func (r Report) Filename() string {
	return fmt.Sprintf("%s-%s-%s.pdf",
		FilenamePrefix,
		sanitizeDate(r.formatDate(r.WeekStart)),
		sanitizeDate(r.formatDate(r.WeekEnd)))
}

func (r Report) formatDate(t time.Time) string {
	layout := r.dateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.Format(layout)
}

// FormatDuration renders milliseconds as HH:MM. Hours are zero-padded
// and not wrapped at 24; seconds are truncated.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

func sanitizeDate(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		default:
			return -1
		}
	}, s)
}
