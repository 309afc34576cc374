package display

import (
	"encoding/json"
	"io"
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

type jsonDay struct {
	Day   string  `json:"day"`
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type jsonWeek struct {
	WeekStart string    `json:"week_start"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Days      []jsonDay `json:"days"`
	Total     float64   `json:"total_hours"`
	Sessions  int       `json:"sessions"`
}

type jsonStatus struct {
	Active         bool   `json:"active"`
	Since          string `json:"since,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds,omitempty"`
	TodayMinutes   int64  `json:"today_minutes"`
	WeekMinutes    int64  `json:"week_minutes"`
}

func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatWeek implements Formatter.FormatWeek.
func (f *jsonFormatter) FormatWeek(w io.Writer, v WeekView) error {
	out := jsonWeek{
		WeekStart: v.WeekStart.String(),
		From:      v.Window.Start.Format(time.DateOnly),
		To:        v.Window.LastDay().Format(time.DateOnly),
		Days:      make([]jsonDay, len(v.Labels)),
		Total:     v.Summary.Hours.Total(),
		Sessions:  v.Summary.Count,
	}
	for i, label := range v.Labels {
		out.Days[i] = jsonDay{
			Day:   label,
			Date:  v.Window.Day(i).Format(time.DateOnly),
			Hours: v.Summary.Hours[i],
		}
	}
	return f.encode(w, out)
}

// FormatToday implements Formatter.FormatToday.
//
// Sessions use the persisted record shape.
func (f *jsonFormatter) FormatToday(w io.Writer, sessions []session.Session) error {
	if sessions == nil {
		sessions = []session.Session{}
	}
	return f.encode(w, sessions)
}

// FormatStatus implements Formatter.FormatStatus.
func (f *jsonFormatter) FormatStatus(w io.Writer, s Status) error {
	out := jsonStatus{
		Active:       s.Active,
		TodayMinutes: int64(s.Today / time.Minute),
		WeekMinutes:  int64(s.Week / time.Minute),
	}
	if s.Active {
		out.Since = session.FormatTimestamp(s.Since)
		out.ElapsedSeconds = int64(s.Elapsed / time.Second)
	}
	return f.encode(w, out)
}
