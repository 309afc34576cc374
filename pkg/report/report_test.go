package report

import (
	"strings"
	"testing"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 2024-01-10. The Sunday-first week is 1/7/2024 - 1/13/2024.
var now = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func mustSession(t *testing.T, start, end string) session.Session {
	t.Helper()
	s, err := session.ParseTimestamp(start)
	require.NoError(t, err)
	e, err := session.ParseTimestamp(end)
	require.NoError(t, err)
	sess, err := session.New(s, e)
	require.NoError(t, err)
	return sess
}

func TestBuildWeekBounds(t *testing.T) {
	r := Build(nil, now, DefaultOptions())

	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), r.WeekStart)
	assert.Equal(t, time.Date(2024, 1, 13, 23, 59, 59, 999_000_000, time.UTC), r.WeekEnd)
	assert.Equal(t, "1/7/2024 - 1/13/2024", r.WeekLabel)
	assert.Equal(t, "Weekly Coding Report - 1/7/2024 - 1/13/2024", r.Title())
	assert.Equal(t, "Sunday", r.DayNames[0])
	assert.Empty(t, r.DetailRows)
	assert.Zero(t, r.ChartSeries.Total())
}

func TestBuildExcludesPreviousWeek(t *testing.T) {
	inWeek := mustSession(t, "2024-01-08T09:00:00Z", "2024-01-08T11:30:00Z")
	lastWeek := mustSession(t, "2024-01-01T09:00:00Z", "2024-01-01T17:00:00Z")

	r := Build([]session.Session{lastWeek, inWeek}, now, DefaultOptions())

	require.Len(t, r.DetailRows, 1)
	assert.Equal(t, inWeek.Start, r.DetailRows[0].Start)
	assert.Equal(t, aggregator.Hours{0, 2.5, 0, 0, 0, 0, 0}, r.ChartSeries)
}

func TestBuildBoundaryInclusion(t *testing.T) {
	first := mustSession(t, "2024-01-07T00:00:00Z", "2024-01-07T01:00:00Z")
	last := mustSession(t, "2024-01-13T23:59:59.999Z", "2024-01-14T01:00:00Z")
	after := mustSession(t, "2024-01-14T00:00:00Z", "2024-01-14T01:00:00Z")
	before := mustSession(t, "2024-01-06T23:59:59.999Z", "2024-01-07T02:00:00Z")

	r := Build([]session.Session{after, last, before, first}, now, DefaultOptions())

	require.Len(t, r.DetailRows, 2)
	// Store order is kept.
	assert.Equal(t, last.Start, r.DetailRows[0].Start)
	assert.Equal(t, first.Start, r.DetailRows[1].Start)
	assert.InDelta(t, 1.0, r.ChartSeries[0], 1e-9)
	assert.InDelta(t, float64(last.DurationMillis())/3.6e6, r.ChartSeries[6], 1e-9)
}

func TestBuildSeriesMatchesRows(t *testing.T) {
	sessions := []session.Session{
		mustSession(t, "2024-01-07T10:00:00Z", "2024-01-07T12:00:00Z"),
		mustSession(t, "2024-01-09T10:00:00Z", "2024-01-09T10:45:00Z"),
		mustSession(t, "2024-01-12T22:00:00Z", "2024-01-13T01:00:00Z"),
		mustSession(t, "2023-12-30T10:00:00Z", "2023-12-30T12:00:00Z"),
	}

	r := Build(sessions, now, DefaultOptions())

	var rowHours float64
	for _, row := range r.DetailRows {
		rowHours += float64(row.DurationMillis) / 3.6e6
	}
	assert.InDelta(t, rowHours, r.ChartSeries.Total(), 1e-9)
	assert.Len(t, r.DetailRows, 3)
}

func TestBuildMondayWeek(t *testing.T) {
	r := Build(nil, now, Options{WeekStart: aggregator.Monday})

	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), r.WeekStart)
	assert.Equal(t, "1/8/2024 - 1/14/2024", r.WeekLabel)
	assert.Equal(t, "Monday", r.DayNames[0])
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"default", "", "weekly-coding-report-172024-1132024.pdf"},
		{"iso", "2006-01-02", "weekly-coding-report-20240107-20240113.pdf"},
		{"dotted", "02.01.2006", "weekly-coding-report-07012024-13012024.pdf"},
		{"month name", "Jan 2 2006", "weekly-coding-report-Jan72024-Jan132024.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(nil, now, Options{DateFormat: tt.format, WeekStart: aggregator.Sunday})
			got := r.Filename()
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.ContainsAny(got, `/\ :`))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00"},
		{59_999, "00:00"},
		{60_000, "00:01"},
		{2*3_600_000 + 30*60_000, "02:30"},
		{25 * 3_600_000, "25:00"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.ms), "FormatDuration(%d)", tt.ms)
	}
}

func TestRowLine(t *testing.T) {
	s := mustSession(t, "2024-01-08T09:00:00Z", "2024-01-08T11:30:00Z")
	r := Build([]session.Session{s}, now, DefaultOptions())

	require.Len(t, r.DetailRows, 1)
	assert.Equal(t,
		"2024-01-08T09:00:00.000Z - 2024-01-08T11:30:00.000Z (02:30)",
		r.DetailRows[0].Line())
}
