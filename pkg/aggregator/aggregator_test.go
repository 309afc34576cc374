package aggregator

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/0xmhha/punchclock/pkg/session"
)

func mustSession(t *testing.T, start, end string) session.Session {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	sess, err := session.New(s, e)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	return sess
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Wednesday, 2024-01-03.
var midweek = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

func TestWeeklyHours_MondayScenario(t *testing.T) {
	t.Parallel()

	sessions := []session.Session{
		mustSession(t, "2024-01-01T09:00:00Z", "2024-01-01T17:00:00Z"),
	}

	hours := WeeklyHours(sessions, midweek, Monday)

	want := Hours{8, 0, 0, 0, 0, 0, 0}
	if hours != want {
		t.Errorf("WeeklyHours() = %v, want %v", hours, want)
	}
}

func TestWeeklyHours_SameDayAccumulates(t *testing.T) {
	t.Parallel()

	sessions := []session.Session{
		mustSession(t, "2024-01-02T08:00:00Z", "2024-01-02T10:00:00Z"),
		mustSession(t, "2024-01-02T13:00:00Z", "2024-01-02T16:00:00Z"),
	}

	hours := WeeklyHours(sessions, midweek, Monday)
	if hours[1] != 5.0 {
		t.Errorf("Tuesday = %v, want 5.0", hours[1])
	}
	if hours.Total() != 5.0 {
		t.Errorf("Total() = %v, want 5.0", hours.Total())
	}
}

func TestWeeklyHours_SundayBelongsToPreviousMondayWeek(t *testing.T) {
	t.Parallel()

	sunday := mustSession(t, "2024-01-07T10:00:00Z", "2024-01-07T11:00:00Z")

	monday := WeeklyHours([]session.Session{sunday}, midweek, Monday)
	if monday[6] != 1.0 {
		t.Errorf("Monday-first week: Sun bucket = %v, want 1.0", monday[6])
	}

	// In a Sunday-first week, 2024-01-07 starts the following week.
	sundayFirst := WeeklyHours([]session.Session{sunday}, midweek, Sunday)
	if sundayFirst.Total() != 0 {
		t.Errorf("Sunday-first week: Total() = %v, want 0", sundayFirst.Total())
	}
}

func TestWeeklyHours_ExcludesOtherWeeks(t *testing.T) {
	t.Parallel()

	sessions := []session.Session{
		mustSession(t, "2023-12-27T09:00:00Z", "2023-12-27T12:00:00Z"),
		mustSession(t, "2024-01-08T00:00:00Z", "2024-01-08T01:00:00Z"),
		mustSession(t, "2024-01-03T09:00:00Z", "2024-01-03T09:30:00Z"),
	}

	hours := WeeklyHours(sessions, midweek, Monday)
	if !approxEqual(hours.Total(), 0.5) {
		t.Errorf("Total() = %v, want 0.5", hours.Total())
	}
	if !approxEqual(hours[2], 0.5) {
		t.Errorf("Wednesday = %v, want 0.5", hours[2])
	}
}

func TestWeeklyHours_AttributesWholeSessionToStartDay(t *testing.T) {
	t.Parallel()

	// Runs past midnight into Thursday.
	overnight := mustSession(t, "2024-01-03T22:00:00Z", "2024-01-04T02:00:00Z")

	hours := WeeklyHours([]session.Session{overnight}, midweek, Monday)
	if hours[2] != 4.0 || hours[3] != 0 {
		t.Errorf("WeeklyHours() = %v, want 4h on Wednesday only", hours)
	}
}

func TestWeeklyHours_SumMatchesWindowSessions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sessions []session.Session
	}{
		{"empty", nil},
		{"single", []session.Session{
			mustSession(t, "2024-01-05T09:00:00Z", "2024-01-05T09:17:00Z"),
		}},
		{"mixed", []session.Session{
			mustSession(t, "2023-12-31T23:59:00Z", "2024-01-01T01:00:00Z"),
			mustSession(t, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z"),
			mustSession(t, "2024-01-04T09:00:00Z", "2024-01-04T11:45:00Z"),
			mustSession(t, "2024-01-07T23:59:59Z", "2024-01-08T03:00:00Z"),
			mustSession(t, "2024-01-08T00:00:00Z", "2024-01-08T03:00:00Z"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, ws := range []WeekStart{Monday, Sunday} {
				window := WindowFor(midweek, ws)

				var want float64
				for _, s := range tt.sessions {
					if window.Contains(s.Start) {
						want += float64(s.DurationMillis()) / 3.6e6
					}
				}

				got := WeeklyHours(tt.sessions, midweek, ws).Total()
				if !approxEqual(got, want) {
					t.Errorf("%v: Total() = %v, want %v", ws, got, want)
				}
			}
		})
	}
}

func TestWeeklyHours_Idempotent(t *testing.T) {
	t.Parallel()

	sessions := []session.Session{
		mustSession(t, "2024-01-02T08:00:00Z", "2024-01-02T10:00:00Z"),
		mustSession(t, "2024-01-04T08:00:00Z", "2024-01-04T09:00:00Z"),
	}
	before := make([]session.Session, len(sessions))
	copy(before, sessions)

	first := WeeklyHours(sessions, midweek, Monday)
	second := WeeklyHours(sessions, midweek, Monday)

	if first != second {
		t.Errorf("second call = %v, first = %v", second, first)
	}
	for i := range sessions {
		if sessions[i] != before[i] {
			t.Errorf("sessions[%d] mutated", i)
		}
	}
}

func TestWindowFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		now       time.Time
		ws        WeekStart
		wantStart time.Time
	}{
		{"monday midweek", midweek, Monday, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"sunday midweek", midweek, Sunday, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"monday on sunday", time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC), Monday, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"sunday on sunday", time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), Sunday, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
		{"monday on monday", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Monday, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFor(tt.now, tt.ws)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("End = %v, want %v", w.End, tt.wantStart.AddDate(0, 0, 7))
			}
			if !w.Contains(tt.now) {
				t.Errorf("window %v does not contain %v", w, tt.now)
			}
		})
	}
}

func TestWindowFor_UsesReferenceLocation(t *testing.T) {
	t.Parallel()

	// Monday 01:00 at UTC+9 is still Sunday in UTC.
	tokyo := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 1, 1, 1, 0, 0, 0, tokyo)

	w := WindowFor(now, Monday)
	if w.Start.Location() != tokyo {
		t.Errorf("Start location = %v, want %v", w.Start.Location(), tokyo)
	}

	s := mustSession(t, "2023-12-31T16:30:00Z", "2023-12-31T17:30:00Z")
	hours := WeeklyHours([]session.Session{s}, now, Monday)
	if hours[0] != 1.0 {
		t.Errorf("Monday bucket = %v, want 1.0", hours[0])
	}
}

func TestWindow_DST(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Week of 2024-03-10, when clocks spring forward.
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, ny)
	w := WindowFor(now, Sunday)

	if got := w.End.Sub(w.Start); got != 167*time.Hour {
		t.Errorf("window length = %v, want 167h", got)
	}

	late := time.Date(2024, 3, 16, 23, 30, 0, 0, ny)
	day, ok := w.DayOffset(late)
	if !ok || day != 6 {
		t.Errorf("DayOffset(%v) = %d, %v, want 6, true", late, day, ok)
	}
}

func TestWindow_DayOffset(t *testing.T) {
	t.Parallel()

	w := WindowFor(midweek, Monday)

	tests := []struct {
		t      time.Time
		want   int
		wantOK bool
	}{
		{w.Start, 0, true},
		{w.End.Add(-time.Millisecond), 6, true},
		{w.End, 0, false},
		{w.Start.Add(-time.Millisecond), 0, false},
		{time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC), 3, true},
	}

	for _, tt := range tests {
		got, ok := w.DayOffset(tt.t)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DayOffset(%v) = %d, %v, want %d, %v", tt.t, got, ok, tt.want, tt.wantOK)
		}
	}

	if !w.LastDay().Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("LastDay() = %v", w.LastDay())
	}
}

func TestParseWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    WeekStart
		wantErr bool
	}{
		{"monday", Monday, false},
		{"Sunday", Sunday, false},
		{" SUN ", Sunday, false},
		{"mon", Monday, false},
		{"friday", Monday, true},
		{"", Monday, true},
	}

	for _, tt := range tests {
		got, err := ParseWeekStart(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeekStart(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeekStart(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDayLabelsAndNames(t *testing.T) {
	t.Parallel()

	if got := DayLabels(Monday); got[0] != "Mon" || got[6] != "Sun" {
		t.Errorf("DayLabels(Monday) = %v", got)
	}
	if got := DayLabels(Sunday); got[0] != "Sun" || got[6] != "Sat" {
		t.Errorf("DayLabels(Sunday) = %v", got)
	}

	want := [DaysPerWeek]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if got := DayNames(Sunday); got != want {
		t.Errorf("DayNames(Sunday) = %v, want %v", got, want)
	}
	if got := DayNames(Monday); got[0] != "Monday" || got[6] != "Sunday" {
		t.Errorf("DayNames(Monday) = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	long := mustSession(t, "2024-01-04T08:00:00Z", "2024-01-04T12:00:00Z")
	sessions := []session.Session{
		mustSession(t, "2024-01-02T08:00:00Z", "2024-01-02T10:00:00Z"),
		long,
		mustSession(t, "2024-01-02T13:00:00Z", "2024-01-02T16:00:00Z"),
	}

	sum := Summarize(sessions, WindowFor(midweek, Monday))

	if sum.Count != 3 {
		t.Errorf("Count = %d, want 3", sum.Count)
	}
	if sum.Total != 9*time.Hour {
		t.Errorf("Total = %v, want 9h", sum.Total)
	}
	if sum.Longest != long {
		t.Errorf("Longest = %v, want %v", sum.Longest, long)
	}
	if sum.BusiestDay != 1 {
		t.Errorf("BusiestDay = %d, want 1 (Tuesday)", sum.BusiestDay)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	sum := Summarize(nil, WindowFor(midweek, Monday))
	if sum.Count != 0 || sum.Total != 0 || sum.BusiestDay != -1 {
		t.Errorf("Summarize(nil) = %+v", sum)
	}
}

func TestAggregator_AddAndReset(t *testing.T) {
	t.Parallel()

	agg := New(Config{Window: WindowFor(midweek, Monday)})

	if !agg.Add(mustSession(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")) {
		t.Error("Add() = false for in-window session")
	}
	if agg.Add(mustSession(t, "2023-12-01T09:00:00Z", "2023-12-01T10:00:00Z")) {
		t.Error("Add() = true for out-of-window session")
	}
	if agg.Hours()[0] != 1.0 {
		t.Errorf("Hours()[0] = %v, want 1.0", agg.Hours()[0])
	}

	agg.Reset()
	if agg.Summary().Count != 0 || agg.Hours().Total() != 0 {
		t.Errorf("after Reset() summary = %+v", agg.Summary())
	}
	if !agg.Window().Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Reset() changed window: %v", agg.Window())
	}
}

func TestAggregator_Concurrency(t *testing.T) {
	t.Parallel()

	agg := New(Config{Window: WindowFor(midweek, Monday)})
	s := mustSession(t, "2024-01-03T09:00:00Z", "2024-01-03T09:06:00Z")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add(s)
			_ = agg.Summary()
		}()
	}
	wg.Wait()

	if got := agg.Summary().Count; got != 50 {
		t.Errorf("Count = %d, want 50", got)
	}
	if !approxEqual(agg.Hours()[2], 5.0) {
		t.Errorf("Wednesday = %v, want 5.0", agg.Hours()[2])
	}
}
