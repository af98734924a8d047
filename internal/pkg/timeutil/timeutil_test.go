package timeutil

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", value, err)
	}
	return d
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 545},
		{in: "23:59", want: 1439},
		{in: " 14:00 ", want: 840},
		{in: "24:00", want: 1440},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{545, "09:05"},
		{1439, "23:59"},
		{1440, "24:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeekNumber(t *testing.T) {
	start := "2025-07-14"
	tests := []struct {
		target string
		want   int
	}{
		{"2025-07-14", 1},
		{"2025-07-20", 1},
		{"2025-07-21", 2},
		{"2025-07-28", 3},
		{"2025-07-10", 1}, // before the anchor clamps to week 1
	}
	for _, tt := range tests {
		got := WeekNumber(date(t, start), date(t, tt.target))
		if got != tt.want {
			t.Errorf("WeekNumber(%s, %s) = %d, want %d", start, tt.target, got, tt.want)
		}
	}
}

func TestWeekDateRange(t *testing.T) {
	start := date(t, "2025-07-14")
	if got, want := WeekDateRange(start, 1), "2025-07-14 - 2025-07-20"; got != want {
		t.Errorf("WeekDateRange(week 1) = %q, want %q", got, want)
	}
	if got, want := WeekDateRange(start, 3), "2025-07-28 - 2025-08-03"; got != want {
		t.Errorf("WeekDateRange(week 3) = %q, want %q", got, want)
	}
}

func TestResolveRelativeDate(t *testing.T) {
	base := date(t, "2025-07-16")
	tests := []struct {
		in   string
		want string
	}{
		{"today", "2025-07-16"},
		{"Tomorrow", "2025-07-17"},
		{"yesterday", "2025-07-15"},
		{"day after tomorrow", "2025-07-18"},
		{"2025-08-01", "2025-08-01"},
		{"  today  ", "2025-07-16"},
		{"nonsense", "nonsense"},
	}
	for _, tt := range tests {
		if got := ResolveRelativeDate(tt.in, base); got != tt.want {
			t.Errorf("ResolveRelativeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"disjoint", 60, 120, 180, 240, false},
		{"touching endpoints do not overlap", 60, 120, 120, 180, false},
		{"partial", 60, 120, 90, 180, true},
		{"contained", 60, 240, 90, 120, true},
		{"identical", 60, 120, 60, 120, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressOfWeek(t *testing.T) {
	// 2025-07-16 is a Wednesday.
	now := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	p := ProgressOfWeek(now)
	if p.WeekStart != "2025-07-14" {
		t.Errorf("WeekStart = %s, want 2025-07-14", p.WeekStart)
	}
	if p.WeekEnd != "2025-07-20" {
		t.Errorf("WeekEnd = %s, want 2025-07-20", p.WeekEnd)
	}
	if p.DaysPassed != 3 {
		t.Errorf("DaysPassed = %d, want 3", p.DaysPassed)
	}
	if p.DaysRemaining != 4 {
		t.Errorf("DaysRemaining = %d, want 4", p.DaysRemaining)
	}
	if p.ProgressPercentage <= 0 || p.ProgressPercentage >= 100 {
		t.Errorf("ProgressPercentage = %f, want between 0 and 100", p.ProgressPercentage)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
