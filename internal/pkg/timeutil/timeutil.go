package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD calendar date. The result is normalized to
// UTC midnight so date arithmetic is timezone independent.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t.UTC(), nil
}

// ParseClock parses a HH:MM time of day into minutes since midnight.
// "24:00" is accepted as minute 1440: FormatClock emits it for intervals
// pinned to end of day, and those must round-trip.
func ParseClock(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse(ClockLayout, v)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight back to HH:MM. Minute 1440 is
// rendered as 24:00 so a compressed end-of-day interval stays printable.
func FormatClock(minutes int) string {
	if minutes >= 24*60 {
		return "24:00"
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WeekNumber computes the 1-based index of the 7-day bucket that target
// falls into, counted from startDate. Dates before the start date clamp
// to week 1.
func WeekNumber(startDate, target time.Time) int {
	days := int(target.UTC().Truncate(24*time.Hour).Sub(startDate.UTC().Truncate(24*time.Hour)).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		return 1
	}
	return week
}

// WeekDateRange returns the inclusive date range "YYYY-MM-DD - YYYY-MM-DD"
// covered by the given week number.
func WeekDateRange(startDate time.Time, weekNumber int) string {
	if weekNumber < 1 {
		weekNumber = 1
	}
	weekStart := startDate.AddDate(0, 0, (weekNumber-1)*7)
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart.Format(DateLayout) + " - " + weekEnd.Format(DateLayout)
}

// ResolveRelativeDate maps the relative words the model tends to emit onto
// concrete dates. Anything unrecognized passes through untouched so callers
// can still parse absolute dates.
func ResolveRelativeDate(term string, base time.Time) string {
	switch strings.ToLower(strings.TrimSpace(term)) {
	case "today":
		return base.Format(DateLayout)
	case "tomorrow":
		return base.AddDate(0, 0, 1).Format(DateLayout)
	case "yesterday":
		return base.AddDate(0, 0, -1).Format(DateLayout)
	case "day after tomorrow":
		return base.AddDate(0, 0, 2).Format(DateLayout)
	default:
		return strings.TrimSpace(term)
	}
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return max(aStart, bStart) < min(aEnd, bEnd)
}

// DateInfo summarizes a calendar date for prompt context.
type DateInfo struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	IsWeekend bool   `json:"is_weekend"`
	DayOfYear int    `json:"day_of_year"`
}

func InfoForDate(date time.Time) DateInfo {
	wd := date.Weekday()
	return DateInfo{
		Date:      date.Format(DateLayout),
		Weekday:   wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
		DayOfYear: date.YearDay(),
	}
}

// WeekProgress describes how far the current Monday-based week has advanced.
type WeekProgress struct {
	WeekStart          string  `json:"week_start"`
	WeekEnd            string  `json:"week_end"`
	DaysPassed         int     `json:"days_passed"`
	DaysRemaining      int     `json:"days_remaining"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

func ProgressOfWeek(now time.Time) WeekProgress {
	sinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -sinceMonday)
	weekEnd := weekStart.AddDate(0, 0, 7)
	total := weekEnd.Sub(weekStart).Seconds()
	elapsed := now.Sub(weekStart).Seconds()
	pct := elapsed / total * 100
	if pct > 100 {
		pct = 100
	}
	return WeekProgress{
		WeekStart:          weekStart.Format(DateLayout),
		WeekEnd:            weekStart.AddDate(0, 0, 6).Format(DateLayout),
		DaysPassed:         sinceMonday + 1,
		DaysRemaining:      6 - sinceMonday,
		ProgressPercentage: float64(int(pct*100)) / 100,
	}
}

// FormatDuration renders a minute count as a compact human string.
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
