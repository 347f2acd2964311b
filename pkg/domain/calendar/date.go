// Package calendar provides calendar-date arithmetic for the Sunday to
// Thursday work week, plus the injectable clock used to derive "today".
package calendar

import (
	"strings"
	"time"
)

// Layout is the ISO calendar-date layout used for every stored date.
const Layout = "2006-01-02"

// DisplayLayout is the day-first display layout (he-IL style).
const DisplayLayout = "02.01.2006"

// EmptyDisplay is rendered for a missing date.
const EmptyDisplay = "-"

// ParseDate parses a stored date string into a midnight UTC calendar date.
// Both plain dates and RFC 3339 timestamps are accepted; for timestamps the
// calendar date in the timestamp's own offset is kept. The boolean is false
// for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t), true
	}
	return time.Time{}, false
}

// Midnight drops the time of day, keeping the calendar date as observed in
// t's location, and returns it as a UTC midnight value.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a calendar date in the stored ISO layout.
func Format(t time.Time) string {
	return Midnight(t).Format(Layout)
}

// FormatDate renders a stored date for display. Empty input yields "-";
// unparseable input is returned as-is.
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return EmptyDisplay
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DisplayLayout)
}

// DiffDays returns the inclusive span in days between two dates, in either
// order. It returns 0 when either date is invalid.
func DiffDays(a, b string) int {
	start, ok := ParseDate(a)
	if !ok {
		return 0
	}
	end, ok := ParseDate(b)
	if !ok {
		return 0
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days + 1
}

// Compare orders two stored dates as raw strings. ISO dates sort correctly
// lexically, so this is only used for list ordering, never for lateness.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}
