package calendar

import "time"

// IsWorkDay reports whether t falls on Sunday through Thursday.
func IsWorkDay(t time.Time) bool {
	return t.Weekday() <= time.Thursday
}

// CountWorkDays counts the work days between start and end inclusive.
// It returns 0 if start is after end or either date is invalid.
func CountWorkDays(start, end string) int {
	from, ok := ParseDate(start)
	if !ok {
		return 0
	}
	to, ok := ParseDate(end)
	if !ok || from.After(to) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkDay(d) {
			count++
		}
	}
	return count
}

// AddWorkDays returns the last date of a span of n work days that begins on
// the first work day at or after start. For n <= 0, or an unparseable
// start, start is returned unchanged.
func AddWorkDays(start string, n int) string {
	if n <= 0 {
		return start
	}
	d, ok := ParseDate(start)
	if !ok {
		return start
	}
	return Format(AddWorkDaysTo(d, n))
}

// AddWorkDaysTo is AddWorkDays over time values.
func AddWorkDaysTo(start time.Time, n int) time.Time {
	d := Midnight(start)
	if n <= 0 {
		return d
	}
	for !IsWorkDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	for added := 0; added < n-1; {
		d = d.AddDate(0, 0, 1)
		if IsWorkDay(d) {
			added++
		}
	}
	return d
}

// NextWorkDay returns the first work day at or after t.
func NextWorkDay(t time.Time) time.Time {
	return AddWorkDaysTo(t, 1)
}
