package calendar

import "time"

// Clock supplies "today" as a midnight calendar date. Everything that
// compares against the current date takes a Clock or an explicit date.
type Clock interface {
	Today() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Today implements Clock.
func (f ClockFunc) Today() time.Time { return Midnight(f()) }

// SystemClock reads the wall clock and takes the calendar date in Location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a SystemClock for the named IANA zone. An empty or
// unknown zone falls back to the local zone.
func NewSystemClock(zone string) SystemClock {
	if zone == "" {
		return SystemClock{Location: time.Local}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return SystemClock{Location: time.Local}
	}
	return SystemClock{Location: loc}
}

// Today implements Clock.
func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return Midnight(time.Now().In(loc))
}

// FixedClock always reports the same date.
type FixedClock struct {
	Date time.Time
}

// Fixed returns a FixedClock for an ISO date string. It panics on malformed
// input and is meant for tests and command-line overrides that were
// already validated.
func Fixed(date string) FixedClock {
	t, ok := ParseDate(date)
	if !ok {
		panic("calendar: invalid fixed date " + date)
	}
	return FixedClock{Date: t}
}

// Today implements Clock.
func (c FixedClock) Today() time.Time { return Midnight(c.Date) }
