package service

import "time"

// Clock is injected into services so tests can pin "now" and "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the bakery's time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// DateOf truncates t to its calendar date, expressed as midnight UTC so it
// compares equal to the values stored in DATE columns.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of clock's now.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}
