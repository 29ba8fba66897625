package scoring

import "time"

// Clock reports the current calendar date.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock. Location selects the time zone whose
// calendar date counts as "today"; nil means time.Local.
type SystemClock struct {
	Location *time.Location
}

// Today returns the current date in c.Location as a civil date.
func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return CivilDate(time.Now().In(loc))
}

// FixedClock always reports the same date. It is meant for tests and for
// replaying a past analysis.
type FixedClock struct {
	Date time.Time
}

// Today returns the fixed date as a civil date.
func (c FixedClock) Today() time.Time {
	return CivilDate(c.Date)
}

// CivilDate drops the time-of-day and zone of t, keeping its calendar date
// as midnight UTC.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from from to to.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}
