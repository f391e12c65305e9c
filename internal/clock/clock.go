package clock

import "time"

// Clock provides the current time and the hotel-local calendar date.
// Every "is the check-in today?" decision goes through this interface so
// the property timezone lives in exactly one place and tests can pin it.
type Clock interface {
	// Now returns the current instant in the hotel's local timezone.
	Now() time.Time
	// Today returns the current hotel-local date, truncated to midnight UTC.
	// Date-only comparisons against booking check-in/check-out use this.
	Today() time.Time
}

type fixedOffsetClock struct {
	loc *time.Location
}

// NewFixedOffset returns a Clock pinned to a fixed UTC offset (in hours).
// The property runs on wall-clock local time, not DST rules.
func NewFixedOffset(offsetHours int) Clock {
	name := time.FixedZone("HOTEL", offsetHours*3600)
	return &fixedOffsetClock{loc: name}
}

func (c *fixedOffsetClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *fixedOffsetClock) Today() time.Time {
	return DateOf(c.Now())
}

// DateOf strips the time-of-day from t, keeping only the calendar date.
// The result is always in UTC so dates compare with Equal/Before/After
// regardless of the zone t carried.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
