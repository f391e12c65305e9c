package booking

import "time"

// Overlaps reports whether two half-open date ranges share at least one
// night. A range that ends the day another begins does not overlap, so a
// checkout day is immediately re-bookable.
//
// Callers guarantee start < end for both ranges.
func Overlaps(targetStart, targetEnd, existingStart, existingEnd time.Time) bool {
	return targetStart.Before(existingEnd) && targetEnd.After(existingStart)
}

// ContainsDay reports whether day falls inside the half-open range
// [start, end). A guest holding [June 1, June 3) occupies the room on
// June 1 and June 2, not June 3.
func ContainsDay(start, end, day time.Time) bool {
	return !day.Before(start) && day.Before(end)
}
