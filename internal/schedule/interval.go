// Package schedule defines the half-open time interval semantics shared by
// the booking workflow and the persistence layer.
package schedule

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval is strictly positive. Equal bounds are
// invalid.
func (iv Interval) Valid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two intervals share any instant. Half-open
// semantics: an interval ending exactly when the other starts does not
// overlap it.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}
