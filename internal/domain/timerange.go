// Package domain contains the core entities and invariants for the Chairspace
// booking backend: the area hierarchy with its administrator rules, and the
// reservation engine with its no-overlap guarantee.
// This package has no I/O — it is imported by every other internal package
// (repo, service, handler) and operates only on already-resolved objects.
package domain

import (
	"fmt"
	"time"
)

// TimeRange is an immutable half-open interval [Start, End).
// Construct it with NewTimeRange; a zero TimeRange is not valid.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates and returns a TimeRange.
// Start must be strictly after clock.Now() and strictly before end.
// A start in the past (or exactly now) is ErrState: it signals a workflow
// that produced an already-expired request, not a value a user mistyped.
// An inverted or empty range is ErrValidation.
func NewTimeRange(start, end time.Time, clock Clock) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, fmt.Errorf("%w: start and end are required", ErrArgument)
	}
	if !start.After(clock.Now()) {
		return TimeRange{}, fmt.Errorf("%w: start must be in the future", ErrState)
	}
	if !end.After(start) {
		return TimeRange{}, fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open ranges intersect.
// Touching endpoints (one range ending exactly when the other starts) do not
// overlap: the test is strict on both sides.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the instant t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}
