package domain

import (
	"fmt"
	"iter"
	"sort"

	"github.com/google/uuid"
)

// Ledger is the time-ordered collection of reservations belonging to one
// area. It is the conflict-detection engine: Insert rejects any reservation
// whose range overlaps an existing entry, so the no-overlap invariant holds
// for every admitted reservation.
//
// A Ledger is never shared across areas. It is not safe for concurrent
// writers — the service layer serializes all mutations per area.
type Ledger struct {
	areaID  uuid.UUID
	entries []*Reservation // sorted by Range.Start ascending
}

// NewLedger returns an empty ledger for the given area.
func NewLedger(areaID uuid.UUID) *Ledger {
	return &Ledger{areaID: areaID}
}

// AreaID returns the id of the area this ledger belongs to.
func (l *Ledger) AreaID() uuid.UUID { return l.areaID }

// Len returns the number of reservations in the ledger.
func (l *Ledger) Len() int { return len(l.entries) }

// Insert admits a reservation, keeping the ledger sorted by start time.
// Returns a *ConflictError (matching ErrConflict) identifying the earliest
// blocking entry if the range overlaps any existing reservation. Touching
// boundaries are not a conflict.
func (l *Ledger) Insert(r *Reservation) error {
	if r == nil {
		return fmt.Errorf("%w: reservation is required", ErrArgument)
	}
	if r.Area != nil && r.Area.ID != l.areaID {
		return fmt.Errorf("%w: reservation belongs to a different area", ErrState)
	}
	if blocking := l.FindOverlapping(r.Range); len(blocking) > 0 {
		b := blocking[0]
		return &ConflictError{BlockingID: b.ID, Start: b.Range.Start, End: b.Range.End}
	}
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Range.Start.After(r.Range.Start)
	})
	l.entries = append(l.entries, nil)
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = r
	return nil
}

// Remove deletes the reservation with the given id.
// Returns false if no such reservation exists — cancelling something already
// gone is not an error, only a signal.
func (l *Ledger) Remove(id uuid.UUID) bool {
	for i, r := range l.entries {
		if r.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// FindOverlapping returns all reservations whose range overlaps r, in
// ascending start order. An empty result means the range is free.
func (l *Ledger) FindOverlapping(r TimeRange) []*Reservation {
	var out []*Reservation
	for _, e := range l.entries {
		if e.Range.Start.After(r.End) || e.Range.Start.Equal(r.End) {
			break // entries are sorted by start; nothing later can overlap
		}
		if e.Range.Overlaps(r) {
			out = append(out, e)
		}
	}
	return out
}

// All returns a restartable sequence over the ledger's reservations in
// ascending start order. The sequence reflects the ledger at iteration time;
// do not mutate the ledger while ranging over it.
func (l *Ledger) All() iter.Seq[*Reservation] {
	return func(yield func(*Reservation) bool) {
		for _, r := range l.entries {
			if !yield(r) {
				return
			}
		}
	}
}
