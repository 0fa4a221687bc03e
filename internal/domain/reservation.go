package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reservation is a time-bounded claim on an area by a user.
// Once created its range is never mutated in place — a change is modeled as
// remove-then-reinsert so the ledger re-checks the overlap invariant.
type Reservation struct {
	ID        uuid.UUID
	Area      *Area
	User      *User
	Range     TimeRange
	Comment   string
	CreatedAt time.Time
}

// NewReservation validates and constructs a Reservation.
// The range must come from NewTimeRange, which has already enforced the
// future-start and start-before-end rules. The comment is mandatory, so a
// reservation always says what it is for.
//
// The caller is responsible for admission: running the result through the
// area's Ledger, and checking that the area is reservable (directly or via a
// covering Plan). Construction alone does neither.
func NewReservation(area *Area, user *User, r TimeRange, comment string) (*Reservation, error) {
	if area == nil {
		return nil, fmt.Errorf("%w: area is required", ErrArgument)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrArgument)
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return nil, fmt.Errorf("%w: time range is required", ErrArgument)
	}
	if isBlank(comment) {
		return nil, fmt.Errorf("%w: comment must not be blank", ErrValidation)
	}
	return &Reservation{
		ID:        uuid.New(),
		Area:      area,
		User:      user,
		Range:     r,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}, nil
}
