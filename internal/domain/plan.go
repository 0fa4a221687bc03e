package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan is a named block of days during which an otherwise non-reservable
// area accepts reservations. Areas that are directly reservable never need
// plans; the reservation admission check only consults plans when the
// area's own Reservable flag is off.
type Plan struct {
	ID        uuid.UUID `json:"id"`
	AreaID    uuid.UUID `json:"area_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlan validates and constructs a Plan for the given area.
// Both dates are normalized to midnight UTC; the plan covers every instant
// from StartDate through the whole of EndDate (a closed day interval, so
// StartDate == EndDate is a single-day plan).
func NewPlan(area *Area, name string, startDate, endDate time.Time) (Plan, error) {
	if area == nil {
		return Plan{}, fmt.Errorf("%w: area is required", ErrArgument)
	}
	if isBlank(name) {
		return Plan{}, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if startDate.IsZero() || endDate.IsZero() {
		return Plan{}, fmt.Errorf("%w: start and end dates are required", ErrArgument)
	}
	start := DateOnly(startDate)
	end := DateOnly(endDate)
	if start.After(end) {
		return Plan{}, fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	}
	if area.Reservable {
		return Plan{}, fmt.Errorf("%w: area %q is directly reservable and does not use plans", ErrState, area.Name)
	}
	return Plan{
		ID:        uuid.New(),
		AreaID:    area.ID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Covers reports whether the plan's day interval fully contains [start, end).
func (p Plan) Covers(start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}
	first := DateOnly(start)
	last := DateOnly(end.Add(-time.Nanosecond))
	return !first.Before(p.StartDate) && !last.After(p.EndDate)
}

// DateOnly truncates an instant to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
