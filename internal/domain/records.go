package domain

import (
	"time"

	"github.com/google/uuid"
)

// AreaSummary is the flat listing projection of an area: enough to render a
// picker or a child listing without resolving the whole super-area chain.
// Children of an area are never stored on the node — they are derived by
// querying for areas whose SuperID matches.
type AreaSummary struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Capacity   int        `json:"capacity"`
	TypeName   string     `json:"type"`
	Reservable bool       `json:"reservable"`
	SuperID    *uuid.UUID `json:"super_area_id,omitempty"`
}

// ReservationRecord is the persisted projection of a reservation: references
// by id instead of resolved Area/User pointers. The repo layer speaks records;
// the service layer inflates them into Ledger entries for conflict checks.
type ReservationRecord struct {
	ID        uuid.UUID `json:"id"`
	AreaID    uuid.UUID `json:"area_id"`
	UserID    uuid.UUID `json:"user_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerEntry converts the record into a Reservation suitable for Ledger
// insertion. The Area and User pointers stay nil — the ledger only needs
// identity and bounds to detect conflicts.
func (r ReservationRecord) LedgerEntry() *Reservation {
	return &Reservation{
		ID:        r.ID,
		Range:     TimeRange{Start: r.Start, End: r.End},
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
