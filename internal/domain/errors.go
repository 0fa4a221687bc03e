package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. blank name, negative capacity, blank reservation comment).
// Recoverable: the caller can correct the input and retry.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrArgument is returned when a caller passes a structurally invalid input —
// a nil reference where a value was required. This is a bug in the calling
// code, not something an end user can fix; handlers map it to HTTP 400 but
// the message should never be presented as a business error.
var ErrArgument = errors.New("invalid argument")

// ErrAdminCount is returned when an operation would leave an area with zero
// effective administrators, counting both direct admins and admins inherited
// through the super-area chain. Handlers should map this to HTTP 409.
var ErrAdminCount = errors.New("area would have no administrators")

// ErrState is returned when an operation is invalid given current object
// state (removing an administrator from an empty set, reserving a time slot
// in the past). A bug in the calling workflow rather than bad user input,
// but it must still be caught at the boundary, not crash the process.
var ErrState = errors.New("invalid state")

// ErrConflict is the sentinel matched by ConflictError via errors.Is.
// Use it to detect conflicts without caring about the blocking entry.
var ErrConflict = errors.New("reservation conflict")

// ConflictError reports that a requested time range overlaps an existing
// reservation. It carries the blocking reservation's identity and bounds so
// the HTTP layer can tell the user exactly what is in the way.
type ConflictError struct {
	BlockingID uuid.UUID
	Start      time.Time
	End        time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("reservation conflict: area already reserved from %s to %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrConflict) succeed for ConflictError values.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
