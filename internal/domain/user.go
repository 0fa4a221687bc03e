package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can administer areas and hold reservations.
// The domain never looks users up itself — callers pass resolved references.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
