package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AreaBuilder accumulates configuration for a new Area and validates it
// atomically in Build. Nothing is checked until Build runs, and a failed
// Build exposes no partial Area — all-or-nothing construction.
type AreaBuilder struct {
	name         string
	capacity     int
	areaType     *AreaType
	description  string
	calendarLink string
	reservable   bool
	super        *Area
	admins       []*User
	features     []*Feature
}

// NewAreaBuilder starts a builder for an area with the three required
// attributes: name, capacity, and type.
func NewAreaBuilder(name string, capacity int, areaType *AreaType) *AreaBuilder {
	return &AreaBuilder{
		name:       name,
		capacity:   capacity,
		areaType:   areaType,
		reservable: true,
	}
}

// Description sets the optional free-text description.
func (b *AreaBuilder) Description(description string) *AreaBuilder {
	b.description = description
	return b
}

// CalendarLink sets the external calendar URL. Supplying a link marks the
// built area as calendar controlled.
func (b *AreaBuilder) CalendarLink(link string) *AreaBuilder {
	b.calendarLink = link
	return b
}

// Reservable overrides the default reservable flag (true).
func (b *AreaBuilder) Reservable(reservable bool) *AreaBuilder {
	b.reservable = reservable
	return b
}

// Administrator adds a single direct administrator.
func (b *AreaBuilder) Administrator(user *User) *AreaBuilder {
	b.admins = append(b.admins, user)
	return b
}

// Administrators adds each user in the slice as a direct administrator.
func (b *AreaBuilder) Administrators(users []*User) *AreaBuilder {
	b.admins = append(b.admins, users...)
	return b
}

// Feature adds a single feature.
func (b *AreaBuilder) Feature(feature *Feature) *AreaBuilder {
	b.features = append(b.features, feature)
	return b
}

// Features adds each feature in the slice.
func (b *AreaBuilder) Features(features []*Feature) *AreaBuilder {
	b.features = append(b.features, features...)
	return b
}

// SuperArea sets the parent area. Admins inherited through the parent's
// ancestor chain count toward the admin invariant at Build time.
func (b *AreaBuilder) SuperArea(super *Area) *AreaBuilder {
	b.super = super
	return b
}

// Build validates the accumulated configuration and returns a new Area.
//
// Failure modes, checked in order:
//   - ErrArgument: nil area type, or a nil entry among the added
//     administrators or features. These are caller bugs.
//   - ErrValidation: blank name or negative capacity. Recoverable input
//     errors the HTTP layer reports to the user.
//   - ErrAdminCount: zero effective administrators after counting direct
//     admins and every admin inherited via the (cycle-safe) super-area chain.
//
// On success the area gets a fresh ID and is fully initialized; the builder
// can be discarded.
func (b *AreaBuilder) Build() (*Area, error) {
	if b.areaType == nil {
		return nil, fmt.Errorf("%w: area type is required", ErrArgument)
	}
	for _, u := range b.admins {
		if u == nil {
			return nil, fmt.Errorf("%w: administrator must not be nil", ErrArgument)
		}
	}
	for _, f := range b.features {
		if f == nil {
			return nil, fmt.Errorf("%w: feature must not be nil", ErrArgument)
		}
	}
	if isBlank(b.name) {
		return nil, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if b.capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}
	if len(b.admins) == 0 && inheritedAdminCount(b.super) == 0 {
		return nil, fmt.Errorf("%w: area needs a direct administrator or a super area that provides one", ErrAdminCount)
	}

	now := time.Now().UTC()
	a := &Area{
		ID:                 uuid.New(),
		Name:               b.name,
		Capacity:           b.capacity,
		Description:        b.description,
		CalendarLink:       b.calendarLink,
		CalendarControlled: b.calendarLink != "",
		Reservable:         b.reservable,
		Type:               *b.areaType,
		CreatedAt:          now,
		UpdatedAt:          now,
		super:              b.super,
		admins:             make(map[uuid.UUID]User, len(b.admins)),
		features:           make(map[string]Feature, len(b.features)),
	}
	for _, u := range b.admins {
		a.admins[u.ID] = *u
	}
	for _, f := range b.features {
		a.features[f.Name] = *f
	}
	return a, nil
}

// inheritedAdminCount counts the unique admins a prospective super area (and
// its cycle-safe ancestor chain) would contribute. Nil super contributes zero.
func inheritedAdminCount(super *Area) int {
	if super == nil {
		return 0
	}
	return super.EffectiveAdminCount()
}

// isBlank reports whether s is empty or whitespace-only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
