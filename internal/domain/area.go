package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Area is a bookable or organizational space, possibly nested under a parent
// ("super") area. The hierarchy is a mutable reference graph that can, through
// data-entry or migration bugs, contain a cycle — every traversal therefore
// carries a per-call visited-id set and stops instead of looping.
//
// The central invariant is that an area always has at least one effective
// administrator: either a direct admin on the node itself, or one inherited
// from an ancestor. Construction (AreaBuilder) and every mutator that could
// violate the invariant re-check it; no partial or invalid Area is ever
// observable from outside this package.
//
// Administrator and feature sets are unexported so they can only change
// through the checked mutators. Persistence rehydrates areas via
// RehydrateArea, which trusts the store.
type Area struct {
	ID                 uuid.UUID
	Name               string
	Capacity           int
	Description        string
	CalendarLink       string
	CalendarControlled bool
	Reservable         bool
	Type               AreaType
	CreatedAt          time.Time
	UpdatedAt          time.Time

	super    *Area
	admins   map[uuid.UUID]User
	features map[string]Feature
}

// RehydrateArea reconstructs an Area from persisted state without re-running
// construction checks. For use by the repo layer only — application code must
// go through AreaBuilder.
func RehydrateArea(
	id uuid.UUID,
	name string,
	capacity int,
	description string,
	calendarLink string,
	reservable bool,
	areaType AreaType,
	super *Area,
	admins []User,
	features []Feature,
	createdAt, updatedAt time.Time,
) *Area {
	a := &Area{
		ID:                 id,
		Name:               name,
		Capacity:           capacity,
		Description:        description,
		CalendarLink:       calendarLink,
		CalendarControlled: calendarLink != "",
		Reservable:         reservable,
		Type:               areaType,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		super:              super,
		admins:             make(map[uuid.UUID]User, len(admins)),
		features:           make(map[string]Feature, len(features)),
	}
	for _, u := range admins {
		a.admins[u.ID] = u
	}
	for _, f := range features {
		a.features[f.Name] = f
	}
	return a
}

// Super returns the parent area, or nil for a root area.
func (a *Area) Super() *Area { return a.super }

// DirectAdministrators returns the admins assigned to this node itself,
// excluding any inherited from ancestors, ordered by user ID for stable output.
func (a *Area) DirectAdministrators() []User {
	out := make([]User, 0, len(a.admins))
	for _, u := range a.admins {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Features returns the area's features ordered by name.
func (a *Area) Features() []Feature {
	out := make([]Feature, 0, len(a.features))
	for _, f := range a.features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HasFeature reports whether the area carries the named feature.
func (a *Area) HasFeature(name string) bool {
	_, ok := a.features[name]
	return ok
}

// EffectiveAdministrators returns the union of this node's direct admins and
// every admin contributed by ancestors reachable without revisiting a node.
// A user appearing on several levels is counted once. Ordered by user ID.
func (a *Area) EffectiveAdministrators() []User {
	byID := make(map[uuid.UUID]User)
	visited := make(map[uuid.UUID]bool)
	for n := a; n != nil; n = n.super {
		if visited[n.ID] {
			break // cycle; remaining ancestors contribute nothing
		}
		visited[n.ID] = true
		for id, u := range n.admins {
			if _, ok := byID[id]; !ok {
				byID[id] = u
			}
		}
	}
	out := make([]User, 0, len(byID))
	for _, u := range byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// EffectiveAdminCount returns the number of unique effective administrators.
func (a *Area) EffectiveAdminCount() int {
	return len(a.EffectiveAdministrators())
}

// IsAdmin reports whether user is a direct administrator of this area or of
// any ancestor reachable via a cycle-safe walk.
func (a *Area) IsAdmin(user *User) (bool, error) {
	if user == nil {
		return false, fmt.Errorf("%w: user is required", ErrArgument)
	}
	visited := make(map[uuid.UUID]bool)
	for n := a; n != nil; n = n.super {
		if visited[n.ID] {
			break
		}
		visited[n.ID] = true
		if _, ok := n.admins[user.ID]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Ancestors returns the super-area chain from the direct parent upward,
// excluding the area itself. The second return value reports whether the walk
// was cut short by a cycle — callers serializing the chain should log it, but
// a cycle is a defensive termination condition, never an error.
func (a *Area) Ancestors() ([]*Area, bool) {
	var chain []*Area
	visited := map[uuid.UUID]bool{a.ID: true}
	for n := a.super; n != nil; n = n.super {
		if visited[n.ID] {
			return chain, true
		}
		visited[n.ID] = true
		chain = append(chain, n)
	}
	return chain, false
}

// AddAdministrator adds user to the direct administrator set.
// Adding an existing admin is a no-op, not an error.
func (a *Area) AddAdministrator(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is required", ErrArgument)
	}
	a.admins[user.ID] = *user
	return nil
}

// RemoveAdministrator removes user from the direct administrator set.
// Removal from an already-empty set is a caller-state bug, and so is a
// removal that would drop the effective admin count to zero; both return
// ErrState and leave the set untouched.
func (a *Area) RemoveAdministrator(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is required", ErrArgument)
	}
	if len(a.admins) == 0 {
		return fmt.Errorf("%w: area has no direct administrators to remove", ErrState)
	}
	removed, wasDirect := a.admins[user.ID]
	if !wasDirect {
		return nil
	}
	delete(a.admins, user.ID)
	if a.EffectiveAdminCount() == 0 {
		a.admins[user.ID] = removed
		return fmt.Errorf("%w: cannot remove the last administrator of an area", ErrState)
	}
	return nil
}

// SetSuperArea attaches the area under a parent. The area must not already
// have a parent; use ReplaceSuperArea to swap.
func (a *Area) SetSuperArea(super *Area) error {
	if super == nil {
		return fmt.Errorf("%w: super area is required", ErrArgument)
	}
	if a.super != nil {
		return fmt.Errorf("%w: area already has a super area", ErrState)
	}
	if super.ID == a.ID {
		return fmt.Errorf("%w: area cannot be its own super area", ErrState)
	}
	a.super = super
	return nil
}

// ReplaceSuperArea swaps the parent pointer. Fails with ErrAdminCount if the
// area has no direct admins and the new ancestor chain contributes none, so
// the change never strands the node without an effective administrator.
func (a *Area) ReplaceSuperArea(super *Area) error {
	if super == nil {
		return fmt.Errorf("%w: super area is required", ErrArgument)
	}
	if super.ID == a.ID {
		return fmt.Errorf("%w: area cannot be its own super area", ErrState)
	}
	if len(a.admins) == 0 && super.EffectiveAdminCount() == 0 {
		return fmt.Errorf("%w: new super area chain contributes no administrators", ErrAdminCount)
	}
	a.super = super
	return nil
}

// RemoveSuperArea detaches the area from its parent. Fails with ErrAdminCount
// if the area has no administrators of its own, since the ancestor chain was
// its only admin source.
func (a *Area) RemoveSuperArea() error {
	if len(a.admins) == 0 {
		return fmt.Errorf("%w: area has no administrators of its own", ErrAdminCount)
	}
	a.super = nil
	return nil
}

// AddFeature adds a feature to the area. Idempotent.
func (a *Area) AddFeature(feature *Feature) error {
	if feature == nil {
		return fmt.Errorf("%w: feature is required", ErrArgument)
	}
	a.features[feature.Name] = *feature
	return nil
}

// RemoveFeature removes the named feature. Returns false if it was not set.
func (a *Area) RemoveFeature(name string) bool {
	if _, ok := a.features[name]; !ok {
		return false
	}
	delete(a.features, name)
	return true
}

// UpdateDescription replaces the description. Blank is rejected: clearing a
// description is modeled as a distinct operation by the HTTP layer.
func (a *Area) UpdateDescription(description string) error {
	if isBlank(description) {
		return fmt.Errorf("%w: description must not be blank", ErrValidation)
	}
	a.Description = description
	return nil
}

// UpdateCapacity replaces the capacity. Negative capacity is rejected.
func (a *Area) UpdateCapacity(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}
	a.Capacity = capacity
	return nil
}
