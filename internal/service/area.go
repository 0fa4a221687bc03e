// Package service contains the business logic for the Chairspace API.
// Services resolve ids into domain objects, enforce the domain's invariants
// through its constructors and mutators, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/repo"
)

// CreateAreaParams carries the resolved-by-id inputs for creating an area.
type CreateAreaParams struct {
	Name         string
	Capacity     int
	TypeName     string
	Description  string
	CalendarLink string
	Reservable   *bool // nil means default (true)
	AdminIDs     []uuid.UUID
	FeatureNames []string
	SuperAreaID  *uuid.UUID
}

// AreaService implements business logic for Area operations.
// Every mutation acquires the area's lock from the shared registry first:
// the admin-count invariant is check-then-act and is only safe under a
// single writer per area.
type AreaService struct {
	areas        repo.AreaRepo
	users        repo.UserRepo
	types        repo.AreaTypeRepo
	features     repo.FeatureRepo
	reservations repo.ReservationRepo
	locks        *AreaLocks
	log          *slog.Logger
}

// NewAreaService constructs an AreaService backed by the provided repos.
// The locks registry must be shared with the ReservationService.
func NewAreaService(
	areas repo.AreaRepo,
	users repo.UserRepo,
	types repo.AreaTypeRepo,
	features repo.FeatureRepo,
	reservations repo.ReservationRepo,
	locks *AreaLocks,
	log *slog.Logger,
) *AreaService {
	return &AreaService{
		areas:        areas,
		users:        users,
		types:        types,
		features:     features,
		reservations: reservations,
		locks:        locks,
		log:          log,
	}
}

// Create resolves the referenced type, users, features, and super area, then
// builds and persists a new area. All construction invariants — non-blank
// name, non-negative capacity, at least one effective administrator — are
// enforced by the AreaBuilder; a failed build persists nothing.
func (s *AreaService) Create(ctx context.Context, p CreateAreaParams) (*domain.Area, error) {
	areaType, err := s.types.GetByName(ctx, p.TypeName)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.Create: area type: %w", err)
	}

	b := domain.NewAreaBuilder(p.Name, p.Capacity, &areaType)
	if p.Description != "" {
		b.Description(p.Description)
	}
	if p.CalendarLink != "" {
		b.CalendarLink(p.CalendarLink)
	}
	if p.Reservable != nil {
		b.Reservable(*p.Reservable)
	}
	for _, id := range p.AdminIDs {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("service.AreaService.Create: administrator %s: %w", id, err)
		}
		b.Administrator(&u)
	}
	for _, name := range p.FeatureNames {
		f, err := s.features.GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("service.AreaService.Create: feature %q: %w", name, err)
		}
		b.Feature(&f)
	}
	if p.SuperAreaID != nil {
		super, err := s.areas.GetByID(ctx, *p.SuperAreaID)
		if err != nil {
			return nil, fmt.Errorf("service.AreaService.Create: super area: %w", err)
		}
		b.SuperArea(super)
	}

	area, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := s.areas.Create(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.Create: %w", err)
	}
	return area, nil
}

// Get returns an area with its administrators, features, and super chain.
func (s *AreaService) Get(ctx context.Context, id uuid.UUID) (*domain.Area, error) {
	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.Get: %w", err)
	}
	return area, nil
}

// List returns a page of area summaries and the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AreaService) List(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error) {
	summaries, total, err := s.areas.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.AreaService.List: %w", err)
	}
	if summaries == nil {
		summaries = []domain.AreaSummary{}
	}
	return summaries, total, nil
}

// ListChildren returns the direct children of an area.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AreaService) ListChildren(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error) {
	if _, err := s.areas.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("service.AreaService.ListChildren: %w", err)
	}
	children, err := s.areas.ListChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.ListChildren: %w", err)
	}
	if children == nil {
		children = []domain.AreaSummary{}
	}
	return children, nil
}

// Ancestors returns the super-area chain of an area, closest parent first.
// A cycle in the stored hierarchy is logged and the chain is cut at the
// repeated node — callers always get a finite, duplicate-free list.
func (s *AreaService) Ancestors(ctx context.Context, id uuid.UUID) ([]*domain.Area, error) {
	area, err := s.areas.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.Ancestors: %w", err)
	}
	chain, cycle := area.Ancestors()
	if cycle {
		s.log.WarnContext(ctx, "area hierarchy contains a cycle",
			"area_id", area.ID, "chain_len", len(chain))
	}
	return chain, nil
}

// AddAdministrator adds a user to an area's direct administrator set.
// The acting user must be an effective administrator of the area.
func (s *AreaService) AddAdministrator(ctx context.Context, areaID, actorID, userID uuid.UUID) (*domain.Area, error) {
	unlock := s.locks.Lock(areaID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.AddAdministrator: %w", err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return nil, err
	}
	newAdmin, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.AddAdministrator: %w", err)
	}
	if err := area.AddAdministrator(&newAdmin); err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.AddAdministrator: %w", err)
	}
	return area, nil
}

// RemoveAdministrator removes a user from an area's direct administrator set.
// The acting user must be an effective administrator. Removing the last
// effective admin source fails inside the domain and persists nothing.
//
// Known gap: removing an admin from a parent area does not cascade-check
// descendant areas that inherit from it.
func (s *AreaService) RemoveAdministrator(ctx context.Context, areaID, actorID, userID uuid.UUID) (*domain.Area, error) {
	unlock := s.locks.Lock(areaID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.RemoveAdministrator: %w", err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return nil, err
	}
	toRemove, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.RemoveAdministrator: %w", err)
	}
	if err := area.RemoveAdministrator(&toRemove); err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.RemoveAdministrator: %w", err)
	}
	return area, nil
}

// ReplaceSuperArea points an area at a new parent. Both areas are locked in
// ascending id order since reparenting affects admin inheritance on both
// sides of the edge.
func (s *AreaService) ReplaceSuperArea(ctx context.Context, areaID, actorID, newSuperID uuid.UUID) (*domain.Area, error) {
	unlock := s.locks.LockPair(areaID, newSuperID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.ReplaceSuperArea: %w", err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return nil, err
	}
	super, err := s.areas.GetByID(ctx, newSuperID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.ReplaceSuperArea: %w", err)
	}
	if area.Super() == nil {
		err = area.SetSuperArea(super)
	} else {
		err = area.ReplaceSuperArea(super)
	}
	if err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.ReplaceSuperArea: %w", err)
	}
	return area, nil
}

// RemoveSuperArea detaches an area from its parent. Fails in the domain if
// the area has no administrators of its own.
func (s *AreaService) RemoveSuperArea(ctx context.Context, areaID, actorID uuid.UUID) (*domain.Area, error) {
	unlock := s.locks.Lock(areaID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.RemoveSuperArea: %w", err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return nil, err
	}
	if err := area.RemoveSuperArea(); err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.RemoveSuperArea: %w", err)
	}
	return area, nil
}

// UpdateDescription replaces an area's description.
func (s *AreaService) UpdateDescription(ctx context.Context, areaID, actorID uuid.UUID, description string) (*domain.Area, error) {
	return s.mutate(ctx, "UpdateDescription", areaID, actorID, func(a *domain.Area) error {
		return a.UpdateDescription(description)
	})
}

// UpdateCapacity replaces an area's capacity.
func (s *AreaService) UpdateCapacity(ctx context.Context, areaID, actorID uuid.UUID, capacity int) (*domain.Area, error) {
	return s.mutate(ctx, "UpdateCapacity", areaID, actorID, func(a *domain.Area) error {
		return a.UpdateCapacity(capacity)
	})
}

// AddFeature attaches a feature from the catalog to an area.
func (s *AreaService) AddFeature(ctx context.Context, areaID, actorID uuid.UUID, featureName string) (*domain.Area, error) {
	f, err := s.features.GetByName(ctx, featureName)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.AddFeature: %w", err)
	}
	return s.mutate(ctx, "AddFeature", areaID, actorID, func(a *domain.Area) error {
		return a.AddFeature(&f)
	})
}

// RemoveFeature detaches a feature from an area.
// Returns domain.ErrNotFound if the area does not carry the feature.
func (s *AreaService) RemoveFeature(ctx context.Context, areaID, actorID uuid.UUID, featureName string) (*domain.Area, error) {
	return s.mutate(ctx, "RemoveFeature", areaID, actorID, func(a *domain.Area) error {
		if !a.RemoveFeature(featureName) {
			return fmt.Errorf("feature %q: %w", featureName, domain.ErrNotFound)
		}
		return nil
	})
}

// Delete removes an area. An area with children or outstanding reservations
// cannot be deleted — detach or cancel those first.
func (s *AreaService) Delete(ctx context.Context, areaID, actorID uuid.UUID) error {
	unlock := s.locks.Lock(areaID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return fmt.Errorf("service.AreaService.Delete: %w", err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return err
	}
	children, err := s.areas.CountChildren(ctx, areaID)
	if err != nil {
		return fmt.Errorf("service.AreaService.Delete: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("%w: area has sub areas", domain.ErrState)
	}
	reservations, err := s.reservations.CountByArea(ctx, areaID)
	if err != nil {
		return fmt.Errorf("service.AreaService.Delete: %w", err)
	}
	if reservations > 0 {
		return fmt.Errorf("%w: area has reservations", domain.ErrState)
	}
	if err := s.areas.Delete(ctx, areaID); err != nil {
		return fmt.Errorf("service.AreaService.Delete: %w", err)
	}
	return nil
}

// mutate runs a checked domain mutation under the area's lock and persists
// the result. The acting user must be an effective administrator.
func (s *AreaService) mutate(ctx context.Context, op string, areaID, actorID uuid.UUID, fn func(*domain.Area) error) (*domain.Area, error) {
	unlock := s.locks.Lock(areaID)
	defer unlock()

	area, actor, err := s.loadAreaAndActor(ctx, areaID, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AreaService.%s: %w", op, err)
	}
	if err := requireAdmin(area, actor); err != nil {
		return nil, err
	}
	if err := fn(area); err != nil {
		return nil, err
	}
	if err := s.areas.Update(ctx, area); err != nil {
		return nil, fmt.Errorf("service.AreaService.%s: %w", op, err)
	}
	return area, nil
}

func (s *AreaService) loadAreaAndActor(ctx context.Context, areaID, actorID uuid.UUID) (*domain.Area, *domain.User, error) {
	area, err := s.areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("actor: %w", err)
	}
	return area, &actor, nil
}

// requireAdmin rejects mutations by users who are not effective
// administrators of the area.
func requireAdmin(area *domain.Area, actor *domain.User) error {
	ok, err := area.IsAdmin(actor)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user is not an administrator of this area", domain.ErrState)
	}
	return nil
}
