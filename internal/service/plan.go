package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/repo"
)

// CreatePlanParams carries the inputs for opening an area for a block of days.
type CreatePlanParams struct {
	AreaID    uuid.UUID
	ActorID   uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// PlanService implements business logic for Plan operations. Plans belong to
// areas that are not directly reservable; while a plan is in effect the
// reservation admission check treats the area as reservable for the covered
// days. Creating or deleting a plan requires an effective administrator of
// the area, since a plan changes who can claim it.
type PlanService struct {
	plans repo.PlanRepo
	areas repo.AreaRepo
	users repo.UserRepo
	locks *AreaLocks
	log   *slog.Logger
}

// NewPlanService constructs a PlanService backed by the provided repos.
// The locks registry must be shared with the other area-mutating services.
func NewPlanService(plans repo.PlanRepo, areas repo.AreaRepo, users repo.UserRepo, locks *AreaLocks, log *slog.Logger) *PlanService {
	return &PlanService{
		plans: plans,
		areas: areas,
		users: users,
		locks: locks,
		log:   log,
	}
}

// Create validates and persists a plan for the area. The area must exist,
// must not be directly reservable, and the actor must be one of its
// effective administrators.
func (s *PlanService) Create(ctx context.Context, p CreatePlanParams) (domain.Plan, error) {
	unlock := s.locks.Lock(p.AreaID)
	defer unlock()

	area, err := s.areas.GetByID(ctx, p.AreaID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	actor, err := s.users.GetByID(ctx, p.ActorID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: actor: %w", err)
	}
	if err := requireAdmin(area, &actor); err != nil {
		return domain.Plan{}, err
	}

	plan, err := domain.NewPlan(area, p.Name, p.StartDate, p.EndDate)
	if err != nil {
		return domain.Plan{}, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	return plan, nil
}

// GetByID returns a single plan by id.
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.GetByID: %w", err)
	}
	return plan, nil
}

// ListByArea returns a page of an area's plans in ascending start-date order,
// plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlanService) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error) {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return nil, 0, fmt.Errorf("service.PlanService.ListByArea: %w", err)
	}
	plans, total, err := s.plans.ListByArea(ctx, areaID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PlanService.ListByArea: %w", err)
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, total, nil
}

// Delete removes a plan. Only an effective administrator of the plan's area
// may delete it; reservations already admitted under the plan stay in place.
func (s *PlanService) Delete(ctx context.Context, planID, actorID uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}

	unlock := s.locks.Lock(plan.AreaID)
	defer unlock()

	area, err := s.areas.GetByID(ctx, plan.AreaID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: actor: %w", err)
	}
	if err := requireAdmin(area, &actor); err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, planID); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}
