package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/chairspace/backend/internal/domain"
)

// PlanRepo defines the persistence operations for Plans.
type PlanRepo interface {
	// Create persists a plan.
	Create(ctx context.Context, plan domain.Plan) error

	// GetByID retrieves a single plan by id.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)

	// ListByArea returns a page of an area's plans ordered by start date
	// ascending, plus the total count for that area.
	ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error)

	// CoversRange reports whether a single plan fully contains the days of
	// [start, end). This is the reservation admission check for areas that
	// are not directly reservable.
	CoversRange(ctx context.Context, areaID uuid.UUID, start, end time.Time) (bool, error)

	// Delete removes a plan by id.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

func (r *pgPlanRepo) Create(ctx context.Context, plan domain.Plan) error {
	const q = `
		INSERT INTO plans (plan_id, area_id, name, start_date, end_date, created_at)
		VALUES (@plan_id, @area_id, @name, @start_date, @end_date, @created_at)`

	args := pgx.NamedArgs{
		"plan_id":    plan.ID,
		"area_id":    plan.AreaID,
		"name":       plan.Name,
		"start_date": plan.StartDate,
		"end_date":   plan.EndDate,
		"created_at": plan.CreatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	return nil
}

func (r *pgPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	const q = `
		SELECT plan_id, area_id, name, start_date, end_date, created_at
		FROM plans
		WHERE plan_id = @id`

	plan, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
	}
	return plan, nil
}

func (r *pgPlanRepo) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM plans WHERE area_id = @id`,
		pgx.NamedArgs{"id": areaID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListByArea: count: %w", err)
	}

	const q = `
		SELECT plan_id, area_id, name, start_date, end_date, created_at
		FROM plans
		WHERE area_id = @id
		ORDER BY start_date, name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": areaID, "limit": params.Limit, "offset": params.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListByArea: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PlanRepo.ListByArea: scan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, total, rows.Err()
}

func (r *pgPlanRepo) CoversRange(ctx context.Context, areaID uuid.UUID, start, end time.Time) (bool, error) {
	// The plan interval is a closed range of days; the reservation range is
	// half-open, so its last occupied day is the day of end minus a tick.
	first := domain.DateOnly(start)
	last := domain.DateOnly(end.Add(-time.Nanosecond))

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM plans
			WHERE area_id = @id
			  AND start_date <= @first
			  AND end_date >= @last
		)`

	var covered bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": areaID, "first": first, "last": last}).Scan(&covered)
	if err != nil {
		return false, fmt.Errorf("repo.PlanRepo.CoversRange: %w", err)
	}
	return covered, nil
}

func (r *pgPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM plans WHERE plan_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPlan maps a single database row into a domain.Plan.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		plan   domain.Plan
		id     pgtype.UUID
		areaID pgtype.UUID
	)
	err := s.Scan(&id, &areaID, &plan.Name, &plan.StartDate, &plan.EndDate, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}
	plan.ID = uuid.UUID(id.Bytes)
	plan.AreaID = uuid.UUID(areaID.Bytes)
	return plan, nil
}
