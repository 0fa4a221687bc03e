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

// CreateReservationParams carries the inputs for reserving an area.
type CreateReservationParams struct {
	AreaID  uuid.UUID
	UserID  uuid.UUID
	Start   time.Time
	End     time.Time
	Comment string
}

// ReservationService implements business logic for Reservation operations.
// Creating a reservation is the check-then-act heart of the system: the
// area's active reservations are loaded into a Ledger, the candidate is run
// through it, and only an admitted reservation is persisted. The whole
// sequence holds the area's lock so no concurrent writer can sneak an
// overlapping reservation in between the check and the insert.
type ReservationService struct {
	areas        repo.AreaRepo
	users        repo.UserRepo
	reservations repo.ReservationRepo
	plans        repo.PlanRepo
	locks        *AreaLocks
	clock        domain.Clock
	log          *slog.Logger
}

// NewReservationService constructs a ReservationService backed by the
// provided repos. The locks registry must be shared with the AreaService.
func NewReservationService(
	areas repo.AreaRepo,
	users repo.UserRepo,
	reservations repo.ReservationRepo,
	plans repo.PlanRepo,
	locks *AreaLocks,
	clock domain.Clock,
	log *slog.Logger,
) *ReservationService {
	return &ReservationService{
		areas:        areas,
		users:        users,
		reservations: reservations,
		plans:        plans,
		locks:        locks,
		clock:        clock,
		log:          log,
	}
}

// Create validates the requested range, checks it against the area's ledger,
// and persists the reservation if no existing entry overlaps.
// Error kinds callers should expect:
//   - domain.ErrNotFound — unknown area or user
//   - domain.ErrState — start not in the future, or area neither reservable
//     nor opened by a plan covering the requested days
//   - domain.ErrValidation — inverted/empty range or blank comment
//   - domain.ErrConflict (a *domain.ConflictError) — range overlaps an
//     existing reservation; the error carries the blocking entry's bounds
func (s *ReservationService) Create(ctx context.Context, p CreateReservationParams) (domain.ReservationRecord, error) {
	unlock := s.locks.Lock(p.AreaID)
	defer unlock()

	area, err := s.areas.GetByID(ctx, p.AreaID)
	if err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	tr, err := domain.NewTimeRange(p.Start, p.End, s.clock)
	if err != nil {
		return domain.ReservationRecord{}, err
	}

	// A non-reservable area can still be claimed while a plan covers the
	// requested days.
	if !area.Reservable {
		covered, err := s.plans.CoversRange(ctx, area.ID, tr.Start, tr.End)
		if err != nil {
			return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.Create: %w", err)
		}
		if !covered {
			return domain.ReservationRecord{}, fmt.Errorf("%w: area %q is not reservable", domain.ErrState, area.Name)
		}
	}

	res, err := domain.NewReservation(area, &user, tr, p.Comment)
	if err != nil {
		return domain.ReservationRecord{}, err
	}

	ledger, err := s.loadLedger(ctx, area.ID)
	if err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	if err := ledger.Insert(res); err != nil {
		return domain.ReservationRecord{}, err
	}

	rec := domain.ReservationRecord{
		ID:        res.ID,
		AreaID:    area.ID,
		UserID:    user.ID,
		Start:     res.Range.Start,
		End:       res.Range.End,
		Comment:   res.Comment,
		CreatedAt: res.CreatedAt,
	}
	if err := s.reservations.Create(ctx, rec); err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	return rec, nil
}

// Cancel removes a reservation. Allowed for the reservation's owner and for
// effective administrators of the reserved area; anyone else gets ErrState.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, actorID uuid.UUID) error {
	rec, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("service.ReservationService.Cancel: %w", err)
	}

	unlock := s.locks.Lock(rec.AreaID)
	defer unlock()

	if rec.UserID != actorID {
		area, err := s.areas.GetByID(ctx, rec.AreaID)
		if err != nil {
			return fmt.Errorf("service.ReservationService.Cancel: %w", err)
		}
		actor, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("service.ReservationService.Cancel: actor: %w", err)
		}
		if err := requireAdmin(area, &actor); err != nil {
			return err
		}
	}
	if err := s.reservations.Delete(ctx, reservationID); err != nil {
		return fmt.Errorf("service.ReservationService.Cancel: %w", err)
	}
	return nil
}

// GetByID returns a single reservation by id.
func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error) {
	rec, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("service.ReservationService.GetByID: %w", err)
	}
	return rec, nil
}

// ListByArea returns a page of an area's reservations in ascending start
// order, plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReservationService) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.ListByArea: %w", err)
	}
	recs, total, err := s.reservations.ListByArea(ctx, areaID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.ListByArea: %w", err)
	}
	if recs == nil {
		recs = []domain.ReservationRecord{}
	}
	return recs, total, nil
}

// ListByAreaBetween returns every reservation for the area overlapping the
// window [from, until), in ascending start order. A zero from defaults to
// now; a zero until defaults to twelve hours past from.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReservationService) ListByAreaBetween(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error) {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByAreaBetween: %w", err)
	}
	if from.IsZero() {
		from = s.clock.Now()
	}
	if until.IsZero() {
		until = from.Add(12 * time.Hour)
	}
	if !until.After(from) {
		return nil, fmt.Errorf("%w: until must be after from", domain.ErrValidation)
	}
	recs, err := s.reservations.ListByAreaBetween(ctx, areaID, from, until)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByAreaBetween: %w", err)
	}
	if recs == nil {
		recs = []domain.ReservationRecord{}
	}
	return recs, nil
}

// Frequency reports the fraction of a day or month the area is occupied by
// reservations, as a value in [0, 1]. Zero year and month default to the
// current ones; day zero means the whole month, otherwise that single day.
// Reservations are clamped to the window, so one running past midnight only
// counts the hours inside it.
func (s *ReservationService) Frequency(ctx context.Context, areaID uuid.UUID, year, month, day int) (float64, error) {
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return 0, fmt.Errorf("service.ReservationService.Frequency: %w", err)
	}

	now := s.clock.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d is out of range 1 to 12", domain.ErrArgument, month)
	}

	var from, until time.Time
	if day == 0 {
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		until = from.AddDate(0, 1, 0)
	} else {
		from = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if from.Day() != day {
			return 0, fmt.Errorf("%w: day %d does not exist in %d-%02d", domain.ErrArgument, day, year, month)
		}
		until = from.AddDate(0, 0, 1)
	}

	recs, err := s.reservations.ListByAreaBetween(ctx, areaID, from, until)
	if err != nil {
		return 0, fmt.Errorf("service.ReservationService.Frequency: %w", err)
	}

	var occupied time.Duration
	for _, rec := range recs {
		start, end := rec.Start, rec.End
		if start.Before(from) {
			start = from
		}
		if end.After(until) {
			end = until
		}
		occupied += end.Sub(start)
	}
	return float64(occupied) / float64(until.Sub(from)), nil
}

// ListByUser returns a page of a user's reservations in ascending start
// order, plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReservationService) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	recs, total, err := s.reservations.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.ListByUser: %w", err)
	}
	if recs == nil {
		recs = []domain.ReservationRecord{}
	}
	return recs, total, nil
}

// loadLedger builds the area's conflict-detection ledger from every stored
// reservation that has not yet ended. A conflict while hydrating means the
// store itself violates the no-overlap invariant — that is surfaced, not
// papered over.
func (s *ReservationService) loadLedger(ctx context.Context, areaID uuid.UUID) (*domain.Ledger, error) {
	recs, err := s.reservations.ListActiveByArea(ctx, areaID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	ledger := domain.NewLedger(areaID)
	for _, rec := range recs {
		if err := ledger.Insert(rec.LedgerEntry()); err != nil {
			return nil, fmt.Errorf("stored reservations overlap (reservation %s): %w", rec.ID, err)
		}
	}
	return ledger, nil
}
