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

// ReservationRepo defines the persistence operations for Reservations.
// It speaks domain.ReservationRecord — flat rows referencing the area and
// user by id. The service layer inflates records into Ledger entries when it
// needs conflict detection.
type ReservationRepo interface {
	// Create persists an admitted reservation. The service must have run the
	// reservation through the area's ledger before calling this.
	Create(ctx context.Context, rec domain.ReservationRecord) error

	// GetByID retrieves a single reservation by id.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error)

	// ListByArea returns a page of an area's reservations ordered by start
	// time ascending, plus the total count for that area.
	ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)

	// ListByUser returns a page of a user's reservations ordered by start
	// time ascending, plus the total count for that user.
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)

	// ListByAreaBetween returns every reservation for the area that overlaps
	// the window [from, until), ordered by start time. Reservations that only
	// partially overlap the window are included.
	ListByAreaBetween(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error)

	// ListActiveByArea returns every reservation for the area that ends after
	// the given instant, ordered by start time. This is the working set the
	// service loads into a Ledger for conflict checks — reservations entirely
	// in the past cannot conflict with a future range.
	ListActiveByArea(ctx context.Context, areaID uuid.UUID, after time.Time) ([]domain.ReservationRecord, error)

	// CountByArea returns the number of reservations held against an area.
	CountByArea(ctx context.Context, areaID uuid.UUID) (int, error)

	// Delete removes a reservation by id.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

func (r *pgReservationRepo) Create(ctx context.Context, rec domain.ReservationRecord) error {
	const q = `
		INSERT INTO reservations (reservation_id, area_id, user_id, start_time, end_time, comment, created_at)
		VALUES (@reservation_id, @area_id, @user_id, @start_time, @end_time, @comment, @created_at)`

	args := pgx.NamedArgs{
		"reservation_id": rec.ID,
		"area_id":        rec.AreaID,
		"user_id":        rec.UserID,
		"start_time":     rec.Start,
		"end_time":       rec.End,
		"comment":        rec.Comment,
		"created_at":     rec.CreatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ReservationRepo.Create: %w", err)
	}
	return nil
}

func (r *pgReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error) {
	const q = `
		SELECT reservation_id, area_id, user_id, start_time, end_time, comment, created_at
		FROM reservations
		WHERE reservation_id = @id`

	rec, err := scanReservation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", err)
	}
	return rec, nil
}

func (r *pgReservationRepo) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM reservations WHERE area_id = @id`,
		pgx.NamedArgs{"id": areaID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByArea: count: %w", err)
	}

	const q = `
		SELECT reservation_id, area_id, user_id, start_time, end_time, comment, created_at
		FROM reservations
		WHERE area_id = @id
		ORDER BY start_time
		LIMIT @limit OFFSET @offset`

	recs, err := r.list(ctx, q, pgx.NamedArgs{"id": areaID, "limit": params.Limit, "offset": params.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByArea: %w", err)
	}
	return recs, total, nil
}

func (r *pgReservationRepo) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM reservations WHERE user_id = @id`,
		pgx.NamedArgs{"id": userID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByUser: count: %w", err)
	}

	const q = `
		SELECT reservation_id, area_id, user_id, start_time, end_time, comment, created_at
		FROM reservations
		WHERE user_id = @id
		ORDER BY start_time
		LIMIT @limit OFFSET @offset`

	recs, err := r.list(ctx, q, pgx.NamedArgs{"id": userID, "limit": params.Limit, "offset": params.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByUser: %w", err)
	}
	return recs, total, nil
}

func (r *pgReservationRepo) ListByAreaBetween(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error) {
	const q = `
		SELECT reservation_id, area_id, user_id, start_time, end_time, comment, created_at
		FROM reservations
		WHERE area_id = @id AND start_time < @until AND end_time > @from
		ORDER BY start_time`

	recs, err := r.list(ctx, q, pgx.NamedArgs{"id": areaID, "from": from, "until": until})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByAreaBetween: %w", err)
	}
	return recs, nil
}

func (r *pgReservationRepo) ListActiveByArea(ctx context.Context, areaID uuid.UUID, after time.Time) ([]domain.ReservationRecord, error) {
	const q = `
		SELECT reservation_id, area_id, user_id, start_time, end_time, comment, created_at
		FROM reservations
		WHERE area_id = @id AND end_time > @after
		ORDER BY start_time`

	recs, err := r.list(ctx, q, pgx.NamedArgs{"id": areaID, "after": after})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListActiveByArea: %w", err)
	}
	return recs, nil
}

func (r *pgReservationRepo) CountByArea(ctx context.Context, areaID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM reservations WHERE area_id = @id`,
		pgx.NamedArgs{"id": areaID}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.CountByArea: %w", err)
	}
	return n, nil
}

func (r *pgReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reservations WHERE reservation_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgReservationRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.ReservationRecord, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.ReservationRecord
	for rows.Next() {
		rec, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// scanReservation maps a single database row into a domain.ReservationRecord.
func scanReservation(s scanner) (domain.ReservationRecord, error) {
	var (
		rec    domain.ReservationRecord
		id     pgtype.UUID
		areaID pgtype.UUID
		userID pgtype.UUID
	)
	err := s.Scan(&id, &areaID, &userID, &rec.Start, &rec.End, &rec.Comment, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReservationRecord{}, domain.ErrNotFound
		}
		return domain.ReservationRecord{}, err
	}
	rec.ID = uuid.UUID(id.Bytes)
	rec.AreaID = uuid.UUID(areaID.Bytes)
	rec.UserID = uuid.UUID(userID.Bytes)
	return rec, nil
}
