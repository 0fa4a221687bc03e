package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/chairspace/backend/internal/domain"
)

// AreaRepo defines the persistence operations for Areas.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type AreaRepo interface {
	// Create persists a fully built area, its administrator set, and its
	// feature links. The area's ID is assigned by the domain, not the DB.
	Create(ctx context.Context, area *domain.Area) error

	// GetByID loads an area with its administrators, features, and its whole
	// super-area chain. The chain walk is cycle-safe: a parent id already
	// visited terminates the walk instead of looping.
	// Returns domain.ErrNotFound if no area with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Area, error)

	// List returns a page of area summaries ordered by name, plus the total
	// number of areas.
	List(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error)

	// ListChildren returns the direct children of an area ordered by name.
	// Children are derived by query — they are not stored on the parent.
	ListChildren(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error)

	// CountChildren returns the number of direct children of an area.
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)

	// Update overwrites the area row and replaces its administrator set and
	// feature links with the area's current state.
	// Returns domain.ErrNotFound if no area with that ID exists.
	Update(ctx context.Context, area *domain.Area) error

	// Delete removes an area by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgAreaRepo is the Postgres implementation of AreaRepo.
type pgAreaRepo struct {
	db db
}

// NewAreaRepo constructs an AreaRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation. Multi-statement writes (Create, Update) are atomic only when the
// caller hands in a transaction.
func NewAreaRepo(db db) AreaRepo {
	return &pgAreaRepo{db: db}
}

func (r *pgAreaRepo) Create(ctx context.Context, area *domain.Area) error {
	const q = `
		INSERT INTO areas (area_id, name, capacity, description, calendar_link,
		                   reservable, area_type, super_area_id, created_at, updated_at)
		VALUES (@area_id, @name, @capacity, @description, @calendar_link,
		        @reservable, @area_type, @super_area_id, @created_at, @updated_at)`

	args := pgx.NamedArgs{
		"area_id":       area.ID,
		"name":          area.Name,
		"capacity":      area.Capacity,
		"description":   area.Description,
		"calendar_link": area.CalendarLink,
		"reservable":    area.Reservable,
		"area_type":     area.Type.Name,
		"super_area_id": superID(area),
		"created_at":    area.CreatedAt,
		"updated_at":    area.UpdatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.AreaRepo.Create: %w", err)
	}
	if err := r.insertLinks(ctx, area); err != nil {
		return fmt.Errorf("repo.AreaRepo.Create: %w", err)
	}
	return nil
}

func (r *pgAreaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Area, error) {
	area, err := r.loadChain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repo.AreaRepo.GetByID: %w", err)
	}
	return area, nil
}

func (r *pgAreaRepo) List(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM areas`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AreaRepo.List: count: %w", err)
	}

	const q = `
		SELECT area_id, name, capacity, area_type, reservable, super_area_id
		FROM areas
		ORDER BY name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": params.Limit, "offset": params.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AreaRepo.List: %w", err)
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AreaRepo.List: %w", err)
	}
	return summaries, total, nil
}

func (r *pgAreaRepo) ListChildren(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error) {
	const q = `
		SELECT area_id, name, capacity, area_type, reservable, super_area_id
		FROM areas
		WHERE super_area_id = @id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("repo.AreaRepo.ListChildren: %w", err)
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AreaRepo.ListChildren: %w", err)
	}
	return summaries, nil
}

func (r *pgAreaRepo) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM areas WHERE super_area_id = @id`,
		pgx.NamedArgs{"id": id}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.AreaRepo.CountChildren: %w", err)
	}
	return n, nil
}

func (r *pgAreaRepo) Update(ctx context.Context, area *domain.Area) error {
	const q = `
		UPDATE areas
		SET name          = @name,
		    capacity      = @capacity,
		    description   = @description,
		    calendar_link = @calendar_link,
		    reservable    = @reservable,
		    area_type     = @area_type,
		    super_area_id = @super_area_id,
		    updated_at    = now()
		WHERE area_id = @area_id`

	args := pgx.NamedArgs{
		"area_id":       area.ID,
		"name":          area.Name,
		"capacity":      area.Capacity,
		"description":   area.Description,
		"calendar_link": area.CalendarLink,
		"reservable":    area.Reservable,
		"area_type":     area.Type.Name,
		"super_area_id": superID(area),
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.AreaRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AreaRepo.Update: %w", domain.ErrNotFound)
	}

	// Replace the link tables with the area's current state.
	if _, err := r.db.Exec(ctx,
		`DELETE FROM area_administrators WHERE area_id = @id`, pgx.NamedArgs{"id": area.ID}); err != nil {
		return fmt.Errorf("repo.AreaRepo.Update: clear admins: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		`DELETE FROM area_feature_links WHERE area_id = @id`, pgx.NamedArgs{"id": area.ID}); err != nil {
		return fmt.Errorf("repo.AreaRepo.Update: clear features: %w", err)
	}
	if err := r.insertLinks(ctx, area); err != nil {
		return fmt.Errorf("repo.AreaRepo.Update: %w", err)
	}
	return nil
}

func (r *pgAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM areas WHERE area_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AreaRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AreaRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// insertLinks writes the administrator and feature link rows for an area.
func (r *pgAreaRepo) insertLinks(ctx context.Context, area *domain.Area) error {
	for _, u := range area.DirectAdministrators() {
		_, err := r.db.Exec(ctx,
			`INSERT INTO area_administrators (area_id, user_id) VALUES (@area_id, @user_id)`,
			pgx.NamedArgs{"area_id": area.ID, "user_id": u.ID})
		if err != nil {
			return fmt.Errorf("insert administrator: %w", err)
		}
	}
	for _, f := range area.Features() {
		_, err := r.db.Exec(ctx,
			`INSERT INTO area_feature_links (area_id, feature_name) VALUES (@area_id, @feature_name)`,
			pgx.NamedArgs{"area_id": area.ID, "feature_name": f.Name})
		if err != nil {
			return fmt.Errorf("insert feature link: %w", err)
		}
	}
	return nil
}

// areaRow is the raw areas table row before admins/features/super are attached.
type areaRow struct {
	id           uuid.UUID
	name         string
	capacity     int
	description  string
	calendarLink string
	reservable   bool
	typeName     string
	typeDesc     string
	superID      *uuid.UUID
	createdAt    pgtype.Timestamptz
	updatedAt    pgtype.Timestamptz
}

// loadChain loads the area and walks its super chain iteratively. The visited
// set makes the walk cycle-safe even if the stored hierarchy loops: the
// in-memory chain is simply cut at the first repeated id, and the domain's
// own traversals take care of the rest.
func (r *pgAreaRepo) loadChain(ctx context.Context, id uuid.UUID) (*domain.Area, error) {
	visited := make(map[uuid.UUID]bool)
	var (
		root    *domain.Area
		current *domain.Area
	)
	next := &id
	for next != nil && !visited[*next] {
		visited[*next] = true
		row, err := r.loadRow(ctx, *next)
		if err != nil {
			if root != nil && errors.Is(err, domain.ErrNotFound) {
				break // dangling super pointer; treat as top of chain
			}
			return nil, err
		}
		admins, err := r.loadAdmins(ctx, row.id)
		if err != nil {
			return nil, err
		}
		features, err := r.loadFeatures(ctx, row.id)
		if err != nil {
			return nil, err
		}
		area := domain.RehydrateArea(
			row.id, row.name, row.capacity, row.description, row.calendarLink,
			row.reservable, domain.AreaType{Name: row.typeName, Description: row.typeDesc},
			nil, admins, features, row.createdAt.Time, row.updatedAt.Time,
		)
		if root == nil {
			root = area
		} else {
			if err := current.SetSuperArea(area); err != nil {
				break // self-parent row; stop the walk
			}
		}
		current = area
		next = row.superID
	}
	if root == nil {
		return nil, domain.ErrNotFound
	}
	return root, nil
}

func (r *pgAreaRepo) loadRow(ctx context.Context, id uuid.UUID) (areaRow, error) {
	const q = `
		SELECT a.area_id, a.name, a.capacity, a.description, a.calendar_link,
		       a.reservable, a.area_type, coalesce(t.description, ''),
		       a.super_area_id, a.created_at, a.updated_at
		FROM areas a
		LEFT JOIN area_types t ON t.name = a.area_type
		WHERE a.area_id = @id`

	var (
		row   areaRow
		rowID pgtype.UUID
		super pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(
		&rowID, &row.name, &row.capacity, &row.description, &row.calendarLink,
		&row.reservable, &row.typeName, &row.typeDesc,
		&super, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return areaRow{}, domain.ErrNotFound
		}
		return areaRow{}, err
	}
	row.id = uuid.UUID(rowID.Bytes)
	if super.Valid {
		sid := uuid.UUID(super.Bytes)
		row.superID = &sid
	}
	return row, nil
}

func (r *pgAreaRepo) loadAdmins(ctx context.Context, areaID uuid.UUID) ([]domain.User, error) {
	const q = `
		SELECT u.user_id, u.first_name, u.last_name, u.email, u.created_at
		FROM area_administrators aa
		JOIN users u ON u.user_id = aa.user_id
		WHERE aa.area_id = @id
		ORDER BY u.user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": areaID})
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("load admins: scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *pgAreaRepo) loadFeatures(ctx context.Context, areaID uuid.UUID) ([]domain.Feature, error) {
	const q = `
		SELECT f.name, f.description
		FROM area_feature_links l
		JOIN area_features f ON f.name = l.feature_name
		WHERE l.area_id = @id
		ORDER BY f.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": areaID})
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	defer rows.Close()

	var features []domain.Feature
	for rows.Next() {
		var f domain.Feature
		if err := rows.Scan(&f.Name, &f.Description); err != nil {
			return nil, fmt.Errorf("load features: scan: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func scanSummaries(rows pgx.Rows) ([]domain.AreaSummary, error) {
	var out []domain.AreaSummary
	for rows.Next() {
		var (
			s     domain.AreaSummary
			id    pgtype.UUID
			super pgtype.UUID
		)
		if err := rows.Scan(&id, &s.Name, &s.Capacity, &s.TypeName, &s.Reservable, &super); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		if super.Valid {
			sid := uuid.UUID(super.Bytes)
			s.SuperID = &sid
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// superID extracts the nullable parent id for SQL binding.
func superID(area *domain.Area) *uuid.UUID {
	if s := area.Super(); s != nil {
		id := s.ID
		return &id
	}
	return nil
}
