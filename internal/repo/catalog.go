package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chairspace/backend/internal/domain"
)

// AreaTypeRepo defines the persistence operations for the area-type
// vocabulary. Types are keyed by name.
type AreaTypeRepo interface {
	// Create inserts a new area type.
	Create(ctx context.Context, t domain.AreaType) error

	// GetByName retrieves an area type by its name.
	// Returns domain.ErrNotFound if it does not exist.
	GetByName(ctx context.Context, name string) (domain.AreaType, error)

	// List returns all area types ordered by name.
	List(ctx context.Context) ([]domain.AreaType, error)

	// Delete removes an area type by name.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error
}

// FeatureRepo defines the persistence operations for the feature vocabulary.
// Features are keyed by name.
type FeatureRepo interface {
	Create(ctx context.Context, f domain.Feature) error
	GetByName(ctx context.Context, name string) (domain.Feature, error)
	List(ctx context.Context) ([]domain.Feature, error)
	Delete(ctx context.Context, name string) error
}

// pgAreaTypeRepo is the Postgres implementation of AreaTypeRepo.
type pgAreaTypeRepo struct {
	db db
}

// NewAreaTypeRepo constructs an AreaTypeRepo backed by the provided db connection.
func NewAreaTypeRepo(db db) AreaTypeRepo {
	return &pgAreaTypeRepo{db: db}
}

func (r *pgAreaTypeRepo) Create(ctx context.Context, t domain.AreaType) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO area_types (name, description) VALUES (@name, @description)`,
		pgx.NamedArgs{"name": t.Name, "description": t.Description})
	if err != nil {
		return fmt.Errorf("repo.AreaTypeRepo.Create: %w", err)
	}
	return nil
}

func (r *pgAreaTypeRepo) GetByName(ctx context.Context, name string) (domain.AreaType, error) {
	var t domain.AreaType
	err := r.db.QueryRow(ctx,
		`SELECT name, description FROM area_types WHERE name = @name`,
		pgx.NamedArgs{"name": name}).Scan(&t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AreaType{}, fmt.Errorf("repo.AreaTypeRepo.GetByName: %w", domain.ErrNotFound)
		}
		return domain.AreaType{}, fmt.Errorf("repo.AreaTypeRepo.GetByName: %w", err)
	}
	return t, nil
}

func (r *pgAreaTypeRepo) List(ctx context.Context) ([]domain.AreaType, error) {
	rows, err := r.db.Query(ctx, `SELECT name, description FROM area_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repo.AreaTypeRepo.List: %w", err)
	}
	defer rows.Close()

	var types []domain.AreaType
	for rows.Next() {
		var t domain.AreaType
		if err := rows.Scan(&t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("repo.AreaTypeRepo.List: scan: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AreaTypeRepo.List: rows: %w", err)
	}
	return types, nil
}

func (r *pgAreaTypeRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM area_types WHERE name = @name`, pgx.NamedArgs{"name": name})
	if err != nil {
		return fmt.Errorf("repo.AreaTypeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AreaTypeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// pgFeatureRepo is the Postgres implementation of FeatureRepo.
type pgFeatureRepo struct {
	db db
}

// NewFeatureRepo constructs a FeatureRepo backed by the provided db connection.
func NewFeatureRepo(db db) FeatureRepo {
	return &pgFeatureRepo{db: db}
}

func (r *pgFeatureRepo) Create(ctx context.Context, f domain.Feature) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO area_features (name, description) VALUES (@name, @description)`,
		pgx.NamedArgs{"name": f.Name, "description": f.Description})
	if err != nil {
		return fmt.Errorf("repo.FeatureRepo.Create: %w", err)
	}
	return nil
}

func (r *pgFeatureRepo) GetByName(ctx context.Context, name string) (domain.Feature, error) {
	var f domain.Feature
	err := r.db.QueryRow(ctx,
		`SELECT name, description FROM area_features WHERE name = @name`,
		pgx.NamedArgs{"name": name}).Scan(&f.Name, &f.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Feature{}, fmt.Errorf("repo.FeatureRepo.GetByName: %w", domain.ErrNotFound)
		}
		return domain.Feature{}, fmt.Errorf("repo.FeatureRepo.GetByName: %w", err)
	}
	return f, nil
}

func (r *pgFeatureRepo) List(ctx context.Context) ([]domain.Feature, error) {
	rows, err := r.db.Query(ctx, `SELECT name, description FROM area_features ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repo.FeatureRepo.List: %w", err)
	}
	defer rows.Close()

	var features []domain.Feature
	for rows.Next() {
		var f domain.Feature
		if err := rows.Scan(&f.Name, &f.Description); err != nil {
			return nil, fmt.Errorf("repo.FeatureRepo.List: scan: %w", err)
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FeatureRepo.List: rows: %w", err)
	}
	return features, nil
}

func (r *pgFeatureRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM area_features WHERE name = @name`, pgx.NamedArgs{"name": name})
	if err != nil {
		return fmt.Errorf("repo.FeatureRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FeatureRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
