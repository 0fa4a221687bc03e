package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/repo"
)

// CatalogService implements business logic for the two admin-curated
// vocabularies areas reference: area types and features.
type CatalogService struct {
	types    repo.AreaTypeRepo
	features repo.FeatureRepo
}

// NewCatalogService constructs a CatalogService backed by the provided repos.
func NewCatalogService(types repo.AreaTypeRepo, features repo.FeatureRepo) *CatalogService {
	return &CatalogService{types: types, features: features}
}

// CreateAreaType validates and persists a new area type.
func (s *CatalogService) CreateAreaType(ctx context.Context, t domain.AreaType) (domain.AreaType, error) {
	if strings.TrimSpace(t.Name) == "" {
		return domain.AreaType{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := s.types.Create(ctx, t); err != nil {
		return domain.AreaType{}, fmt.Errorf("service.CatalogService.CreateAreaType: %w", err)
	}
	return t, nil
}

// ListAreaTypes returns all area types.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) ListAreaTypes(ctx context.Context) ([]domain.AreaType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListAreaTypes: %w", err)
	}
	if types == nil {
		return []domain.AreaType{}, nil
	}
	return types, nil
}

// DeleteAreaType removes an area type by name.
func (s *CatalogService) DeleteAreaType(ctx context.Context, name string) error {
	if err := s.types.Delete(ctx, name); err != nil {
		return fmt.Errorf("service.CatalogService.DeleteAreaType: %w", err)
	}
	return nil
}

// CreateFeature validates and persists a new feature.
func (s *CatalogService) CreateFeature(ctx context.Context, f domain.Feature) (domain.Feature, error) {
	if strings.TrimSpace(f.Name) == "" {
		return domain.Feature{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := s.features.Create(ctx, f); err != nil {
		return domain.Feature{}, fmt.Errorf("service.CatalogService.CreateFeature: %w", err)
	}
	return f, nil
}

// ListFeatures returns all features.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	features, err := s.features.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListFeatures: %w", err)
	}
	if features == nil {
		return []domain.Feature{}, nil
	}
	return features, nil
}

// DeleteFeature removes a feature by name.
func (s *CatalogService) DeleteFeature(ctx context.Context, name string) error {
	if err := s.features.Delete(ctx, name); err != nil {
		return fmt.Errorf("service.CatalogService.DeleteFeature: %w", err)
	}
	return nil
}
