package service

import (
	"context"
	"errors"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// CatalogService serves the read-only tag and ingredient reference data.
type CatalogService struct {
	store store.Store
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list tags")
	}
	return tags, nil
}

// GetTag returns one tag.
func (s *CatalogService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("tag %d not found", id)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load tag")
	}
	return tag, nil
}

// SearchIngredients lists ingredients whose name starts with query, then
// those containing it. An empty query lists all.
func (s *CatalogService) SearchIngredients(ctx context.Context, query string) ([]*domain.Ingredient, error) {
	items, err := s.store.SearchIngredients(ctx, query)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to search ingredients")
	}
	return items, nil
}

// GetIngredient returns one ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("ingredient %d not found", id)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load ingredient")
	}
	return ing, nil
}
