package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/metrics"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// MembershipService manages favorites and shopping carts. Duplicates are
// detected only by the store's unique index, never by a prior read.
type MembershipService struct {
	store  store.Store
	logger *slog.Logger
}

// NewMembershipService creates a MembershipService.
func NewMembershipService(s store.Store, logger *slog.Logger) *MembershipService {
	return &MembershipService{store: s, logger: logger}
}

// Add puts recipeID into ownerID's collection and returns the recipe's short view.
func (s *MembershipService) Add(ctx context.Context, ownerID, recipeID int64, purpose domain.Purpose) (*domain.RecipeShort, error) {
	if !purpose.Valid() {
		return nil, domainerrors.Validationf("unknown collection %q", purpose)
	}

	recipe, err := getRecipe(ctx, s.store, recipeID)
	if err != nil {
		return nil, err
	}

	err = s.store.AddMembership(ctx, &domain.MembershipEntry{
		OwnerID:   ownerID,
		RecipeID:  recipeID,
		Purpose:   purpose,
		CreatedAt: now(),
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return nil, domainerrors.Conflictf("recipe is already in your %s", purpose.Collection()).WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		// recipe deleted between the lookup and the insert
		return nil, domainerrors.NotFoundf("recipe %d not found", recipeID).WithCause(err)
	case err != nil:
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "failed to add recipe to %s", purpose.Collection())
	}

	metrics.RecordMembership(string(purpose), metrics.ActionAdd)
	logger.FromContext(ctx, s.logger).Info("recipe added",
		"owner_id", ownerID,
		"recipe_id", recipeID,
		"purpose", purpose,
	)

	short := recipe.Short()
	return &short, nil
}

// Remove takes recipeID out of ownerID's collection.
func (s *MembershipService) Remove(ctx context.Context, ownerID, recipeID int64, purpose domain.Purpose) error {
	if !purpose.Valid() {
		return domainerrors.Validationf("unknown collection %q", purpose)
	}

	if _, err := getRecipe(ctx, s.store, recipeID); err != nil {
		return err
	}

	err := s.store.RemoveMembership(ctx, ownerID, recipeID, purpose)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("recipe is not in your %s", purpose.Collection()).WithCause(err)
	case err != nil:
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "failed to remove recipe from %s", purpose.Collection())
	}

	metrics.RecordMembership(string(purpose), metrics.ActionRemove)
	logger.FromContext(ctx, s.logger).Info("recipe removed",
		"owner_id", ownerID,
		"recipe_id", recipeID,
		"purpose", purpose,
	)
	return nil
}
