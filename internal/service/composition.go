package service

import (
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
)

// CompositionLimits bounds the numeric parts of a recipe.
type CompositionLimits struct {
	CookingTimeMin      int
	CookingTimeMax      int
	MaxIngredientAmount int
}

// CompositionValidator checks the ingredient and tag lists of a recipe
// submission as a whole. Rules run in a fixed order and the first failure is
// reported.
type CompositionValidator struct {
	limits CompositionLimits
}

// NewCompositionValidator creates a validator with limits.
func NewCompositionValidator(limits CompositionLimits) *CompositionValidator {
	return &CompositionValidator{limits: limits}
}

// Validate returns a Validation error naming the first broken rule, or nil.
func (v *CompositionValidator) Validate(c domain.RecipeComposition) error {
	if len(c.Ingredients) == 0 {
		return domainerrors.Validation("recipe must contain at least one ingredient")
	}

	seen := make(map[int64]struct{}, len(c.Ingredients))
	for _, ia := range c.Ingredients {
		if _, dup := seen[ia.IngredientID]; dup {
			return domainerrors.Validation("ingredients must not repeat")
		}
		seen[ia.IngredientID] = struct{}{}
	}

	for _, ia := range c.Ingredients {
		if ia.Amount <= 0 {
			return domainerrors.Validation("ingredient amount must be greater than zero")
		}
	}
	if limit := v.limits.MaxIngredientAmount; limit > 0 {
		for _, ia := range c.Ingredients {
			if ia.Amount > limit {
				return domainerrors.Validationf("ingredient amount must not exceed %d", limit)
			}
		}
	}

	if len(c.TagIDs) == 0 {
		return domainerrors.Validation("recipe must have at least one tag")
	}

	tags := make(map[int64]struct{}, len(c.TagIDs))
	for _, id := range c.TagIDs {
		if _, dup := tags[id]; dup {
			return domainerrors.Validation("tags must not repeat")
		}
		tags[id] = struct{}{}
	}

	if c.CookingTime < v.limits.CookingTimeMin || c.CookingTime > v.limits.CookingTimeMax {
		return domainerrors.Validationf("cooking time must be between %d and %d minutes",
			v.limits.CookingTimeMin, v.limits.CookingTimeMax)
	}

	return nil
}
