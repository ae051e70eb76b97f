// Package service implements foodgram's business operations on top of the store.
//
// Services validate input, translate store sentinels into domain errors and
// record metrics. They never retry and never report partial success.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/validation"
)

// validate checks request structs carrying `validate:` tags.
var validate = validation.New()

// PasswordHasher hashes new passwords. auth.PasswordParams satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

var _ PasswordHasher = auth.PasswordParams{}

func now() time.Time {
	return time.Now().UTC()
}

// getRecipe loads a recipe, mapping a missing row to NotFound.
func getRecipe(ctx context.Context, s store.RecipeRepository, id int64) (*domain.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("recipe %d not found", id)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load recipe")
	}
	return recipe, nil
}

// getUser loads a user, mapping a missing row to NotFound.
func getUser(ctx context.Context, s store.UserRepository, id int64) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %d not found", id)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load user")
	}
	return user, nil
}
