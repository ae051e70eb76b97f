package service

import (
	"context"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// UserView is a user as seen by the viewer.
type UserView struct {
	*domain.User
	IsSubscribed bool
}

// RecipeView is a recipe decorated with the viewer's relations to it.
type RecipeView struct {
	*domain.Recipe
	Author           UserView
	IsFavorited      bool
	IsInShoppingCart bool
}

// AuthorView is a followed author with a sample of their recipes.
type AuthorView struct {
	UserView
	Recipes      []domain.RecipeShort
	RecipesCount int
}

// viewDecorator resolves viewer-relative flags in batches, one query per flag.
type viewDecorator struct {
	store store.Store
}

func (d viewDecorator) users(ctx context.Context, viewer *domain.User, users []*domain.User) ([]*UserView, error) {
	subscribed := map[int64]bool{}
	if viewer != nil && len(users) > 0 {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var err error
		subscribed, err = d.store.SubscribedAuthorIDs(ctx, viewer.ID, ids)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load subscriptions")
		}
	}

	views := make([]*UserView, len(users))
	for i, u := range users {
		views[i] = &UserView{User: u, IsSubscribed: subscribed[u.ID]}
	}
	return views, nil
}

func (d viewDecorator) recipes(ctx context.Context, viewer *domain.User, recipes []*domain.Recipe) ([]*RecipeView, error) {
	var (
		favorited  = map[int64]bool{}
		inCart     = map[int64]bool{}
		subscribed = map[int64]bool{}
	)

	if viewer != nil && len(recipes) > 0 {
		recipeIDs := make([]int64, len(recipes))
		authorIDs := make([]int64, 0, len(recipes))
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var err error
		if favorited, err = d.store.MemberRecipeIDs(ctx, viewer.ID, domain.PurposeFavorite, recipeIDs); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load favorites")
		}
		if inCart, err = d.store.MemberRecipeIDs(ctx, viewer.ID, domain.PurposeShoppingCart, recipeIDs); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load shopping cart")
		}
		if subscribed, err = d.store.SubscribedAuthorIDs(ctx, viewer.ID, authorIDs); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load subscriptions")
		}
	}

	views := make([]*RecipeView, len(recipes))
	for i, r := range recipes {
		author := r.Author
		if author == nil {
			author = &domain.User{ID: r.AuthorID}
		}
		views[i] = &RecipeView{
			Recipe:           r,
			Author:           UserView{User: author, IsSubscribed: subscribed[r.AuthorID]},
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
	}
	return views, nil
}

// authors expands followed users with up to recipesLimit recipes each
// (all when recipesLimit <= 0) and their total recipe count.
func (d viewDecorator) authors(ctx context.Context, users []*domain.User, recipesLimit int) ([]*AuthorView, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := d.store.CountAuthorRecipes(ctx, ids)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to count recipes")
	}

	views := make([]*AuthorView, len(users))
	for i, u := range users {
		recipes, err := d.store.ListAuthorRecipes(ctx, u.ID, recipesLimit)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load author recipes")
		}
		views[i] = &AuthorView{
			UserView:     UserView{User: u, IsSubscribed: true},
			Recipes:      recipes,
			RecipesCount: counts[u.ID],
		}
	}
	return views, nil
}
