package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func TestSubscriptionService_SubscribeAndUnsubscribe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.user(t, "ann")
	bob := env.user(t, "bob")

	view, err := env.subs.Subscribe(ctx, ann.ID, bob.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, view.ID)
	assert.True(t, view.IsSubscribed)
	assert.Empty(t, view.Recipes)
	assert.Zero(t, view.RecipesCount)

	_, err = env.subs.Subscribe(ctx, ann.ID, bob.ID, 0)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	require.NoError(t, env.subs.Unsubscribe(ctx, ann.ID, bob.ID))
	assert.ErrorIs(t, env.subs.Unsubscribe(ctx, ann.ID, bob.ID), domainerrors.ErrNotFound)
}

func TestSubscriptionService_SelfSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.user(t, "ann")

	_, err := env.subs.Subscribe(ctx, ann.ID, ann.ID, 0)
	require.ErrorIs(t, err, domainerrors.ErrSelfSubscription)
	_, err = env.subs.Subscribe(ctx, ann.ID, ann.ID, 0)
	assert.ErrorIs(t, err, domainerrors.ErrSelfSubscription, "checked before uniqueness, every time")

	assert.ErrorIs(t, env.subs.Unsubscribe(ctx, ann.ID, ann.ID), domainerrors.ErrSelfSubscription)
}

func TestSubscriptionService_MissingAuthor(t *testing.T) {
	env := newTestEnv(t)
	ann := env.user(t, "ann")

	_, err := env.subs.Subscribe(context.Background(), ann.ID, 999, 0)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, env.subs.Unsubscribe(context.Background(), ann.ID, 999), domainerrors.ErrNotFound)
}

func TestSubscriptionService_RecipesLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.user(t, "ann")
	bob := env.user(t, "bob")
	tag := env.tag(t, "dinner")
	salt := env.ingredient(t, "salt", "g")
	for _, name := range []string{"Stew", "Pie", "Curry"} {
		env.recipe(t, bob, name, []int64{tag}, line(salt, 1))
	}

	view, err := env.subs.Subscribe(ctx, ann.ID, bob.ID, 2)
	require.NoError(t, err)
	assert.Len(t, view.Recipes, 2)
	assert.Equal(t, 3, view.RecipesCount)

	page, err := env.subs.ListSubscriptions(ctx, ann.ID, store.Page{Number: 1, Size: 10}, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Items[0].Recipes, 3, "no limit returns every recipe")
}

func TestSubscriptionService_ListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.user(t, "ann")
	for _, name := range []string{"bob", "cat", "dan"} {
		_, err := env.subs.Subscribe(ctx, ann.ID, env.user(t, name).ID, 0)
		require.NoError(t, err)
	}

	first, err := env.subs.ListSubscriptions(ctx, ann.ID, store.Page{Number: 1, Size: 2}, 0)
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.Equal(t, 3, first.Total)
	assert.True(t, first.HasNext())

	second, err := env.subs.ListSubscriptions(ctx, ann.ID, store.Page{Number: 2, Size: 2}, 0)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
}
