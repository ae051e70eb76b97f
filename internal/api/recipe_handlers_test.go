package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, annID := ts.signUp(t, "ann")
	flour := ts.ingredient(t, "flour", "g")
	breakfast := ts.tag(t, "breakfast")

	recipe := ts.createRecipe(t, authHeader, "Pancakes", []int64{breakfast}, amount(flour, 200))

	assert.NotZero(t, recipe.ID)
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, annID, recipe.Author.ID)
	assert.Equal(t, 25, recipe.CookingTime)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
	assert.Equal(t, "g", recipe.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)
	assert.True(t, strings.HasPrefix(recipe.Image, "/media/recipes/"), recipe.Image)
	assert.NotEmpty(t, recipe.ImageBlurHash)

	// the stored image is served from the media prefix
	resp := ts.api.Get(recipe.Image)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCreateRecipe_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	flour := ts.ingredient(t, "flour", "g")
	tag := ts.tag(t, "lunch")

	resp := ts.api.Post("/api/recipes", recipeBody(t, "Bread", []int64{tag}, amount(flour, 1)))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateRecipe_CompositionErrors(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signUp(t, "ann")
	flour := ts.ingredient(t, "flour", "g")
	sugar := ts.ingredient(t, "sugar", "g")
	lunch := ts.tag(t, "lunch")

	tests := []struct {
		name    string
		mutate  func(body map[string]any)
		message string
	}{
		{
			name:    "no ingredients",
			mutate:  func(b map[string]any) { b["ingredients"] = []map[string]any{} },
			message: "recipe must contain at least one ingredient",
		},
		{
			name: "repeated ingredient wins over zero amount",
			mutate: func(b map[string]any) {
				b["ingredients"] = []map[string]any{amount(flour, 0), amount(flour, 5)}
			},
			message: "ingredients must not repeat",
		},
		{
			name:    "zero amount",
			mutate:  func(b map[string]any) { b["ingredients"] = []map[string]any{amount(sugar, 0)} },
			message: "ingredient amount must be greater than zero",
		},
		{
			name:    "missing tags",
			mutate:  func(b map[string]any) { delete(b, "tags") },
			message: "recipe must have at least one tag",
		},
		{
			name:    "repeated tag",
			mutate:  func(b map[string]any) { b["tags"] = []int64{lunch, lunch} },
			message: "tags must not repeat",
		},
		{
			name:    "cooking time out of range",
			mutate:  func(b map[string]any) { b["cooking_time"] = 0 },
			message: "cooking time must be between 1 and 32000 minutes",
		},
		{
			name:    "unknown ingredient",
			mutate:  func(b map[string]any) { b["ingredients"] = []map[string]any{amount(4040, 1)} },
			message: "ingredient 4040 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := recipeBody(t, "Soup", []int64{lunch}, amount(flour, 100))
			tt.mutate(body)

			resp := ts.api.Post("/api/recipes", authHeader, body)
			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			apiErr := decodeError(t, resp.Body)
			assert.Equal(t, "VALIDATION", apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	// nothing was written by the rejected requests
	resp := ts.api.Get("/api/recipes")
	require.Equal(t, http.StatusOK, resp.Code)
	var page Paginated[RecipeResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Zero(t, page.Count)
}

func TestCreateRecipe_BadImage(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signUp(t, "ann")
	flour := ts.ingredient(t, "flour", "g")
	lunch := ts.tag(t, "lunch")

	body := recipeBody(t, "Soup", []int64{lunch}, amount(flour, 100))
	body["image"] = "data:image/png;base64,bm90IGFuIGltYWdl"

	resp := ts.api.Post("/api/recipes", authHeader, body)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decodeError(t, resp.Body).Details, "image")
}

func TestUpdateRecipe(t *testing.T) {
	ts := setupTestServer(t)
	annAuth, _ := ts.signUp(t, "ann")
	bobAuth, _ := ts.signUp(t, "bob")
	flour := ts.ingredient(t, "flour", "g")
	milk := ts.ingredient(t, "milk", "ml")
	lunch := ts.tag(t, "lunch")
	dinner := ts.tag(t, "dinner")

	recipe := ts.createRecipe(t, annAuth, "Soup", []int64{lunch}, amount(flour, 100))
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	update := recipeBody(t, "Creamy soup", []int64{dinner}, amount(milk, 300))
	delete(update, "image")

	resp := ts.api.Patch(path, bobAuth, update)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch(path, annAuth, update)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated RecipeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Creamy soup", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image, "image kept when omitted")
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "milk", updated.Ingredients[0].Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)

	resp = ts.api.Patch("/api/recipes/9999", annAuth, update)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteRecipe(t *testing.T) {
	ts := setupTestServer(t)
	annAuth, _ := ts.signUp(t, "ann")
	bobAuth, _ := ts.signUp(t, "bob")
	flour := ts.ingredient(t, "flour", "g")
	lunch := ts.tag(t, "lunch")

	recipe := ts.createRecipe(t, annAuth, "Soup", []int64{lunch}, amount(flour, 100))
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	resp := ts.api.Delete(path, bobAuth)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete(path, annAuth)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get(path)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get(recipe.Image)
	assert.Equal(t, http.StatusNotFound, resp.Code, "image removed with the recipe")
}

func TestListRecipes_Filters(t *testing.T) {
	ts := setupTestServer(t)
	annAuth, annID := ts.signUp(t, "ann")
	bobAuth, _ := ts.signUp(t, "bob")
	flour := ts.ingredient(t, "flour", "g")
	lunch := ts.tag(t, "lunch")
	dinner := ts.tag(t, "dinner")
	snack := ts.tag(t, "snack")

	soup := ts.createRecipe(t, annAuth, "Soup", []int64{lunch}, amount(flour, 1))
	ts.createRecipe(t, annAuth, "Stew", []int64{dinner}, amount(flour, 1))
	chips := ts.createRecipe(t, bobAuth, "Chips", []int64{snack}, amount(flour, 1))

	resp := ts.api.Post(fmt.Sprintf("/api/recipes/%d/favorite", soup.ID), bobAuth)
	require.Equal(t, http.StatusCreated, resp.Code)

	names := func(query string, headers ...any) []string {
		t.Helper()
		resp := ts.api.Get("/api/recipes"+query, headers...)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		var page Paginated[RecipeResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
		out := make([]string, len(page.Results))
		for i, r := range page.Results {
			out[i] = r.Name
		}
		return out
	}

	assert.Equal(t, []string{"Chips", "Stew", "Soup"}, names(""), "newest first")
	assert.Equal(t, []string{"Stew", "Soup"}, names(fmt.Sprintf("?author=%d", annID)))
	assert.Equal(t, []string{"Stew", "Soup"}, names("?tags=lunch&tags=dinner"))
	assert.Equal(t, []string{"Soup"}, names("?is_favorited=1", bobAuth))
	assert.Equal(t, []string{"Soup"}, names("?is_favorited=True", bobAuth))
	assert.Len(t, names("?is_favorited=1"), 3, "ignored for anonymous callers")
	assert.Empty(t, names("?is_in_shopping_cart=true", bobAuth))

	// absurd page numbers are clamped instead of overflowing the offset
	assert.Empty(t, names("?page=9223372036854775807"))

	resp = ts.api.Get(fmt.Sprintf("/api/recipes/%d", chips.ID), bobAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	var got RecipeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.False(t, got.IsFavorited)
	assert.Equal(t, "bob", got.Author.Username)
}
