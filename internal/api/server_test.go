package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/api/tags")

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "foodgram_http_requests_total")
}

func TestCatalogEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	ts.ingredient(t, "salt", "g")
	ts.ingredient(t, "sea salt", "g")
	ts.ingredient(t, "pepper", "g")
	lunch := ts.tag(t, "lunch")

	resp := ts.api.Get("/api/ingredients?name=sal")
	require.Equal(t, http.StatusOK, resp.Code)
	var ingredients []IngredientResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "salt", ingredients[0].Name, "prefix matches come first")
	assert.Equal(t, "sea salt", ingredients[1].Name)

	resp = ts.api.Get("/api/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	var tags []TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, TagResponse{ID: lunch, Name: "lunch", Color: "#E26C2D", Slug: "lunch"}, tags[0])

	resp = ts.api.Get("/api/tags/9999")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// trailing slashes route like the bare path
	resp = ts.api.Get("/api/tags/")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestNewAPIError(t *testing.T) {
	t.Run("domain error", func(t *testing.T) {
		err := newAPIError(http.StatusInternalServerError, "boom", domainerrors.Conflict("already there"))
		assert.Equal(t, http.StatusConflict, err.GetStatus())
		assert.Equal(t, "CONFLICT", err.(*APIError).Code)
		assert.Equal(t, "already there", err.Error())
	})

	t.Run("store not found", func(t *testing.T) {
		err := newAPIError(http.StatusInternalServerError, "boom", store.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, err.GetStatus())
	})

	t.Run("schema violation", func(t *testing.T) {
		err := newAPIError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Location: "body.name", Message: "expected required property name"})
		apiErr := err.(*APIError)
		assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
		assert.Equal(t, "VALIDATION", apiErr.Code)
		assert.Equal(t, map[string]string{"body.name": "expected required property name"}, apiErr.Details)
	})

	t.Run("plain error", func(t *testing.T) {
		err := newAPIError(http.StatusInternalServerError, "unexpected", errors.New("disk"))
		assert.Equal(t, "INTERNAL", err.(*APIError).Code)
		assert.Nil(t, err.(*APIError).Details)
	})
}

func TestPageLinks(t *testing.T) {
	p := &PageParams{self: url.URL{Scheme: "http", Host: "api.test", Path: "/api/recipes", RawQuery: "limit=6&tags=lunch"}}

	result := &store.PageResult[int]{Items: []int{1, 2}, Total: 7, Page: store.Page{Number: 2, Size: 2}}
	page := paginate(p, result, func(i int) int { return i * 10 })

	assert.Equal(t, 7, page.Count)
	assert.Equal(t, []int{10, 20}, page.Results)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://api.test/api/recipes?limit=6&page=3&tags=lunch", *page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://api.test/api/recipes?limit=6&tags=lunch", *page.Previous)

	last := &store.PageResult[int]{Items: []int{7}, Total: 7, Page: store.Page{Number: 4, Size: 2}}
	assert.Nil(t, paginate(p, last, func(i int) int { return i }).Next)
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "True", "TRUE"} {
		assert.True(t, truthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "yes"} {
		assert.False(t, truthy(v), v)
	}
}
