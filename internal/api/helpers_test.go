package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/ratelimit"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/store/sqlite"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
	cfg   *config.Config
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Logger: config.LoggerConfig{Level: "error"},
		Data:   config.DataConfig{BasePath: dir},
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
			MediaURL:       "/media/",
		},
		Auth: config.AuthConfig{AccessTokenDuration: time.Hour},
		Recipes: config.RecipesConfig{
			CookingTimeMin:      1,
			CookingTimeMax:      32000,
			IngredientAmountMax: 32000,
			PageSize:            6,
			MaxPageSize:         100,
			MaxImageBytes:       1 << 20,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, logger.Discard(), nil)
}

// setupTestServerWith builds a server logging to log. wrap, when set,
// decorates the store every service and handler sees.
func setupTestServerWith(t *testing.T, log *slog.Logger, wrap func(store.Store) store.Store) *testServer {
	t.Helper()

	dir := t.TempDir()
	cfg := testConfig(dir)

	db, err := sqlite.Open(filepath.Join(dir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var st store.Store = db
	if wrap != nil {
		st = wrap(db)
	}

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	media, err := images.NewStorage(cfg.Data.MediaPath(), "recipes")
	require.NoError(t, err)

	hasher := auth.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	limits := service.CompositionLimits{
		CookingTimeMin:      cfg.Recipes.CookingTimeMin,
		CookingTimeMax:      cfg.Recipes.CookingTimeMax,
		MaxIngredientAmount: cfg.Recipes.IngredientAmountMax,
	}

	services := &Services{
		Auth:          service.NewAuthService(st, tokens, log),
		Users:         service.NewUserService(st, hasher, log),
		Recipes:       service.NewRecipeService(st, service.NewCompositionValidator(limits), images.NewUploader(media, cfg.Recipes.MaxImageBytes, log), log),
		Memberships:   service.NewMembershipService(st, log),
		ShoppingList:  service.NewShoppingListService(st, log),
		Subscriptions: service.NewSubscriptionService(st, log),
		Catalog:       service.NewCatalogService(st),
	}

	s := NewServer(st, services, cfg, log)
	t.Cleanup(s.Close)
	// Tests log in far more often than the production limit allows.
	s.authRateLimiter.Stop()
	s.authRateLimiter = ratelimit.PerInterval(1000, time.Minute, 1000)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api), store: db, cfg: cfg}
}

// signUp registers username through the API and returns an auth header for it.
func (ts *testServer) signUp(t *testing.T, username string) (string, int64) {
	t.Helper()

	resp := ts.api.Post("/api/users", map[string]any{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First" + username,
		"last_name":  "Last" + username,
		"password":   "password-" + username,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var user RegisteredUserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))

	resp = ts.api.Post("/api/auth/token/login", map[string]any{
		"email":    username + "@example.com",
		"password": "password-" + username,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var token TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &token))

	return "Authorization: Token " + token.AuthToken, user.ID
}

func (ts *testServer) ingredient(t *testing.T, name, unit string) int64 {
	t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, ts.store.CreateIngredient(context.Background(), i))
	return i.ID
}

func (ts *testServer) tag(t *testing.T, slug string) int64 {
	t.Helper()
	tag := &domain.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(t, ts.store.CreateTag(context.Background(), tag))
	return tag.ID
}

// createRecipe posts a valid recipe and returns its read view.
func (ts *testServer) createRecipe(t *testing.T, authHeader, name string, tags []int64, lines ...map[string]any) RecipeResponse {
	t.Helper()
	resp := ts.api.Post("/api/recipes", authHeader, recipeBody(t, name, tags, lines...))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var recipe RecipeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &recipe))
	return recipe
}

func recipeBody(t *testing.T, name string, tags []int64, lines ...map[string]any) map[string]any {
	t.Helper()
	return map[string]any{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 25,
		"image":        testImage(t),
		"tags":         tags,
		"ingredients":  lines,
	}
}

func amount(id int64, n int) map[string]any {
	return map[string]any{"id": id, "amount": n}
}

func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 7-x, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeError(t *testing.T, body *bytes.Buffer) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(body.Bytes(), &apiErr), body.String())
	return apiErr
}
