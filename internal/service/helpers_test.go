package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/store/sqlite"
)

// fastPasswords keeps argon2 cheap in tests.
var fastPasswords = auth.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

var testLimits = CompositionLimits{CookingTimeMin: 1, CookingTimeMax: 32000, MaxIngredientAmount: 32000}

type testEnv struct {
	store   *sqlite.Store
	media   *images.Storage
	users   *UserService
	auth    *AuthService
	recipes *RecipeService
	members *MembershipService
	lists   *ShoppingListService
	subs    *SubscriptionService
	catalog *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	log := logger.Discard()

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	media, err := images.NewStorage(filepath.Join(dir, "media"), "recipes")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{7}, 32), time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:   s,
		media:   media,
		users:   NewUserService(s, fastPasswords, log),
		auth:    NewAuthService(s, tokens, log),
		recipes: NewRecipeService(s, NewCompositionValidator(testLimits), images.NewUploader(media, 1<<20, log), log),
		members: NewMembershipService(s, log),
		lists:   NewShoppingListService(s, log),
		subs:    NewSubscriptionService(s, log),
		catalog: NewCatalogService(s),
	}
}

func (e *testEnv) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First" + username,
		LastName:  "Last" + username,
		Password:  "password-" + username,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) ingredient(t *testing.T, name, unit string) int64 {
	t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.store.CreateIngredient(context.Background(), i))
	return i.ID
}

func (e *testEnv) tag(t *testing.T, slug string) int64 {
	t.Helper()
	tag := &domain.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, e.store.CreateTag(context.Background(), tag))
	return tag.ID
}

func (e *testEnv) recipe(t *testing.T, author *domain.User, name string, tags []int64, lines ...IngredientAmountInput) *RecipeView {
	t.Helper()
	view, err := e.recipes.Create(context.Background(), author, RecipeInput{
		Name:        name,
		Text:        "Mix and bake.",
		Image:       testImage(t),
		CookingTime: 30,
		Tags:        tags,
		Ingredients: lines,
	})
	require.NoError(t, err)
	return view
}

func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func line(id int64, amount int) IngredientAmountInput {
	return IngredientAmountInput{ID: id, Amount: amount}
}
