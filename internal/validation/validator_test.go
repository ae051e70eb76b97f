package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/validation"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,min=8"`
}

type tagRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,slug"`
}

type line struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int   `json:"amount" validate:"gte=1"`
}

type recipeRequest struct {
	Lines []line `json:"ingredients" validate:"min=1,dive"`
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	details, ok := derr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map")
	return details
}

func TestValidator_Success(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(signupRequest{Email: "ann@example.com", Username: "ann.lee+1", Password: "password123"}))
	assert.NoError(t, v.Validate(tagRequest{Color: "#E26C2D", Slug: "slow_cooker"}))
}

func TestValidator_FieldErrors(t *testing.T) {
	v := validation.New()

	details := fieldErrors(t, v.Validate(signupRequest{Email: "nope", Username: "has space", Password: "short"}))
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Contains(t, details["username"], "letters, digits")
	assert.Equal(t, "must be at least 8 characters", details["password"])
}

func TestValidator_CustomTags(t *testing.T) {
	v := validation.New()

	details := fieldErrors(t, v.Validate(tagRequest{Color: "orange", Slug: "завтрак"}))
	assert.Contains(t, details, "color")
	assert.Contains(t, details, "slug")
}

func TestValidator_NestedPaths(t *testing.T) {
	v := validation.New()

	details := fieldErrors(t, v.Validate(recipeRequest{Lines: []line{{ID: 1, Amount: 1}, {ID: 2, Amount: 0}}}))
	assert.Equal(t, "must be greater than or equal to 1", details["ingredients[1].amount"])

	details = fieldErrors(t, v.Validate(recipeRequest{}))
	assert.Equal(t, "must contain at least 1 items", details["ingredients"])
}
