package domain

import "time"

// Recipe is an authored dish with its ingredient amounts and tags.
type Recipe struct {
	ID            int64
	AuthorID      int64
	Author        *User
	Name          string
	Text          string
	Image         string // path relative to the media root
	ImageBlurHash string
	CookingTime   int // minutes
	Tags          []Tag
	Ingredients   []RecipeIngredient
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeIngredient is one line of a recipe: an ingredient and how much of it.
type RecipeIngredient struct {
	Ingredient
	Amount int
}

// RecipeShort is the compact view returned by favorite, cart and subscription endpoints.
type RecipeShort struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int
}

// Short returns the compact view of r.
func (r *Recipe) Short() RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// IngredientAmount is a requested (ingredient, amount) pair in a recipe submission.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// RecipeComposition is the part of a recipe submission that is validated as a whole.
type RecipeComposition struct {
	Ingredients []IngredientAmount
	TagIDs      []int64
	CookingTime int
}

// IngredientIDs returns the ingredient ids in submission order.
func (c RecipeComposition) IngredientIDs() []int64 {
	ids := make([]int64, len(c.Ingredients))
	for i, ia := range c.Ingredients {
		ids[i] = ia.IngredientID
	}
	return ids
}

// RecipeDraft carries everything needed to create or replace a recipe.
// Image is the stored image path; empty on update means "keep current".
type RecipeDraft struct {
	RecipeComposition
	AuthorID      int64
	Name          string
	Text          string
	Image         string
	ImageBlurHash string
}
