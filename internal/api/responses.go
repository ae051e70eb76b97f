package api

import (
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

// UserResponse is a user as seen by the caller.
type UserResponse struct {
	ID           int64  `json:"id" doc:"User ID"`
	Email        string `json:"email" doc:"Email address"`
	Username     string `json:"username" doc:"Unique username"`
	FirstName    string `json:"first_name" doc:"First name"`
	LastName     string `json:"last_name" doc:"Last name"`
	IsSubscribed bool   `json:"is_subscribed" doc:"Whether the caller follows this user"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID    int64  `json:"id" doc:"Tag ID"`
	Name  string `json:"name" doc:"Tag name"`
	Color string `json:"color" doc:"Display color, #RRGGBB"`
	Slug  string `json:"slug" doc:"URL-safe slug"`
}

// IngredientResponse contains ingredient data in API responses.
type IngredientResponse struct {
	ID              int64  `json:"id" doc:"Ingredient ID"`
	Name            string `json:"name" doc:"Ingredient name"`
	MeasurementUnit string `json:"measurement_unit" doc:"Unit the amount is given in"`
}

// RecipeIngredientResponse is one ingredient line of a recipe.
type RecipeIngredientResponse struct {
	IngredientResponse
	Amount int `json:"amount" doc:"Amount in measurement units"`
}

// RecipeResponse is the full read view of a recipe.
type RecipeResponse struct {
	ID               int64                      `json:"id" doc:"Recipe ID"`
	Tags             []TagResponse              `json:"tags" doc:"Recipe tags"`
	Author           UserResponse               `json:"author" doc:"Recipe author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients" doc:"Ingredient lines"`
	IsFavorited      bool                       `json:"is_favorited" doc:"In the caller's favorites"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart" doc:"In the caller's shopping cart"`
	Name             string                     `json:"name" doc:"Recipe name"`
	Image            string                     `json:"image" doc:"Image URL"`
	ImageBlurHash    string                     `json:"image_blurhash,omitempty" doc:"BlurHash placeholder for the image"`
	Text             string                     `json:"text" doc:"Description"`
	CookingTime      int                        `json:"cooking_time" doc:"Cooking time in minutes"`
}

// RecipeShortResponse is the compact recipe view.
type RecipeShortResponse struct {
	ID          int64  `json:"id" doc:"Recipe ID"`
	Name        string `json:"name" doc:"Recipe name"`
	Image       string `json:"image" doc:"Image URL"`
	CookingTime int    `json:"cooking_time" doc:"Cooking time in minutes"`
}

// AuthorResponse is a followed author with a sample of their recipes.
type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes" doc:"Most recent recipes"`
	RecipesCount int                   `json:"recipes_count" doc:"Total number of recipes"`
}

func toUserResponse(v *service.UserView) UserResponse {
	return UserResponse{
		ID:           v.ID,
		Email:        v.Email,
		Username:     v.Username,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		IsSubscribed: v.IsSubscribed,
	}
}

func toTagResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredientResponse(i domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// mediaURL joins the configured media prefix and a stored relative path.
func (s *Server) mediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.Server.MediaURL, "/") + "/" + strings.TrimPrefix(rel, "/")
}

func (s *Server) toRecipeResponse(v *service.RecipeView) RecipeResponse {
	resp := RecipeResponse{
		ID:               v.ID,
		Tags:             make([]TagResponse, len(v.Tags)),
		Author:           toUserResponse(&v.Author),
		Ingredients:      make([]RecipeIngredientResponse, len(v.Ingredients)),
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            s.mediaURL(v.Image),
		ImageBlurHash:    v.ImageBlurHash,
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
	for i, t := range v.Tags {
		resp.Tags[i] = toTagResponse(t)
	}
	for i, line := range v.Ingredients {
		resp.Ingredients[i] = RecipeIngredientResponse{
			IngredientResponse: toIngredientResponse(line.Ingredient),
			Amount:             line.Amount,
		}
	}
	return resp
}

func (s *Server) toRecipeShortResponse(r domain.RecipeShort) RecipeShortResponse {
	return RecipeShortResponse{ID: r.ID, Name: r.Name, Image: s.mediaURL(r.Image), CookingTime: r.CookingTime}
}

func (s *Server) toAuthorResponse(v *service.AuthorView) AuthorResponse {
	resp := AuthorResponse{
		UserResponse: toUserResponse(&v.UserView),
		Recipes:      make([]RecipeShortResponse, len(v.Recipes)),
		RecipesCount: v.RecipesCount,
	}
	for i, r := range v.Recipes {
		resp.Recipes[i] = s.toRecipeShortResponse(r)
	}
	return resp
}
