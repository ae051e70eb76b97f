package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/recipes",
		Summary:     "List recipes",
		Description: "Returns a page of recipes, newest first. Membership filters apply to authenticated callers only.",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a recipe with its ingredients, tags and image",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Replaces the recipe's fields, ingredients and tags. The image is kept when omitted.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe together with its favorites and cart entries",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)
}

// ListRecipesInput contains the recipe listing filter.
type ListRecipesInput struct {
	PageParams
	Author           int64    `query:"author" doc:"Only recipes by this user"`
	Tags             []string `query:"tags" doc:"Tag slugs; repeat the parameter to match any of several"`
	IsFavorited      string   `query:"is_favorited" doc:"1 or true to list only the caller's favorites"`
	IsInShoppingCart string   `query:"is_in_shopping_cart" doc:"1 or true to list only the caller's cart"`
}

// Resolve collects repeated tags parameters, which huma reads only once.
func (in *ListRecipesInput) Resolve(ctx huma.Context) []error {
	errs := in.PageParams.Resolve(ctx)

	u := ctx.URL()
	var slugs []string
	for _, raw := range u.Query()["tags"] {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	in.Tags = slugs
	return errs
}

// ListRecipesOutput wraps a page of recipes for Huma.
type ListRecipesOutput struct {
	Body Paginated[RecipeResponse]
}

// RecipeRequest is the recipe write command.
type RecipeRequest struct {
	Ingredients []service.IngredientAmountInput `json:"ingredients,omitempty" doc:"Ingredient ids with amounts"`
	Tags        []int64                         `json:"tags,omitempty" doc:"Tag ids"`
	Image       string                          `json:"image,omitempty" doc:"Base64 image data URI; optional on update"`
	Name        string                          `json:"name" doc:"Recipe name"`
	Text        string                          `json:"text" doc:"Description"`
	CookingTime int                             `json:"cooking_time" doc:"Cooking time in minutes"`
}

func (r RecipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Ingredients: r.Ingredients,
		Tags:        r.Tags,
		Image:       r.Image,
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
	}
}

// CreateRecipeInput wraps the create request for Huma.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// UpdateRecipeInput wraps the update request for Huma.
type UpdateRecipeInput struct {
	ID   int64 `path:"id" doc:"Recipe ID"`
	Body RecipeRequest
}

// RecipeOutput wraps a recipe for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	result, err := s.services.Recipes.List(ctx, currentUser(ctx), service.RecipeQuery{
		Page:             input.page(s.cfg.Recipes.PageSize, s.cfg.Recipes.MaxPageSize),
		AuthorID:         input.Author,
		TagSlugs:         input.Tags,
		IsFavorited:      truthy(input.IsFavorited),
		IsInShoppingCart: truthy(input.IsInShoppingCart),
	})
	if err != nil {
		return nil, err
	}
	return &ListRecipesOutput{Body: paginate(&input.PageParams, result, s.toRecipeResponse)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetByIDInput) (*RecipeOutput, error) {
	view, err := s.services.Recipes.Get(ctx, currentUser(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.toRecipeResponse(view)}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.services.Recipes.Create(ctx, user, input.Body.input())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.toRecipeResponse(view)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.services.Recipes.Update(ctx, user, input.ID, input.Body.input())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.toRecipeResponse(view)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *GetByIDInput) (*struct{}, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Recipes.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

// truthy accepts the query flag spellings "1", "true" and "True".
func truthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
