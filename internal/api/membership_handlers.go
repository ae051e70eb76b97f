package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerMembershipRoutes() {
	for _, m := range []struct {
		purpose domain.Purpose
		path    string
		id      string
		tag     string
	}{
		{domain.PurposeFavorite, "/api/recipes/{id}/favorite", "Favorite", "Favorites"},
		{domain.PurposeShoppingCart, "/api/recipes/{id}/shopping_cart", "ShoppingCart", "Shopping cart"},
	} {
		huma.Register(s.api, huma.Operation{
			OperationID:   "add" + m.id,
			Method:        http.MethodPost,
			Path:          m.path,
			Summary:       "Add to " + m.purpose.Collection(),
			Description:   "Adds the recipe to the caller's " + m.purpose.Collection(),
			Tags:          []string{m.tag},
			DefaultStatus: http.StatusCreated,
			Security:      []map[string][]string{{"bearer": {}}},
		}, s.addMembership(m.purpose))

		huma.Register(s.api, huma.Operation{
			OperationID:   "remove" + m.id,
			Method:        http.MethodDelete,
			Path:          m.path,
			Summary:       "Remove from " + m.purpose.Collection(),
			Description:   "Removes the recipe from the caller's " + m.purpose.Collection(),
			Tags:          []string{m.tag},
			DefaultStatus: http.StatusNoContent,
			Security:      []map[string][]string{{"bearer": {}}},
		}, s.removeMembership(m.purpose))
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "downloadShoppingCart",
		Method:      http.MethodGet,
		Path:        "/api/recipes/download_shopping_cart",
		Summary:     "Download shopping list",
		Description: "Returns the summed ingredients of every recipe in the cart as a text file",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Shopping list",
				Content:     map[string]*huma.MediaType{"text/plain": {}},
			},
		},
	}, s.handleDownloadShoppingCart)
}

// MembershipInput identifies the recipe to add or remove.
type MembershipInput struct {
	ID int64 `path:"id" doc:"Recipe ID"`
}

// RecipeShortOutput wraps the compact recipe view for Huma.
type RecipeShortOutput struct {
	Body RecipeShortResponse
}

// ShoppingListOutput is the shopping list as a text attachment.
type ShoppingListOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (s *Server) addMembership(purpose domain.Purpose) func(context.Context, *MembershipInput) (*RecipeShortOutput, error) {
	return func(ctx context.Context, input *MembershipInput) (*RecipeShortOutput, error) {
		user, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		short, err := s.services.Memberships.Add(ctx, user.ID, input.ID, purpose)
		if err != nil {
			return nil, err
		}
		return &RecipeShortOutput{Body: s.toRecipeShortResponse(*short)}, nil
	}
}

func (s *Server) removeMembership(purpose domain.Purpose) func(context.Context, *MembershipInput) (*struct{}, error) {
	return func(ctx context.Context, input *MembershipInput) (*struct{}, error) {
		user, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.services.Memberships.Remove(ctx, user.ID, input.ID, purpose); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func (s *Server) handleDownloadShoppingCart(ctx context.Context, _ *struct{}) (*ShoppingListOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.services.ShoppingList.Download(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ShoppingListOutput{
		ContentType:        "text/plain; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename),
		Body:               list,
	}, nil
}
