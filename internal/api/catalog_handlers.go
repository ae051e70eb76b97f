package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Description: "Returns all tags ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/ingredients",
		Summary:     "Search ingredients",
		Description: "Returns ingredients whose name starts with the query first, then those containing it",
		Tags:        []string{"Ingredients"},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
	}, s.handleGetIngredient)
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body []TagResponse
}

// GetByIDInput is a single numeric path id.
type GetByIDInput struct {
	ID int64 `path:"id" doc:"Resource ID"`
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// ListIngredientsInput contains the ingredient search query.
type ListIngredientsInput struct {
	Name string `query:"name" doc:"Name prefix or fragment, case-insensitive"`
}

// ListIngredientsOutput wraps the ingredient list for Huma.
type ListIngredientsOutput struct {
	Body []IngredientResponse
}

// IngredientOutput wraps an ingredient for Huma.
type IngredientOutput struct {
	Body IngredientResponse
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Catalog.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(*t)
	}
	return &ListTagsOutput{Body: resp}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetByIDInput) (*TagOutput, error) {
	tag, err := s.services.Catalog.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(*tag)}, nil
}

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*ListIngredientsOutput, error) {
	ingredients, err := s.services.Catalog.SearchIngredients(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	resp := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = toIngredientResponse(*ing)
	}
	return &ListIngredientsOutput{Body: resp}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetByIDInput) (*IngredientOutput, error) {
	ingredient, err := s.services.Catalog.GetIngredient(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: toIngredientResponse(*ingredient)}, nil
}
