package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSubscriptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/users/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns the authors the caller follows with their latest recipes",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSubscriptions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          "/api/users/{id}/subscribe",
		Summary:       "Subscribe",
		Description:   "Follows an author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unsubscribe",
		Method:        http.MethodDelete,
		Path:          "/api/users/{id}/subscribe",
		Summary:       "Unsubscribe",
		Description:   "Stops following an author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleUnsubscribe)
}

// ListSubscriptionsInput contains parameters for listing subscriptions.
type ListSubscriptionsInput struct {
	PageParams
	RecipesLimit int `query:"recipes_limit" minimum:"0" doc:"Maximum recipes per author, 0 for all"`
}

// ListSubscriptionsOutput wraps a page of authors for Huma.
type ListSubscriptionsOutput struct {
	Body Paginated[AuthorResponse]
}

// SubscribeInput contains parameters for subscribing.
type SubscribeInput struct {
	ID           int64 `path:"id" doc:"Author user ID"`
	RecipesLimit int   `query:"recipes_limit" minimum:"0" doc:"Maximum recipes in the response, 0 for all"`
}

// AuthorOutput wraps an author for Huma.
type AuthorOutput struct {
	Body AuthorResponse
}

// UnsubscribeInput contains parameters for unsubscribing.
type UnsubscribeInput struct {
	ID int64 `path:"id" doc:"Author user ID"`
}

func (s *Server) handleListSubscriptions(ctx context.Context, input *ListSubscriptionsInput) (*ListSubscriptionsOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	page := input.page(s.cfg.Recipes.PageSize, s.cfg.Recipes.MaxPageSize)
	result, err := s.services.Subscriptions.ListSubscriptions(ctx, user.ID, page, input.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &ListSubscriptionsOutput{Body: paginate(&input.PageParams, result, s.toAuthorResponse)}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*AuthorOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	author, err := s.services.Subscriptions.Subscribe(ctx, user.ID, input.ID, input.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: s.toAuthorResponse(author)}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *UnsubscribeInput) (*struct{}, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Subscriptions.Unsubscribe(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
