package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          "/api/users",
		Summary:       "Register",
		Description:   "Creates a new account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.rateLimitByIP},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/users",
		Summary:     "List users",
		Description: "Returns a page of users",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID:   "setPassword",
		Method:        http.MethodPost,
		Path:          "/api/users/set_password",
		Summary:       "Change password",
		Description:   "Replaces the password after checking the current one",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSetPassword)
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// RegisteredUserResponse is the account created by registration.
type RegisteredUserResponse struct {
	ID        int64  `json:"id" doc:"User ID"`
	Email     string `json:"email" doc:"Email address"`
	Username  string `json:"username" doc:"Unique username"`
	FirstName string `json:"first_name" doc:"First name"`
	LastName  string `json:"last_name" doc:"Last name"`
}

// RegisterOutput wraps the registered user for Huma.
type RegisterOutput struct {
	Body RegisteredUserResponse
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	PageParams
}

// ListUsersOutput wraps a page of users for Huma.
type ListUsersOutput struct {
	Body Paginated[UserResponse]
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

// SetPasswordInput wraps the password change request for Huma.
type SetPasswordInput struct {
	Body service.SetPasswordRequest
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	user, err := s.services.Users.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &RegisterOutput{Body: RegisteredUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	page := input.page(s.cfg.Recipes.PageSize, s.cfg.Recipes.MaxPageSize)
	result, err := s.services.Users.List(ctx, currentUser(ctx), page)
	if err != nil {
		return nil, err
	}
	return &ListUsersOutput{Body: paginate(&input.PageParams, result, toUserResponse)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.services.Users.Get(ctx, user, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(view)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	view, err := s.services.Users.Get(ctx, currentUser(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(view)}, nil
}

func (s *Server) handleSetPassword(ctx context.Context, input *SetPasswordInput) (*struct{}, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Users.SetPassword(ctx, user, input.Body); err != nil {
		return nil, err
	}
	return nil, nil
}
