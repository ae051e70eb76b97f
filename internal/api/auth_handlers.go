package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/token/login",
		Summary:     "Log in",
		Description: "Exchanges email and password for an auth token",
		Tags:        []string{"Auth"},
		Middlewares: huma.Middlewares{s.rateLimitByIP},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/auth/token/logout",
		Summary:       "Log out",
		Description:   "Revokes the token used for this request",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	UserAgent string `header:"User-Agent"`
	Body      service.LoginRequest

	remoteAddr string
}

// Resolve implements huma.Resolver.
func (in *LoginInput) Resolve(ctx huma.Context) []error {
	in.remoteAddr = ctx.RemoteAddr()
	return nil
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	AuthToken string    `json:"auth_token" doc:"Token for the Authorization header"`
	ExpiresAt time.Time `json:"expires_at" doc:"Token expiry"`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*TokenOutput, error) {
	result, err := s.services.Auth.Login(ctx, input.Body, service.ClientInfo{
		IPAddress: clientIP(input.remoteAddr),
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return &TokenOutput{Body: TokenResponse{AuthToken: result.Token, ExpiresAt: result.ExpiresAt}}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	session := currentSession(ctx)
	if session == nil {
		return nil, domainerrors.Unauthorized(domainerrors.ErrUnauthorized.Message)
	}
	if err := s.services.Auth.Logout(ctx, session.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
