package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/id"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// LoginRequest is the body of POST /api/auth/token/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClientInfo describes where a login came from.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService issues and checks session-backed tokens.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(s store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, tokens: tokens, logger: logger}
}

// Login checks credentials, opens a session and returns a token for it.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// same answer as a wrong password
			return nil, domainerrors.InvalidCredentials("unable to log in with provided credentials")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to look up user")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to verify password")
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("unable to log in with provided credentials")
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create session")
	}

	token, expires, err := s.tokens.Issue(user.ID, user.Email, sessionID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to issue token")
	}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: now(),
		ExpiresAt: expires,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create session")
	}

	logger.FromContext(ctx, s.logger).Info("user logged in", "user_id", user.ID, "session_id", sessionID)
	return &LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}

// Logout revokes the session; its token stops working immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Unauthorized("session already ended")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to end session")
	}
	logger.FromContext(ctx, s.logger).Info("user logged out", "session_id", sessionID)
	return nil
}

// Authenticate resolves a token to its user and live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid token")
		}
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load session")
	}
	if session.UserID != claims.UserID || session.IsExpired(time.Now()) {
		return nil, nil, domainerrors.Unauthorized("invalid token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid token")
		}
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load user")
	}
	return user, session, nil
}

// PurgeExpiredSessions deletes sessions whose tokens can no longer verify.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to purge sessions")
	}
	if n > 0 {
		logger.FromContext(ctx, s.logger).Info("expired sessions purged", "count", n)
	}
	return n, nil
}
