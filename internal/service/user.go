package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/auth"
	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// SetPasswordRequest is the body of POST /api/users/set_password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

// UserService handles registration, profiles and password changes.
type UserService struct {
	store  store.Store
	hasher PasswordHasher
	views  viewDecorator
	logger *slog.Logger
}

// NewUserService creates a UserService. A nil hasher uses auth.DefaultPasswordParams.
func NewUserService(s store.Store, hasher PasswordHasher, logger *slog.Logger) *UserService {
	if hasher == nil {
		hasher = auth.DefaultPasswordParams
	}
	return &UserService{store: s, hasher: hasher, views: viewDecorator{store: s}, logger: logger}
}

// Register creates an account. Email and username must be unused.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to hash password")
	}

	user := &domain.User{
		Email:        domain.NormalizeEmail(req.Email),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a user with this email or username already exists")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create user")
	}

	logger.FromContext(ctx, s.logger).Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Get returns a user as seen by viewer (nil for anonymous).
func (s *UserService) Get(ctx context.Context, viewer *domain.User, id int64) (*UserView, error) {
	user, err := getUser(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views.users(ctx, viewer, []*domain.User{user})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List pages through all users.
func (s *UserService) List(ctx context.Context, viewer *domain.User, page store.Page) (*store.PageResult[*UserView], error) {
	result, err := s.store.ListUsers(ctx, page)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list users")
	}
	return store.ConvertPage(result, func(users []*domain.User) ([]*UserView, error) {
		return s.views.users(ctx, viewer, users)
	})
}

// SetPassword replaces user's password after checking the current one.
// Existing sessions stay valid.
func (s *UserService) SetPassword(ctx context.Context, user *domain.User, req SetPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to verify password")
	}
	if !ok {
		return domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"current_password": "is incorrect"})
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to hash password")
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("user %d not found", user.ID)
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to update password")
	}

	logger.FromContext(ctx, s.logger).Info("password changed", "user_id", user.ID)
	return nil
}
