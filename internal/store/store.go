// Package store defines the persistence contracts for the foodgram server.
package store

import (
	"context"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

// UserRepository persists accounts. Email (case-insensitive) and username are unique.
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, page Page) (*PageResult[*domain.User], error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetStaff(ctx context.Context, email string, staff bool) error
}

// SessionRepository persists auth sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// TagRepository persists tags. Slug is unique.
type TagRepository interface {
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error)
}

// IngredientRepository persists ingredients. (name, measurement_unit) is unique.
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, i *domain.Ingredient) error
	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
	// SearchIngredients lists names starting with query first, then names
	// containing it. An empty query lists everything by name.
	SearchIngredients(ctx context.Context, query string) ([]*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error)
}

// RecipeRepository persists recipes with their ingredient amounts and tags.
// Create and Update write all rows in one transaction.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, draft *domain.RecipeDraft) (int64, error)
	UpdateRecipe(ctx context.Context, id int64, draft *domain.RecipeDraft) error
	DeleteRecipe(ctx context.Context, id int64) error
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, page Page) (*PageResult[*domain.Recipe], error)
	ListAuthorRecipes(ctx context.Context, authorID int64, limit int) ([]domain.RecipeShort, error)
	CountAuthorRecipes(ctx context.Context, authorIDs []int64) (map[int64]int, error)
}

// MembershipRepository persists favorite and shopping-cart entries.
type MembershipRepository interface {
	// AddMembership returns ErrAlreadyExists when the unique index rejects the row.
	AddMembership(ctx context.Context, e *domain.MembershipEntry) error
	// RemoveMembership returns ErrNotFound when no row was deleted.
	RemoveMembership(ctx context.Context, ownerID, recipeID int64, purpose domain.Purpose) error
	MemberRecipeIDs(ctx context.Context, ownerID int64, purpose domain.Purpose, recipeIDs []int64) (map[int64]bool, error)
}

// ShoppingListRepository aggregates the ingredients of an owner's cart.
type ShoppingListRepository interface {
	AggregateShoppingList(ctx context.Context, ownerID int64) ([]domain.ShoppingListItem, error)
}

// SubscriptionRepository persists follows between users.
type SubscriptionRepository interface {
	// CreateSubscription returns ErrAlreadyExists when the unique index rejects the row.
	CreateSubscription(ctx context.Context, s *domain.Subscription) error
	// DeleteSubscription returns ErrNotFound when no row was deleted.
	DeleteSubscription(ctx context.Context, subscriberID, authorID int64) error
	ListSubscribedAuthors(ctx context.Context, subscriberID int64, page Page) (*PageResult[*domain.User], error)
	SubscribedAuthorIDs(ctx context.Context, subscriberID int64, authorIDs []int64) (map[int64]bool, error)
}

// Store is the full persistence surface.
type Store interface {
	UserRepository
	SessionRepository
	TagRepository
	IngredientRepository
	RecipeRepository
	MembershipRepository
	ShoppingListRepository
	SubscriptionRepository

	Ping(ctx context.Context) error
	Close() error
}
