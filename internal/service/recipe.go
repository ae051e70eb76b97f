package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
	"github.com/foodgramapp/foodgram-server/internal/metrics"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// IngredientAmountInput is one {id, amount} line of a recipe submission.
type IngredientAmountInput struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeInput is the body of a recipe create or update.
// Ingredient and tag lists are checked by CompositionValidator, not by tags,
// so that rule order and messages stay fixed.
type RecipeInput struct {
	Ingredients []IngredientAmountInput `json:"ingredients"`
	Tags        []int64                 `json:"tags"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time"`
}

func (in RecipeInput) composition() domain.RecipeComposition {
	c := domain.RecipeComposition{
		Ingredients: make([]domain.IngredientAmount, len(in.Ingredients)),
		TagIDs:      in.Tags,
		CookingTime: in.CookingTime,
	}
	for i, line := range in.Ingredients {
		c.Ingredients[i] = domain.IngredientAmount{IngredientID: line.ID, Amount: line.Amount}
	}
	return c
}

// RecipeQuery selects a page of recipes. The membership flags only apply
// for an authenticated viewer.
type RecipeQuery struct {
	Page             store.Page
	AuthorID         int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// ImageUploader stores base64 data-URI images.
type ImageUploader interface {
	SaveDataURI(ctx context.Context, raw string) (*images.Stored, error)
	Remove(rel string)
}

// RecipeService creates, edits and lists recipes.
type RecipeService struct {
	store     store.Store
	validator *CompositionValidator
	images    ImageUploader
	views     viewDecorator
	logger    *slog.Logger
}

// NewRecipeService creates a RecipeService.
func NewRecipeService(s store.Store, validator *CompositionValidator, uploader ImageUploader, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     s,
		validator: validator,
		images:    uploader,
		views:     viewDecorator{store: s},
		logger:    logger,
	}
}

// Create validates in, stores its image and writes the recipe in one transaction.
func (s *RecipeService) Create(ctx context.Context, actor *domain.User, in RecipeInput) (*RecipeView, error) {
	comp, err := s.check(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"image": "is required"})
	}

	stored, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	id, err := s.store.CreateRecipe(ctx, &domain.RecipeDraft{
		RecipeComposition: comp,
		AuthorID:          actor.ID,
		Name:              in.Name,
		Text:              in.Text,
		Image:             stored.Path,
		ImageBlurHash:     stored.BlurHash,
	})
	if err != nil {
		s.images.Remove(stored.Path)
		return nil, recipeWriteError(err)
	}

	metrics.RecordRecipe(metrics.ActionCreate)
	logger.FromContext(ctx, s.logger).Info("recipe created", "recipe_id", id, "author_id", actor.ID)
	return s.Get(ctx, actor, id)
}

// Update replaces the recipe's fields, ingredients and tags. An empty image
// keeps the current picture; a replaced picture is deleted after the commit.
func (s *RecipeService) Update(ctx context.Context, actor *domain.User, id int64, in RecipeInput) (*RecipeView, error) {
	current, err := getRecipe(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(current.AuthorID) {
		return nil, domainerrors.Forbidden("only the author can change this recipe")
	}

	comp, err := s.check(ctx, in)
	if err != nil {
		return nil, err
	}

	draft := &domain.RecipeDraft{
		RecipeComposition: comp,
		AuthorID:          current.AuthorID,
		Name:              in.Name,
		Text:              in.Text,
	}
	if in.Image != "" {
		stored, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		draft.Image = stored.Path
		draft.ImageBlurHash = stored.BlurHash
	}

	if err := s.store.UpdateRecipe(ctx, id, draft); err != nil {
		s.images.Remove(draft.Image)
		return nil, recipeWriteError(err)
	}
	if draft.Image != "" && current.Image != draft.Image {
		s.images.Remove(current.Image)
	}

	metrics.RecordRecipe(metrics.ActionUpdate)
	logger.FromContext(ctx, s.logger).Info("recipe updated", "recipe_id", id, "user_id", actor.ID)
	return s.Get(ctx, actor, id)
}

// Delete removes the recipe together with its memberships and image.
func (s *RecipeService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	current, err := getRecipe(ctx, s.store, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(current.AuthorID) {
		return domainerrors.Forbidden("only the author can delete this recipe")
	}

	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("recipe %d not found", id)
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to delete recipe")
	}
	s.images.Remove(current.Image)

	metrics.RecordRecipe(metrics.ActionDelete)
	logger.FromContext(ctx, s.logger).Info("recipe deleted", "recipe_id", id, "user_id", actor.ID)
	return nil
}

// Get returns one recipe as seen by viewer (nil for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewer *domain.User, id int64) (*RecipeView, error) {
	recipe, err := getRecipe(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views.recipes(ctx, viewer, []*domain.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List returns a page of recipes, newest first.
func (s *RecipeService) List(ctx context.Context, viewer *domain.User, q RecipeQuery) (*store.PageResult[*RecipeView], error) {
	filter := store.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.TagSlugs}
	if viewer != nil {
		if q.IsFavorited {
			filter.FavoritedBy = viewer.ID
		}
		if q.IsInShoppingCart {
			filter.InShoppingCartOf = viewer.ID
		}
	}

	result, err := s.store.ListRecipes(ctx, filter, q.Page)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list recipes")
	}

	return store.ConvertPage(result, func(recipes []*domain.Recipe) ([]*RecipeView, error) {
		return s.views.recipes(ctx, viewer, recipes)
	})
}

// check runs request, composition and reference validation in that order.
func (s *RecipeService) check(ctx context.Context, in RecipeInput) (domain.RecipeComposition, error) {
	if err := validate.Validate(in); err != nil {
		return domain.RecipeComposition{}, err
	}

	comp := in.composition()
	if err := s.validator.Validate(comp); err != nil {
		return comp, err
	}

	ingredients, err := s.store.GetIngredientsByIDs(ctx, comp.IngredientIDs())
	if err != nil {
		return comp, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load ingredients")
	}
	for _, ia := range comp.Ingredients {
		if _, ok := ingredients[ia.IngredientID]; !ok {
			return comp, domainerrors.Validationf("ingredient %d does not exist", ia.IngredientID)
		}
	}

	tags, err := s.store.GetTagsByIDs(ctx, comp.TagIDs)
	if err != nil {
		return comp, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load tags")
	}
	for _, id := range comp.TagIDs {
		if _, ok := tags[id]; !ok {
			return comp, domainerrors.Validationf("tag %d does not exist", id)
		}
	}

	return comp, nil
}

func (s *RecipeService) saveImage(ctx context.Context, raw string) (*images.Stored, error) {
	stored, err := s.images.SaveDataURI(ctx, raw)
	switch {
	case errors.Is(err, images.ErrInvalidImage), errors.Is(err, images.ErrImageTooLarge):
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"image": err.Error()})
	case err != nil:
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store image")
	}
	return stored, nil
}

// recipeWriteError maps a failed transactional write. Constraint failures
// that slipped past validation (a concurrently deleted ingredient) are
// reported as validation errors; nothing was written.
func recipeWriteError(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation("recipe references missing ingredients or tags").WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("recipe not found").WithCause(err)
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to save recipe")
	}
}
