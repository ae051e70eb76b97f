package service

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/metrics"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// ShoppingListFilename is offered to clients downloading the list.
const ShoppingListFilename = "shopping_list.txt"

// ShoppingListService sums the ingredients of every recipe in a user's cart.
type ShoppingListService struct {
	store  store.ShoppingListRepository
	logger *slog.Logger
}

// NewShoppingListService creates a ShoppingListService.
func NewShoppingListService(s store.ShoppingListRepository, logger *slog.Logger) *ShoppingListService {
	return &ShoppingListService{store: s, logger: logger}
}

// Aggregate groups cart ingredients by (name, unit), summing amounts, ordered by name.
func (s *ShoppingListService) Aggregate(ctx context.Context, ownerID int64) ([]domain.ShoppingListItem, error) {
	items, err := s.store.AggregateShoppingList(ctx, ownerID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to build shopping list")
	}
	return items, nil
}

// RenderShoppingList formats items as a plain-text list headed by the owner's name.
func RenderShoppingList(owner *domain.User, items []domain.ShoppingListItem) []byte {
	var b bytes.Buffer
	b.WriteString("Shopping list.\n")
	b.WriteString("Owner: " + owner.FirstName + " " + owner.LastName + ".\n")
	for _, item := range items {
		b.WriteString("- " + item.Name + " (" + item.MeasurementUnit + ") " +
			strconv.FormatInt(item.TotalAmount, 10) + "\n")
	}
	return b.Bytes()
}

// Download aggregates and renders owner's shopping list.
func (s *ShoppingListService) Download(ctx context.Context, owner *domain.User) ([]byte, error) {
	items, err := s.Aggregate(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	metrics.RecordShoppingListDownload()
	logger.FromContext(ctx, s.logger).Debug("shopping list rendered", "owner_id", owner.ID, "lines", len(items))
	return RenderShoppingList(owner, items), nil
}
