package sqlite

import (
	"context"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// AddMembership inserts the entry. The unique index on (owner_id, recipe_id,
// purpose) is the only duplicate check, so concurrent adds yield exactly one row.
func (s *Store) AddMembership(ctx context.Context, e *domain.MembershipEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipe_memberships (owner_id, recipe_id, purpose, created_at)
		VALUES (?, ?, ?, ?)`,
		e.OwnerID, e.RecipeID, string(e.Purpose), formatTime(e.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		if isForeignKeyViolation(err) {
			return store.ErrNotFound.WithCause(err)
		}
		return err
	}
	return nil
}

// RemoveMembership deletes the entry, or returns store.ErrNotFound when there was none.
func (s *Store) RemoveMembership(ctx context.Context, ownerID, recipeID int64, purpose domain.Purpose) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipe_memberships WHERE owner_id = ? AND recipe_id = ? AND purpose = ?`,
		ownerID, recipeID, string(purpose))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MemberRecipeIDs reports which of recipeIDs the owner has under purpose.
func (s *Store) MemberRecipeIDs(ctx context.Context, ownerID int64, purpose domain.Purpose, recipeIDs []int64) (map[int64]bool, error) {
	members := make(map[int64]bool, len(recipeIDs))
	if ownerID == 0 || len(recipeIDs) == 0 {
		return members, nil
	}

	placeholders, args := inClause(recipeIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id FROM recipe_memberships
		WHERE owner_id = ? AND purpose = ? AND recipe_id IN (`+placeholders+`)`,
		append([]any{ownerID, string(purpose)}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members[id] = true
	}
	return members, rows.Err()
}

// AggregateShoppingList sums ingredient amounts over every recipe in the
// owner's cart, one row per (name, unit), ordered by name then unit.
func (s *Store) AggregateShoppingList(ctx context.Context, ownerID int64) ([]domain.ShoppingListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, i.measurement_unit, SUM(ri.amount)
		FROM recipe_memberships m
		JOIN recipe_ingredients ri ON ri.recipe_id = m.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE m.owner_id = ? AND m.purpose = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`,
		ownerID, string(domain.PurposeShoppingCart))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ShoppingListItem{}
	for rows.Next() {
		var item domain.ShoppingListItem
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
