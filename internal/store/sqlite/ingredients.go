package sqlite

import (
	"context"
	"strings"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/util"
)

const ingredientColumns = `id, name, measurement_unit`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := scanner.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateIngredient inserts i and sets its ID.
// Returns store.ErrAlreadyExists on a duplicate (name, measurement_unit) pair.
func (s *Store) CreateIngredient(ctx context.Context, i *domain.Ingredient) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, measurement_unit, search_name) VALUES (?, ?, ?)`,
		i.Name, i.MeasurementUnit, util.FoldForSearch(i.Name))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	i.ID, err = res.LastInsertId()
	return err
}

// GetIngredient returns store.ErrNotFound if the ingredient does not exist.
func (s *Store) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	i, err := scanIngredient(s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return i, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchIngredients matches the folded query against folded names.
// Prefix matches sort before substring matches, then by name.
func (s *Store) SearchIngredients(ctx context.Context, query string) ([]*domain.Ingredient, error) {
	folded := escapeLike(util.FoldForSearch(query))

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ingredientColumns+`
		FROM ingredients
		WHERE search_name LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY CASE WHEN search_name LIKE ? || '%' ESCAPE '\' THEN 0 ELSE 1 END, name, measurement_unit`,
		folded, folded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Ingredient{}
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// GetIngredientsByIDs returns the ingredients that exist among ids, keyed by id.
func (s *Store) GetIngredientsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error) {
	found := make(map[int64]domain.Ingredient, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		found[i.ID] = *i
	}
	return found, rows.Err()
}
