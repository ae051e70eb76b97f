package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// recipeSelect joins the author; scanRecipe reads its columns in this order.
const recipeSelect = `
	SELECT r.id, r.author_id, r.name, r.text, r.image, r.image_blurhash, r.cooking_time, r.created_at, r.updated_at,
		u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.is_staff, u.created_at, u.updated_at
	FROM recipes r
	JOIN users u ON u.id = r.author_id`

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		r          domain.Recipe
		author     domain.User
		blurHash   sql.NullString
		createdAt  string
		updatedAt  string
		isStaff    int
		uCreatedAt string
		uUpdatedAt string
	)
	err := scanner.Scan(
		&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.Image, &blurHash, &r.CookingTime, &createdAt, &updatedAt,
		&author.ID, &author.Email, &author.Username, &author.FirstName, &author.LastName,
		&author.PasswordHash, &isStaff, &uCreatedAt, &uUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ImageBlurHash = blurHash.String
	author.IsStaff = isStaff == 1
	for _, ts := range []struct {
		raw string
		dst *time.Time
	}{
		{createdAt, &r.CreatedAt},
		{updatedAt, &r.UpdatedAt},
		{uCreatedAt, &author.CreatedAt},
		{uUpdatedAt, &author.UpdatedAt},
	} {
		if *ts.dst, err = parseTime(ts.raw); err != nil {
			return nil, err
		}
	}

	r.Author = &author
	r.Tags = []domain.Tag{}
	r.Ingredients = []domain.RecipeIngredient{}
	return &r, nil
}

// writeError maps constraint failures raised while writing a recipe.
// Unknown ingredient or tag ids surface as foreign key violations.
func writeError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err), isForeignKeyViolation(err), strings.Contains(err.Error(), "CHECK constraint failed"):
		return store.ErrInvalidInput.WithCause(err)
	default:
		return err
	}
}

func insertRecipeRelations(ctx context.Context, tx *sql.Tx, recipeID int64, draft *domain.RecipeDraft) error {
	for pos, ia := range draft.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position) VALUES (?, ?, ?, ?)`,
			recipeID, ia.IngredientID, ia.Amount, pos); err != nil {
			return writeError(err)
		}
	}
	for _, tagID := range draft.TagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, tagID); err != nil {
			return writeError(err)
		}
	}
	return nil
}

// CreateRecipe writes the recipe, its ingredient amounts and its tags in one
// transaction and returns the new id. Nothing is persisted on failure.
func (s *Store) CreateRecipe(ctx context.Context, draft *domain.RecipeDraft) (int64, error) {
	var recipeID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := formatTime(time.Now())
		res, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (author_id, name, text, image, image_blurhash, cooking_time, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			draft.AuthorID, draft.Name, draft.Text, draft.Image, nullString(draft.ImageBlurHash),
			draft.CookingTime, now, now)
		if err != nil {
			return writeError(err)
		}
		if recipeID, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertRecipeRelations(ctx, tx, recipeID, draft)
	})
	if err != nil {
		return 0, err
	}
	return recipeID, nil
}

// UpdateRecipe replaces the recipe fields, ingredient amounts and tags in one
// transaction. An empty draft.Image keeps the current image.
func (s *Store) UpdateRecipe(ctx context.Context, id int64, draft *domain.RecipeDraft) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE recipes SET
				name = ?,
				text = ?,
				cooking_time = ?,
				image = CASE WHEN ? = '' THEN image ELSE ? END,
				image_blurhash = CASE WHEN ? = '' THEN image_blurhash ELSE ? END,
				updated_at = ?
			WHERE id = ?`,
			draft.Name, draft.Text, draft.CookingTime,
			draft.Image, draft.Image,
			draft.Image, nullString(draft.ImageBlurHash),
			formatTime(time.Now()), id)
		if err != nil {
			return writeError(err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, id); err != nil {
			return err
		}
		return insertRecipeRelations(ctx, tx, id, draft)
	})
}

// DeleteRecipe removes the recipe; relations and memberships cascade.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// GetRecipe returns the recipe with author, tags and ingredients.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRowContext(ctx, recipeSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadRecipeRelations(ctx, []*domain.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// recipePredicate renders filter as a WHERE clause over alias r.
func recipePredicate(filter store.RecipeFilter) (string, []any) {
	if filter.IsEmpty() {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)

	if filter.AuthorID != 0 {
		conds = append(conds, `r.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.TagSlugs)), ", ")
		conds = append(conds, `EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug IN (`+placeholders+`))`)
		for _, slug := range filter.TagSlugs {
			args = append(args, slug)
		}
	}
	membership := func(ownerID int64, purpose domain.Purpose) {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM recipe_memberships m
			WHERE m.recipe_id = r.id AND m.owner_id = ? AND m.purpose = ?)`)
		args = append(args, ownerID, string(purpose))
	}
	if filter.FavoritedBy != 0 {
		membership(filter.FavoritedBy, domain.PurposeFavorite)
	}
	if filter.InShoppingCartOf != 0 {
		membership(filter.InShoppingCartOf, domain.PurposeShoppingCart)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes pages through recipes matching filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, filter store.RecipeFilter, page store.Page) (*store.PageResult[*domain.Recipe], error) {
	where, args := recipePredicate(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes r`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		recipeSelect+where+` ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`,
		append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadRecipeRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return &store.PageResult[*domain.Recipe]{Items: recipes, Total: total, Page: page}, nil
}

// ListAuthorRecipes returns the author's newest recipes in short form.
// limit <= 0 returns all of them.
func (s *Store) ListAuthorRecipes(ctx context.Context, authorID int64, limit int) ([]domain.RecipeShort, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image, cooking_time FROM recipes
		WHERE author_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RecipeShort{}
	for rows.Next() {
		var r domain.RecipeShort
		if err := rows.Scan(&r.ID, &r.Name, &r.Image, &r.CookingTime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountAuthorRecipes counts recipes per author. Authors without recipes are absent.
func (s *Store) CountAuthorRecipes(ctx context.Context, authorIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	placeholders, args := inClause(authorIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id, COUNT(*) FROM recipes WHERE author_id IN (`+placeholders+`) GROUP BY author_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// loadRecipeRelations fills Tags and Ingredients for recipes with two queries.
func (s *Store) loadRecipeRelations(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		byID[r.ID] = r
		ids[i] = r.ID
	}
	placeholders, args := inClause(ids)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (`+placeholders+`)
		ORDER BY ri.recipe_id, ri.position`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID int64
		var ri domain.RecipeIngredient
		if err := rows.Scan(&recipeID, &ri.ID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			rows.Close()
			return err
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, ri)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (`+placeholders+`)
		ORDER BY rt.recipe_id, t.name`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var t domain.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return err
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, t)
	}
	return rows.Err()
}
