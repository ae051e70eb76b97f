package sqlite

import (
	"context"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, color, slug`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts t and sets its ID.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, color, slug) VALUES (?, ?, ?)`,
		t.Name, t.Color, t.Slug)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

// GetTag returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagsByIDs returns the tags that exist among ids, keyed by id.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error) {
	found := make(map[int64]domain.Tag, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		found[t.ID] = *t
	}
	return found, rows.Err()
}
