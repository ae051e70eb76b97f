package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// CreateSubscription inserts the follow. Duplicates are rejected by the unique
// index; self-follows by a CHECK constraint.
func (s *Store) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (subscriber_id, author_id, created_at)
		VALUES (?, ?, ?)`,
		sub.SubscriberID, sub.AuthorID, formatTime(sub.CreatedAt))
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return store.ErrAlreadyExists.WithCause(err)
	case isForeignKeyViolation(err):
		return store.ErrNotFound.WithCause(err)
	case strings.Contains(err.Error(), "CHECK constraint failed"):
		return store.ErrInvalidInput.WithCause(err)
	default:
		return err
	}
}

// DeleteSubscription removes the follow, or returns store.ErrNotFound when there was none.
func (s *Store) DeleteSubscription(ctx context.Context, subscriberID, authorID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = ? AND author_id = ?`, subscriberID, authorID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListSubscribedAuthors pages through the authors subscriberID follows, most recent first.
func (s *Store) ListSubscribedAuthors(ctx context.Context, subscriberID int64, page store.Page) (*store.PageResult[*domain.User], error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ?`, subscriberID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.is_staff, u.created_at, u.updated_at
		FROM subscriptions sb
		JOIN users u ON u.id = sb.author_id
		WHERE sb.subscriber_id = ?
		ORDER BY sb.created_at DESC, u.id DESC
		LIMIT ? OFFSET ?`,
		subscriberID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &store.PageResult[*domain.User]{Items: authors, Total: total, Page: page}, nil
}

// SubscribedAuthorIDs reports which of authorIDs subscriberID follows.
func (s *Store) SubscribedAuthorIDs(ctx context.Context, subscriberID int64, authorIDs []int64) (map[int64]bool, error) {
	followed := make(map[int64]bool, len(authorIDs))
	if subscriberID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}

	placeholders, args := inClause(authorIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id FROM subscriptions WHERE subscriber_id = ? AND author_id IN (`+placeholders+`)`,
		append([]any{subscriberID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		followed[id] = true
	}
	return followed, rows.Err()
}
