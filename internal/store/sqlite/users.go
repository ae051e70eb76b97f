package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, username, first_name, last_name, password_hash, is_staff, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		isStaff   int
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&isStaff,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.IsStaff = isStaff == 1

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and sets its ID.
// Returns store.ErrAlreadyExists on duplicate email or username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, email_lower, username, first_name, last_name, password_hash, is_staff, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email,
		strings.ToLower(u.Email),
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		boolToInt(u.IsStaff),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return err
	}

	u.ID, err = res.LastInsertId()
	return err
}

// GetUser returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ListUsers pages through users by id.
func (s *Store) ListUsers(ctx context.Context, page store.Page) (*store.PageResult[*domain.User], error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PageResult[*domain.User]{Items: users, Total: total, Page: page}, nil
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, formatTime(time.Now()), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetStaff grants or revokes staff rights for the user with email.
func (s *Store) SetStaff(ctx context.Context, email string, staff bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_staff = ?, updated_at = ? WHERE email_lower = ?`,
		boolToInt(staff), formatTime(time.Now()), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return requireAffected(res)
}
