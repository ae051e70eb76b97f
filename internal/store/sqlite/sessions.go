package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/foodgramapp/foodgram-server/internal/domain"
)

const sessionColumns = `id, user_id, created_at, expires_at, ip_address, user_agent`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var (
		sess      domain.Session
		createdAt string
		expiresAt string
		ipAddress sql.NullString
		userAgent sql.NullString
	)
	if err := scanner.Scan(&sess.ID, &sess.UserID, &createdAt, &expiresAt, &ipAddress, &userAgent); err != nil {
		return nil, err
	}

	var err error
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	sess.IPAddress = ipAddress.String
	sess.UserAgent = userAgent.String
	return &sess, nil
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.UserID,
		formatTime(sess.CreatedAt),
		formatTime(sess.ExpiresAt),
		nullString(sess.IPAddress),
		nullString(sess.UserAgent),
	)
	return err
}

// GetSession returns store.ErrNotFound for unknown or revoked sessions.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, notFound(err)
	}
	return sess, nil
}

// DeleteSession revokes one session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteUserSessions revokes every session of a user.
func (s *Store) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions that expired before now and returns how many.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
