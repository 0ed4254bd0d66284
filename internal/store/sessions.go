// ABOUTME: Admin session persistence methods for SQLiteStore
// ABOUTME: Backs the admin panel's cookie-based login

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrAdminSessionNotFound is returned when a session doesn't exist or is expired.
var ErrAdminSessionNotFound = errors.New("admin session not found")

// CreateAdminSession creates a new admin session.
func (s *SQLiteStore) CreateAdminSession(ctx context.Context, session *AdminSession) error {
	query := `
		INSERT INTO admin_sessions (id, created_at, expires_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.CreatedAt.UTC().Format(time.RFC3339),
		session.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting admin session: %w", err)
	}

	s.logger.Debug("created admin session", "id", session.ID)
	return nil
}

// GetAdminSession retrieves a valid (non-expired) admin session.
func (s *SQLiteStore) GetAdminSession(ctx context.Context, id string) (*AdminSession, error) {
	query := `
		SELECT id, created_at, expires_at
		FROM admin_sessions
		WHERE id = ? AND expires_at > ?
	`

	var session AdminSession
	var createdAtStr, expiresAtStr string
	now := time.Now().UTC().Format(time.RFC3339)

	err := s.db.QueryRowContext(ctx, query, id, now).Scan(
		&session.ID,
		&createdAtStr,
		&expiresAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin session: %w", err)
	}

	session.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}

	return &session, nil
}

// DeleteAdminSession deletes an admin session.
func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM admin_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting admin session: %w", err)
	}
	return nil
}

// DeleteExpiredAdminSessions removes all expired sessions.
func (s *SQLiteStore) DeleteExpiredAdminSessions(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, "DELETE FROM admin_sessions WHERE expires_at <= ?", now)
	if err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		s.logger.Debug("deleted expired admin sessions", "count", rowsAffected)
	}
	return nil
}
