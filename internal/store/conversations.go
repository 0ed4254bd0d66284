// ABOUTME: Conversation persistence methods for SQLiteStore
// ABOUTME: Owner-scoped CRUD, ownership migration, and admin bulk operations

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ownerClause returns the WHERE fragment and arguments scoping a query to
// the given owner. Anonymous rows are only visible while user_id is NULL,
// so a migrated conversation disappears from its old browser token.
func ownerClause(owner Owner) (string, []any) {
	if owner.UserID != "" {
		return "user_id = ?", []any{owner.UserID}
	}
	return "browser_id = ? AND user_id IS NULL", []any{owner.BrowserID}
}

const conversationColumns = `id, browser_id, user_id, migrated_from_browser_id, agent_id, title, title_source, messages, created_at, updated_at`

// scanConversation scans a conversation row from the given row scanner.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*Conversation, error) {
	var conv Conversation
	var browserID, userID, migratedFrom, title sql.NullString
	var messagesJSON, createdAtStr, updatedAtStr string

	err := row.Scan(
		&conv.ID,
		&browserID,
		&userID,
		&migratedFrom,
		&conv.AgentID,
		&title,
		&conv.TitleSource,
		&messagesJSON,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	conv.BrowserID = browserID.String
	conv.UserID = userID.String
	conv.MigratedFromBrowserID = migratedFrom.String
	conv.Title = title.String

	var messages []Message
	if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
		return nil, fmt.Errorf("parsing messages: %w", err)
	}
	// Malformed entries never reach callers
	conv.Messages = FilterValid(messages)

	conv.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	conv.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &conv, nil
}

// nullable converts an empty string to a NULL column value.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateConversation inserts a new conversation row.
// The caller is responsible for having set exactly one owner field.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	if conv.UserID == "" && conv.BrowserID == "" {
		return ErrNoOwner
	}

	if conv.Messages == nil {
		conv.Messages = []Message{}
	}
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}

	if conv.TitleSource == "" {
		conv.TitleSource = TitleSourceDerived
	}

	query := `
		INSERT INTO conversations (id, browser_id, user_id, migrated_from_browser_id, agent_id, title, title_source, messages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		conv.ID,
		nullable(conv.BrowserID),
		nullable(conv.UserID),
		nullable(conv.MigratedFromBrowserID),
		conv.AgentID,
		nullable(conv.Title),
		conv.TitleSource,
		string(messagesJSON),
		conv.CreatedAt.UTC().Format(time.RFC3339),
		conv.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	s.logger.Info("created conversation", "id", conv.ID, "agent_id", conv.AgentID, "authenticated", conv.UserID != "")
	return nil
}

// GetConversation retrieves a conversation by id, scoped to the owner.
// Returns ErrNotFound for missing rows and for rows owned by someone else.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string, owner Owner) (*Conversation, error) {
	if owner.IsZero() {
		return nil, ErrNotFound
	}

	clause, args := ownerClause(owner)
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ? AND ` + clause
	args = append([]any{id}, args...)

	conv, err := scanConversation(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	return conv, nil
}

// ListConversations returns the owner's conversations, most recently
// updated first, optionally filtered by agent id. A zero owner yields an
// empty list rather than an error so a brand-new anonymous visitor sees
// an empty history drawer.
func (s *SQLiteStore) ListConversations(ctx context.Context, owner Owner, agentID string) ([]*Conversation, error) {
	if owner.IsZero() {
		return []*Conversation{}, nil
	}

	clause, args := ownerClause(owner)
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE ` + clause
	if agentID != "" {
		query += ` AND agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	conversations := []*Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return conversations, nil
}

// UpdateConversation rewrites the mutable fields of an owner's
// conversation and bumps updated_at. Nil update fields are left
// untouched; a non-nil message slice replaces the stored list wholesale.
// Returns the updated row, or ErrNotFound for cross-owner access.
func (s *SQLiteStore) UpdateConversation(ctx context.Context, id string, owner Owner, update ConversationUpdate) (*Conversation, error) {
	if owner.IsZero() {
		return nil, ErrNotFound
	}

	setClauses := "updated_at = ?"
	setArgs := []any{time.Now().UTC().Format(time.RFC3339)}

	if update.Messages != nil {
		messagesJSON, err := json.Marshal(FilterValid(update.Messages))
		if err != nil {
			return nil, fmt.Errorf("encoding messages: %w", err)
		}
		setClauses += ", messages = ?"
		setArgs = append(setArgs, string(messagesJSON))
	}
	if update.Title != nil {
		setClauses += ", title = ?"
		setArgs = append(setArgs, *update.Title)
	}
	if update.TitleSource != nil {
		setClauses += ", title_source = ?"
		setArgs = append(setArgs, *update.TitleSource)
	}

	clause, ownerArgs := ownerClause(owner)
	query := `UPDATE conversations SET ` + setClauses + ` WHERE id = ? AND ` + clause
	args := append(setArgs, id)
	args = append(args, ownerArgs...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetConversation(ctx, id, owner)
}

// DeleteConversation removes an owner's conversation.
// Returns ErrNotFound for missing rows and cross-owner access.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, id string, owner Owner) error {
	if owner.IsZero() {
		return ErrNotFound
	}

	clause, args := ownerClause(owner)
	query := `DELETE FROM conversations WHERE id = ? AND ` + clause
	args = append([]any{id}, args...)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted conversation", "id", id)
	return nil
}

// CountConversationsByUser returns how many conversations a user owns.
func (s *SQLiteStore) CountConversationsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM conversations WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting user conversations: %w", err)
	}
	return count, nil
}

// HasMigratedConversations reports whether a migration from the given
// browser token to the given user has already happened.
func (s *SQLiteStore) HasMigratedConversations(ctx context.Context, browserID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM conversations WHERE migrated_from_browser_id = ? AND user_id = ? LIMIT 1",
		browserID, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking migrated conversations: %w", err)
	}
	return true, nil
}

// MigrateConversations reassigns all anonymous conversations owned by the
// browser token to the user in a single UPDATE: user_id is set, the
// browser token is cleared, and migrated_from_browser_id records the
// audit trail. A pure reassignment, never a copy; running it again
// matches zero rows. Returns the number of rows migrated.
func (s *SQLiteStore) MigrateConversations(ctx context.Context, browserID, userID string) (int, error) {
	query := `
		UPDATE conversations
		SET user_id = ?,
		    migrated_from_browser_id = browser_id,
		    browser_id = NULL,
		    updated_at = ?
		WHERE browser_id = ? AND user_id IS NULL
	`

	result, err := s.db.ExecContext(ctx, query,
		userID,
		time.Now().UTC().Format(time.RFC3339),
		browserID,
	)
	if err != nil {
		return 0, fmt.Errorf("migrating conversations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected > 0 {
		s.logger.Info("migrated conversations", "count", rowsAffected, "user_id", userID)
	}
	return int(rowsAffected), nil
}

// CountConversations returns the total number of stored conversations.
func (s *SQLiteStore) CountConversations(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting conversations: %w", err)
	}
	return count, nil
}

// ListAllConversations returns the most recently updated conversations
// regardless of owner, for the admin panel. limit <= 0 means no limit.
func (s *SQLiteStore) ListAllConversations(ctx context.Context, limit int) ([]*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations ORDER BY updated_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	conversations := []*Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return conversations, nil
}

// GetConversationByID retrieves a conversation without owner scoping,
// for the admin panel.
func (s *SQLiteStore) GetConversationByID(ctx context.Context, id string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`

	conv, err := scanConversation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	return conv, nil
}

// DeleteConversationByID removes a conversation without owner scoping,
// for the admin panel.
func (s *SQLiteStore) DeleteConversationByID(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("admin deleted conversation", "id", id)
	return nil
}

// DeleteAllConversations removes every stored conversation and returns
// how many were deleted.
func (s *SQLiteStore) DeleteAllConversations(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM conversations")
	if err != nil {
		return 0, fmt.Errorf("deleting all conversations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	s.logger.Warn("deleted all conversations", "count", rowsAffected)
	return int(rowsAffected), nil
}
