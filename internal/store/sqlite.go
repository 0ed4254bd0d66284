// ABOUTME: SQLite implementation of the Store interfaces using modernc.org/sqlite
// ABOUTME: Provides conversation/user/session persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements ConversationStore, UserStore and AdminStore
// using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ ConversationStore = (*SQLiteStore)(nil)
	_ UserStore         = (*SQLiteStore)(nil)
	_ AdminStore        = (*SQLiteStore)(nil)
)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id                       TEXT PRIMARY KEY,
			browser_id               TEXT,
			user_id                  TEXT,
			migrated_from_browser_id TEXT,
			agent_id                 TEXT NOT NULL,
			title                    TEXT,
			title_source             TEXT NOT NULL DEFAULT 'derived',
			messages                 TEXT NOT NULL DEFAULT '[]',
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL,

			CHECK (title_source IN ('derived', 'synthesized'))
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_browser
			ON conversations(browser_id);

		CREATE INDEX IF NOT EXISTS idx_conversations_user
			ON conversations(user_id);

		CREATE INDEX IF NOT EXISTS idx_conversations_updated
			ON conversations(updated_at DESC);

		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name  TEXT,
			created_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS admin_sessions (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so we check first
	migrations := []struct {
		check  string // Query to check if migration is needed
		apply  string // Query to apply the migration
		column string // Column name for logging
	}{
		{
			check:  `SELECT 1 FROM pragma_table_info('conversations') WHERE name = 'migrated_from_browser_id'`,
			apply:  `ALTER TABLE conversations ADD COLUMN migrated_from_browser_id TEXT`,
			column: "migrated_from_browser_id",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('conversations') WHERE name = 'title_source'`,
			apply:  `ALTER TABLE conversations ADD COLUMN title_source TEXT NOT NULL DEFAULT 'derived'`,
			column: "title_source",
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(m.check).Scan(&exists)
		if err == nil {
			// Column already exists, skip
			continue
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to conversations: %w", m.column, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", "conversations")
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	// SQLite returns "UNIQUE constraint failed" in the error message
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") || strings.Contains(err.Error(), "unique constraint"))
}
