// Package store provides persistent storage for the gateway using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with
// specialized interfaces:
//
//   - ConversationStore: Owner-scoped conversation CRUD, ownership
//     migration, and unscoped admin operations
//   - UserStore: Registered visitor accounts
//   - AdminStore: Admin panel sessions
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Data Models
//
//   - Conversation: One chat with a consultant persona. The message list
//     is a JSON array column, rewritten wholesale on every update.
//     Exactly one of BrowserID/UserID is set; MigratedFromBrowserID is
//     the audit trail left by ownership migration.
//   - Message: role (user|assistant), content, timestamp. Malformed
//     entries are filtered on both write and read.
//   - User: email/password account.
//   - AdminSession: cookie-backed admin login.
//
// # Owner Scoping
//
// Every conversation read and write is filtered by exactly one of
// (user_id = ?) or (browser_id = ? AND user_id IS NULL). Cross-owner
// access yields ErrNotFound, never another owner's row. A zero Owner
// lists nothing and matches nothing.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist (or isn't yours)
//   - ErrEmailExists: Email already registered
//   - ErrNoOwner: Conversation write without any owner identity
//
// All methods accept context.Context for cancellation support.
//
// # Migrations
//
// The schema is created automatically; additive column migrations run on
// startup and are idempotent.
package store
