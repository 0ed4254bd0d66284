// ABOUTME: Store interface and data types for consulta-gateway persistence
// ABOUTME: Defines Conversation, User structs and the Store interfaces for database operations

package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
// or is not visible to the requesting owner.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when trying to create a user with an existing email
var ErrEmailExists = errors.New("email already exists")

// ErrNoOwner is returned when a conversation operation is attempted without
// either a user id or a browser id to scope it by.
var ErrNoOwner = errors.New("no owner identity")

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Title source constants. A derived title is the truncated first user
// message; a synthesized title came back from the completion API and is
// never regenerated.
const (
	TitleSourceDerived     = "derived"
	TitleSourceSynthesized = "synthesized"
)

// Message is a single exchange entry within a conversation.
// The message list is stored as a JSON array on the conversation row and
// rewritten wholesale on every update.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the message is well formed: a known role and
// non-empty content.
func (m Message) Valid() bool {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return false
	}
	return strings.TrimSpace(m.Content) != ""
}

// FilterValid returns the subset of messages that are well formed,
// preserving order.
func FilterValid(messages []Message) []Message {
	filtered := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Valid() {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// Conversation is a persisted chat with one consultant persona.
// Exactly one of BrowserID / UserID is set: BrowserID for anonymous
// visitors, UserID once the conversation belongs to an account.
type Conversation struct {
	ID                    string
	BrowserID             string // anonymous owner token, empty once migrated
	UserID                string // authenticated owner, empty pre-login
	MigratedFromBrowserID string // audit trail of the token a row was migrated from
	AgentID               string
	Title                 string
	TitleSource           string // TitleSourceDerived | TitleSourceSynthesized
	Messages              []Message
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Owner scopes conversation queries to one identity. Exactly one field
// should be set; a zero Owner matches nothing.
type Owner struct {
	UserID    string
	BrowserID string
}

// IsZero reports whether the owner carries no identity at all.
func (o Owner) IsZero() bool {
	return o.UserID == "" && o.BrowserID == ""
}

// ConversationUpdate describes the mutable fields of a conversation.
// Nil fields are left untouched; Messages is always rewritten wholesale.
type ConversationUpdate struct {
	Messages    []Message
	Title       *string
	TitleSource *string
}

// User is a registered visitor account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// AdminSession is an authenticated admin panel session.
type AdminSession struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ConversationStore defines the interface for conversation persistence.
// Every read and write is scoped by the resolved owner identity;
// cross-owner access yields ErrNotFound, never another owner's row.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id string, owner Owner) (*Conversation, error)
	ListConversations(ctx context.Context, owner Owner, agentID string) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, id string, owner Owner, update ConversationUpdate) (*Conversation, error)
	DeleteConversation(ctx context.Context, id string, owner Owner) error

	// Ownership migration
	CountConversationsByUser(ctx context.Context, userID string) (int, error)
	HasMigratedConversations(ctx context.Context, browserID, userID string) (bool, error)
	MigrateConversations(ctx context.Context, browserID, userID string) (int, error)

	// Admin operations, unscoped
	CountConversations(ctx context.Context) (int, error)
	ListAllConversations(ctx context.Context, limit int) ([]*Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*Conversation, error)
	DeleteConversationByID(ctx context.Context, id string) error
	DeleteAllConversations(ctx context.Context) (int, error)
}

// UserStore defines the interface for user account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// AdminStore defines the interface for admin session persistence.
type AdminStore interface {
	CreateAdminSession(ctx context.Context, session *AdminSession) error
	GetAdminSession(ctx context.Context, id string) (*AdminSession, error)
	DeleteAdminSession(ctx context.Context, id string) error
	DeleteExpiredAdminSessions(ctx context.Context) error
}
