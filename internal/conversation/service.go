// ABOUTME: Owner-scoped conversation service - CRUD plus ownership migration
// ABOUTME: Every operation resolves the caller's identity before touching storage

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/innotech/consulta-gateway/internal/agents"
	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/chat"
	"github.com/innotech/consulta-gateway/internal/store"
)

// ErrNoIdentity is returned when a write arrives with neither a user
// nor a browser token to own the result.
var ErrNoIdentity = errors.New("no identity")

// Store defines what the service needs from conversation persistence.
type Store interface {
	CreateConversation(ctx context.Context, conv *store.Conversation) error
	GetConversation(ctx context.Context, id string, owner store.Owner) (*store.Conversation, error)
	ListConversations(ctx context.Context, owner store.Owner, agentID string) ([]*store.Conversation, error)
	UpdateConversation(ctx context.Context, id string, owner store.Owner, update store.ConversationUpdate) (*store.Conversation, error)
	DeleteConversation(ctx context.Context, id string, owner store.Owner) error

	CountConversationsByUser(ctx context.Context, userID string) (int, error)
	HasMigratedConversations(ctx context.Context, browserID, userID string) (bool, error)
	MigrateConversations(ctx context.Context, browserID, userID string) (int, error)
}

// Service owns the conversation lifecycle: creation for anonymous and
// authenticated callers, scoped reads and writes, and the one-way
// migration of anonymous history into an account.
type Service struct {
	store  Store
	logger *slog.Logger
}

// New creates a conversation service.
func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger.With("component", "conversation"),
	}
}

// ownerFor maps a resolved identity to a storage owner. An
// authenticated user always scopes by account, even when a browser
// token also arrived with the request.
func ownerFor(identity auth.Identity) store.Owner {
	if identity.Authenticated() {
		return store.Owner{UserID: identity.UserID}
	}
	return store.Owner{BrowserID: identity.BrowserID}
}

// List returns the caller's conversations, newest first, optionally
// filtered to one agent. A caller with no identity has no history and
// gets an empty list, not an error.
func (s *Service) List(ctx context.Context, identity auth.Identity, agentID string) ([]*store.Conversation, error) {
	return s.store.ListConversations(ctx, ownerFor(identity), agentID)
}

// Create stores a new conversation for the caller. The title defaults
// to one derived from the first user message when absent.
func (s *Service) Create(ctx context.Context, identity auth.Identity, agentID, title string, messages []store.Message) (*store.Conversation, error) {
	if identity.IsZero() {
		return nil, ErrNoIdentity
	}
	if _, ok := agents.Get(agentID); !ok {
		return nil, agents.ErrUnknown
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = chat.DeriveTitle(firstUserContent(messages))
	}

	now := time.Now().UTC()
	conv := &store.Conversation{
		ID:          uuid.New().String(),
		BrowserID:   identity.BrowserID,
		UserID:      identity.UserID,
		AgentID:     agentID,
		Title:       title,
		TitleSource: store.TitleSourceDerived,
		Messages:    messages,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if identity.Authenticated() {
		conv.BrowserID = ""
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Info("conversation created",
		"conversation_id", conv.ID,
		"agent_id", agentID,
		"authenticated", identity.Authenticated())
	return conv, nil
}

// Get fetches one conversation. Another owner's id yields
// store.ErrNotFound, indistinguishable from a missing row.
func (s *Service) Get(ctx context.Context, identity auth.Identity, id string) (*store.Conversation, error) {
	return s.store.GetConversation(ctx, id, ownerFor(identity))
}

// Update rewrites a conversation's messages and, when provided, its
// title. A conversation is synthesized at most once: when the stored
// source is already synthesized, an incoming synthesized title is
// dropped and only the messages land, so the title stays stable.
func (s *Service) Update(ctx context.Context, identity auth.Identity, id string, update store.ConversationUpdate) (*store.Conversation, error) {
	if update.TitleSource != nil && *update.TitleSource == store.TitleSourceSynthesized {
		current, err := s.store.GetConversation(ctx, id, ownerFor(identity))
		if err != nil {
			return nil, err
		}
		if current.TitleSource == store.TitleSourceSynthesized {
			s.logger.Debug("ignoring repeat title synthesis",
				"conversation_id", id)
			update.Title = nil
			update.TitleSource = nil
		}
	}
	return s.store.UpdateConversation(ctx, id, ownerFor(identity), update)
}

// Delete removes one conversation owned by the caller.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, id string) error {
	return s.store.DeleteConversation(ctx, id, ownerFor(identity))
}

// MigrateResult reports what a migration call did.
type MigrateResult struct {
	Migrated        int  `json:"migrated"`
	AlreadyMigrated bool `json:"already_migrated"`
}

// Migrate reassigns all conversations owned by browserID to userID.
// Rows are reassigned in place, never copied, so the operation is
// idempotent: a second call finds nothing anonymous to claim. Two
// guards short-circuit repeat calls - the user already owning
// conversations, or an earlier migration from the same token.
func (s *Service) Migrate(ctx context.Context, browserID, userID string) (MigrateResult, error) {
	if browserID == "" || userID == "" {
		return MigrateResult{}, ErrNoIdentity
	}

	owned, err := s.store.CountConversationsByUser(ctx, userID)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("counting user conversations: %w", err)
	}
	if owned > 0 {
		s.logger.Debug("migration skipped, user already has conversations",
			"user_id", userID, "owned", owned)
		return MigrateResult{AlreadyMigrated: true}, nil
	}

	migrated, err := s.store.HasMigratedConversations(ctx, browserID, userID)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("checking prior migration: %w", err)
	}
	if migrated {
		s.logger.Debug("migration skipped, token already migrated",
			"user_id", userID)
		return MigrateResult{AlreadyMigrated: true}, nil
	}

	count, err := s.store.MigrateConversations(ctx, browserID, userID)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migrating conversations: %w", err)
	}

	s.logger.Info("conversations migrated",
		"user_id", userID,
		"migrated", count)
	return MigrateResult{Migrated: count}, nil
}

// firstUserContent returns the first user message's content, or the
// first message of any role when none exists.
func firstUserContent(messages []store.Message) string {
	for _, msg := range messages {
		if msg.Role == store.RoleUser {
			return msg.Content
		}
	}
	if len(messages) > 0 {
		return messages[0].Content
	}
	return ""
}
