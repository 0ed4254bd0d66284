// ABOUTME: Tests for conversation persistence, owner scoping, and migration
// ABOUTME: Uses a temp-dir SQLite database per test

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testConversation(id string, owner Owner) *Conversation {
	now := time.Now().UTC().Truncate(time.Second)
	return &Conversation{
		ID:        id,
		BrowserID: owner.BrowserID,
		UserID:    owner.UserID,
		AgentID:   "asesor-financiero",
		Title:     "Flujo de caja",
		Messages: []Message{
			{Role: RoleUser, Content: "¿Cómo optimizar mi flujo de caja?", Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_CreateConversation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := Owner{BrowserID: "browser-abc"}

	conv := testConversation("conv-1", owner)
	require.NoError(t, store.CreateConversation(ctx, conv))

	retrieved, err := store.GetConversation(ctx, "conv-1", owner)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", retrieved.ID)
	assert.Equal(t, "browser-abc", retrieved.BrowserID)
	assert.Empty(t, retrieved.UserID)
	assert.Equal(t, "asesor-financiero", retrieved.AgentID)
	assert.Equal(t, TitleSourceDerived, retrieved.TitleSource)
	require.Len(t, retrieved.Messages, 1)
	assert.Equal(t, RoleUser, retrieved.Messages[0].Role)
}

func TestStore_CreateConversation_NoOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv := testConversation("conv-1", Owner{})
	err := store.CreateConversation(ctx, conv)
	assert.ErrorIs(t, err, ErrNoOwner)
}

func TestStore_GetConversation_CrossOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv := testConversation("conv-1", Owner{BrowserID: "browser-a"})
	require.NoError(t, store.CreateConversation(ctx, conv))

	// Another browser token must not see the row
	_, err := store.GetConversation(ctx, "conv-1", Owner{BrowserID: "browser-b"})
	assert.ErrorIs(t, err, ErrNotFound)

	// Neither may an authenticated user
	_, err = store.GetConversation(ctx, "conv-1", Owner{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrNotFound)

	// Or nobody at all
	_, err = store.GetConversation(ctx, "conv-1", Owner{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListConversations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := Owner{BrowserID: "browser-abc"}

	for i := 0; i < 3; i++ {
		conv := testConversation(fmt.Sprintf("conv-%d", i), owner)
		conv.UpdatedAt = conv.UpdatedAt.Add(time.Duration(i) * time.Minute)
		if i == 2 {
			conv.AgentID = "asesor-legal"
		}
		require.NoError(t, store.CreateConversation(ctx, conv))
	}
	// A row belonging to someone else
	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-other", Owner{BrowserID: "browser-xyz"})))

	conversations, err := store.ListConversations(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, conversations, 3)
	// Most recently updated first
	assert.Equal(t, "conv-2", conversations[0].ID)

	// Agent filter
	legal, err := store.ListConversations(ctx, owner, "asesor-legal")
	require.NoError(t, err)
	require.Len(t, legal, 1)
	assert.Equal(t, "conv-2", legal[0].ID)
}

func TestStore_ListConversations_NoIdentity(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Empty identity yields an empty list, not an error
	conversations, err := store.ListConversations(ctx, Owner{}, "")
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestStore_UpdateConversation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := Owner{BrowserID: "browser-abc"}

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", owner)))

	now := time.Now().UTC().Truncate(time.Second)
	newTitle := "Optimización de flujo de caja"
	newSource := TitleSourceSynthesized
	updated, err := store.UpdateConversation(ctx, "conv-1", owner, ConversationUpdate{
		Messages: []Message{
			{Role: RoleUser, Content: "¿Cómo optimizar mi flujo de caja?", Timestamp: now},
			{Role: RoleAssistant, Content: "Contame sobre tus ingresos y gastos.", Timestamp: now},
		},
		Title:       &newTitle,
		TitleSource: &newSource,
	})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, TitleSourceSynthesized, updated.TitleSource)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, RoleAssistant, updated.Messages[1].Role)
}

func TestStore_UpdateConversation_FiltersMalformedMessages(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := Owner{BrowserID: "browser-abc"}

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", owner)))

	now := time.Now().UTC()
	updated, err := store.UpdateConversation(ctx, "conv-1", owner, ConversationUpdate{
		Messages: []Message{
			{Role: RoleUser, Content: "hola", Timestamp: now},
			{Role: RoleAssistant, Content: "", Timestamp: now},   // empty content
			{Role: "system", Content: "sneaky", Timestamp: now},  // unknown role
			{Role: RoleAssistant, Content: "   ", Timestamp: now}, // whitespace only
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, "hola", updated.Messages[0].Content)
}

func TestStore_UpdateConversation_CrossOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", Owner{BrowserID: "browser-a"})))

	title := "hijacked"
	_, err := store.UpdateConversation(ctx, "conv-1", Owner{BrowserID: "browser-b"}, ConversationUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteConversation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	owner := Owner{BrowserID: "browser-abc"}

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", owner)))
	require.NoError(t, store.DeleteConversation(ctx, "conv-1", owner))

	// Gone from lists and direct fetch
	conversations, err := store.ListConversations(ctx, owner, "")
	require.NoError(t, err)
	assert.Empty(t, conversations)

	_, err = store.GetConversation(ctx, "conv-1", owner)
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete is a not-found
	err = store.DeleteConversation(ctx, "conv-1", owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_MigrateConversations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	browserOwner := Owner{BrowserID: "browser-abc"}

	for i := 0; i < 2; i++ {
		require.NoError(t, store.CreateConversation(ctx, testConversation(fmt.Sprintf("conv-%d", i), browserOwner)))
	}
	// A conversation already owned by a different user is untouched
	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-owned", Owner{UserID: "user-other"})))

	migrated, err := store.MigrateConversations(ctx, "browser-abc", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	// Rows now belong to the user, browser token cleared, audit trail set
	conv, err := store.GetConversation(ctx, "conv-0", Owner{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", conv.UserID)
	assert.Empty(t, conv.BrowserID)
	assert.Equal(t, "browser-abc", conv.MigratedFromBrowserID)

	// The old browser token no longer sees them
	conversations, err := store.ListConversations(ctx, browserOwner, "")
	require.NoError(t, err)
	assert.Empty(t, conversations)

	// Second invocation matches nothing
	migrated, err = store.MigrateConversations(ctx, "browser-abc", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)

	has, err := store.HasMigratedConversations(ctx, "browser-abc", "user-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasMigratedConversations(ctx, "browser-zzz", "user-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_CountConversationsByUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", Owner{UserID: "user-1"})))
	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-2", Owner{BrowserID: "browser-a"})))

	count, err := store.CountConversationsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.CountConversationsByUser(ctx, "user-none")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_DeleteAllConversations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateConversation(ctx, testConversation(fmt.Sprintf("conv-%d", i), Owner{BrowserID: "browser-a"})))
	}

	total, err := store.CountConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	deleted, err := store.DeleteAllConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	total, err = store.CountConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestStore_ListAllConversations_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		conv := testConversation(fmt.Sprintf("conv-%d", i), Owner{BrowserID: "browser-a"})
		conv.UpdatedAt = conv.UpdatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateConversation(ctx, conv))
	}

	conversations, err := store.ListAllConversations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "conv-3", conversations[0].ID)
}

func TestStore_GetConversationByID_Admin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConversation(ctx, testConversation("conv-1", Owner{BrowserID: "browser-a"})))

	conv, err := store.GetConversationByID(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conv.ID)

	require.NoError(t, store.DeleteConversationByID(ctx, "conv-1"))
	_, err = store.GetConversationByID(ctx, "conv-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessage_Valid(t *testing.T) {
	now := time.Now()
	assert.True(t, Message{Role: RoleUser, Content: "hola", Timestamp: now}.Valid())
	assert.True(t, Message{Role: RoleAssistant, Content: "hola", Timestamp: now}.Valid())
	assert.False(t, Message{Role: RoleUser, Content: "", Timestamp: now}.Valid())
	assert.False(t, Message{Role: RoleUser, Content: "  \n", Timestamp: now}.Valid())
	assert.False(t, Message{Role: "system", Content: "hola", Timestamp: now}.Valid())
}
