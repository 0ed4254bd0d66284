// ABOUTME: Tests for user account persistence
// ABOUTME: Covers create, lookup, and duplicate email handling

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &User{
		ID:           "user-1",
		Email:        "Maria@Example.com",
		PasswordHash: "$2a$10$hash",
		DisplayName:  "María",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", retrieved.Email)
	assert.Equal(t, "María", retrieved.DisplayName)
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &User{ID: "user-1", Email: "maria@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	// Same email with different casing also collides
	dup := &User{ID: "user-2", Email: "MARIA@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestStore_GetUserByEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := &User{ID: "user-1", Email: "maria@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUserByEmail(ctx, "Maria@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", retrieved.ID)

	_, err = store.GetUserByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
