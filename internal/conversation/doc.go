// Package conversation provides owner-scoped conversation management.
//
// # Overview
//
// The conversation package sits between the HTTP handlers and the
// store, resolving the caller's identity into a storage owner and
// enforcing that every read and write stays inside it.
//
// # Service
//
// The Service coordinates conversation operations:
//
//	svc := conversation.New(store, logger)
//
// Key operations:
//
//   - List(ctx, identity, agentID): The caller's conversations, newest first
//   - Create(ctx, identity, agentID, title, messages): New conversation
//   - Get/Update/Delete(ctx, identity, id): Scoped single-row operations
//   - Migrate(ctx, browserID, userID): Claim anonymous history for an account
//
// # Ownership
//
// A conversation belongs to exactly one owner: an anonymous browser
// token before login, a user account after. The service never exposes a
// row outside its owner; a cross-owner id behaves like a missing one.
//
// # Migration
//
// Login and registration claim the visitor's anonymous history by
// reassigning rows in place. The previous token is kept in an audit
// column and two guards make repeat calls harmless: a user who already
// owns conversations, or a token that was already migrated to them,
// changes nothing.
package conversation
