// ABOUTME: Caller identity for tracking ownership through request handlers
// ABOUTME: Provides WithIdentity/FromContext for propagating identity via context

package auth

import (
	"context"
)

// Identity is the resolved owner identity of a request: either an
// authenticated user id (verified JWT) or an anonymous browser token
// supplied by the client. Both may be empty for a brand-new visitor.
// Identity is always an explicit parameter threaded through the request,
// never ambient global state.
type Identity struct {
	UserID    string // set when a valid JWT accompanied the request
	BrowserID string // client-generated anonymous token
}

// Authenticated reports whether the request carried a verified user.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// IsZero reports whether the request carried no identity at all.
func (id Identity) IsZero() bool {
	return id.UserID == "" && id.BrowserID == ""
}

// identityContextKey is the key type for storing Identity in context.Context.
type identityContextKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// FromContext retrieves the Identity from the context, returning a zero
// Identity if not present.
func FromContext(ctx context.Context) Identity {
	val := ctx.Value(identityContextKey{})
	if val == nil {
		return Identity{}
	}
	id, ok := val.(Identity)
	if !ok {
		return Identity{}
	}
	return id
}
