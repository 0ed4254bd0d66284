// Package auth provides identity resolution for consulta-gateway.
//
// # Identity Model
//
// Every request resolves to an Identity with at most one owner:
//
//   - UserID: set when a valid HS256 JWT arrived in the Authorization
//     header (Bearer scheme); the user id lives in the "sub" claim.
//   - BrowserID: the anonymous token the browser generated once and
//     persists locally, sent in the X-Browser-ID header (or the
//     browser_id query parameter on GET).
//
// Both fields empty means a brand-new visitor: listing endpoints return
// empty collections, mutating endpoints reject the request.
//
// # Middleware
//
// ResolveIdentity attaches the Identity to the request context for every
// route; RequireUser gates endpoints that only make sense for logged-in
// accounts (migration, profile). Handlers read the identity back with
// FromContext.
//
// # Passwords
//
// HashPassword/CheckPassword wrap bcrypt and back both visitor accounts
// and the admin panel password.
package auth
