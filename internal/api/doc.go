// Package api exposes the JSON HTTP surface of the gateway.
//
// # Routes
//
// Chat and personas:
//
//   - POST /api/chat: proxy a conversation to the completion API
//   - POST /api/generate-title: derive or synthesize a conversation title
//   - GET /api/agents: the persona registry, without system prompts
//
// Conversations, scoped to the caller's identity:
//
//   - GET/POST /api/conversations
//   - GET/PUT/DELETE /api/conversations/{id}
//   - POST /api/conversations/migrate: claim anonymous history (auth required)
//
// Accounts:
//
//   - POST /api/auth/register, POST /api/auth/login: issue a JWT and
//     opportunistically migrate the accompanying browser token's history
//   - GET /api/auth/me
//
// Admin, behind the admin session cookie:
//
//   - GET /api/admin/stats
//   - POST /api/admin/delete-all
//
// # Identity
//
// Every request passes through auth.ResolveIdentity: a valid bearer
// token yields a user identity, the X-Browser-ID header (or, on GET,
// the browser_id query parameter) an anonymous one. Handlers read the
// result from the request context and never look at headers themselves.
//
// # Errors
//
// Errors are JSON objects with a single "error" message. Validation
// failures are 400 with a field-level message; identity and ownership
// failures are 401 or 404 without detail; upstream and storage failures
// are logged and answered with a generic 500.
package api
