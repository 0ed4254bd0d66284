// ABOUTME: HTTP middleware for identity resolution on API endpoints
// ABOUTME: Extracts JWT or browser token from the request and adds Identity to context

package auth

import (
	"net/http"
	"strings"
)

// BrowserIDHeader carries the client-generated anonymous token.
// The query parameter fallback exists for GET requests issued by the
// history drawer, which cannot always set headers.
const (
	BrowserIDHeader = "X-Browser-ID"
	browserIDParam  = "browser_id"
)

// AdminSessionCookie carries the admin panel session id. The admin web
// pages set it and the /api/admin endpoints honor it.
const AdminSessionCookie = "admin_session"

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// browserIDFromRequest reads the anonymous browser token: the header
// wins, the query parameter is accepted on GET only.
func browserIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(BrowserIDHeader); id != "" {
		return id
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get(browserIDParam)
	}
	return ""
}

// ResolveIdentity creates an HTTP middleware that resolves the caller
// identity and attaches it to the request context. A valid JWT yields an
// authenticated identity; otherwise the anonymous browser token is used;
// with neither the identity is zero and user-scoped handlers decide what
// that means (listing endpoints return empty collections, mutations 401).
// An invalid or expired JWT downgrades the request to anonymous rather
// than rejecting it, so a stale login never breaks the chat page.
func ResolveIdentity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := Identity{BrowserID: browserIDFromRequest(r)}

			if token, errMsg := extractBearerToken(r.Header.Get("Authorization")); errMsg == "" {
				if userID, err := verifier.Verify(token); err == nil {
					identity.UserID = userID
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireUser creates an HTTP middleware that rejects requests without an
// authenticated user. Must be used after ResolveIdentity.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := FromContext(r.Context())
			if !identity.Authenticated() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
