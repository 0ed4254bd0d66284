// ABOUTME: HTTP API server - route registration and shared response helpers
// ABOUTME: All JSON endpoints hang off one ServeMux with method patterns

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/chat"
	"github.com/innotech/consulta-gateway/internal/conversation"
	"github.com/innotech/consulta-gateway/internal/store"
)

// Server holds the services the JSON API fronts.
type Server struct {
	chat          *chat.Service
	conversations *conversation.Service
	users         store.UserStore
	admin         store.AdminStore
	adminConvs    AdminConversationStore
	verifier      *auth.JWTVerifier
	tokenTTL      time.Duration
	logger        *slog.Logger
}

// Deps bundles everything the API server needs.
type Deps struct {
	Chat               *chat.Service
	Conversations      *conversation.Service
	Users              store.UserStore
	Admin              store.AdminStore
	AdminConversations AdminConversationStore
	Verifier           *auth.JWTVerifier
	TokenTTL           time.Duration
	Logger             *slog.Logger
}

// New creates the API server.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		chat:          deps.Chat,
		conversations: deps.Conversations,
		users:         deps.Users,
		admin:         deps.Admin,
		adminConvs:    deps.AdminConversations,
		verifier:      deps.Verifier,
		tokenTTL:      deps.TokenTTL,
		logger:        logger.With("component", "api"),
	}
}

// Register attaches all API routes to the mux. Identity resolution runs
// on every route; individual handlers decide what identity they need.
func (s *Server) Register(mux *http.ServeMux) {
	identity := auth.ResolveIdentity(s.verifier)
	user := auth.RequireUser()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.recoverPanics(identity(h)))
	}
	handleUser := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.recoverPanics(identity(user(h))))
	}
	handleAdmin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.recoverPanics(s.requireAdmin(h)))
	}

	handle("POST /api/chat", s.handleChat)
	handle("POST /api/generate-title", s.handleGenerateTitle)
	handle("GET /api/agents", s.handleListAgents)

	handle("GET /api/conversations", s.handleListConversations)
	handle("POST /api/conversations", s.handleCreateConversation)
	handle("GET /api/conversations/{id}", s.handleGetConversation)
	handle("PUT /api/conversations/{id}", s.handleUpdateConversation)
	handle("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	handleUser("POST /api/conversations/migrate", s.handleMigrate)

	handle("POST /api/auth/register", s.handleRegister)
	handle("POST /api/auth/login", s.handleLogin)
	handleUser("GET /api/auth/me", s.handleMe)

	handleAdmin("GET /api/admin/stats", s.handleAdminStats)
	handleAdmin("POST /api/admin/delete-all", s.handleAdminDeleteAll)

	mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recoverPanics converts a handler panic into a 500 without leaking the
// panic value to the client.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panicked",
					"path", r.URL.Path,
					"panic", rec)
				s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAdmin admits only requests carrying a live admin session cookie.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.AdminSessionCookie)
		if err != nil || cookie.Value == "" {
			s.sendJSONError(w, http.StatusUnauthorized, "admin session required")
			return
		}
		if _, err := s.admin.GetAdminSession(r.Context(), cookie.Value); err != nil {
			s.sendJSONError(w, http.StatusUnauthorized, "admin session required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sendJSON writes a JSON response with the given status.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
