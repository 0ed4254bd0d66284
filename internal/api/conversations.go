// ABOUTME: Handlers for conversation CRUD and ownership migration
// ABOUTME: Everything here is scoped to the identity resolved from the request

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/innotech/consulta-gateway/internal/agents"
	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/conversation"
	"github.com/innotech/consulta-gateway/internal/store"
)

// conversationResponse is the JSON shape of one conversation. The
// title source is included so clients can skip re-synthesizing a title
// that was already summarized once.
type conversationResponse struct {
	ID          string          `json:"id"`
	AgentID     string          `json:"agent_id"`
	Title       string          `json:"title"`
	TitleSource string          `json:"title_source"`
	Messages    []store.Message `json:"messages"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toConversationResponse(conv *store.Conversation) conversationResponse {
	messages := conv.Messages
	if messages == nil {
		messages = []store.Message{}
	}
	return conversationResponse{
		ID:          conv.ID,
		AgentID:     conv.AgentID,
		Title:       conv.Title,
		TitleSource: conv.TitleSource,
		Messages:    messages,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
}

// createConversationRequest is the JSON request body for POST /api/conversations.
type createConversationRequest struct {
	AgentID  string          `json:"agent_id"`
	Title    string          `json:"title"`
	Messages []store.Message `json:"messages"`
}

// updateConversationRequest is the JSON request body for PUT /api/conversations/{id}.
// Messages are rewritten wholesale; title and title_source only when present.
type updateConversationRequest struct {
	Messages    []store.Message `json:"messages"`
	Title       *string         `json:"title"`
	TitleSource *string         `json:"title_source"`
}

// migrateRequest is the JSON request body for POST /api/conversations/migrate.
type migrateRequest struct {
	BrowserID string `json:"browser_id"`
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	agentID := r.URL.Query().Get("agent_id")

	convs, err := s.conversations.List(r.Context(), identity, agentID)
	if err != nil {
		s.logger.Error("listing conversations failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, toConversationResponse(conv))
	}
	s.sendJSON(w, http.StatusOK, map[string][]conversationResponse{"conversations": out})
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AgentID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	identity := auth.FromContext(r.Context())
	conv, err := s.conversations.Create(r.Context(), identity, req.AgentID, req.Title, req.Messages)
	if err != nil {
		s.conversationError(w, err)
		return
	}
	s.sendJSON(w, http.StatusCreated, toConversationResponse(conv))
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	conv, err := s.conversations.Get(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		s.conversationError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, toConversationResponse(conv))
}

func (s *Server) handleUpdateConversation(w http.ResponseWriter, r *http.Request) {
	var req updateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TitleSource != nil &&
		*req.TitleSource != store.TitleSourceDerived &&
		*req.TitleSource != store.TitleSourceSynthesized {
		s.sendJSONError(w, http.StatusBadRequest, "invalid title_source")
		return
	}

	identity := auth.FromContext(r.Context())
	conv, err := s.conversations.Update(r.Context(), identity, r.PathValue("id"), store.ConversationUpdate{
		Messages:    req.Messages,
		Title:       req.Title,
		TitleSource: req.TitleSource,
	})
	if err != nil {
		s.conversationError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, toConversationResponse(conv))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	if err := s.conversations.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		s.conversationError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	// an absent or empty body is fine, the header may carry the browser id
	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	browserID := req.BrowserID
	if browserID == "" {
		browserID = identity.BrowserID
	}
	if browserID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "browser_id is required")
		return
	}

	result, err := s.conversations.Migrate(r.Context(), browserID, identity.UserID)
	if err != nil {
		s.logger.Error("migration failed", "user_id", identity.UserID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, result)
}

// conversationError maps service errors to API responses.
func (s *Server) conversationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, agents.ErrUnknown):
		s.sendJSONError(w, http.StatusBadRequest, "unknown agent")
	case errors.Is(err, conversation.ErrNoIdentity):
		s.sendJSONError(w, http.StatusBadRequest, "browser id or authentication required")
	default:
		s.logger.Error("conversation operation failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
