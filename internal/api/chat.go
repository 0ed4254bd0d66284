// ABOUTME: Handlers for the completion proxy, title synthesis, and agent listing
// ABOUTME: POST /api/chat, POST /api/generate-title, GET /api/agents

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/innotech/consulta-gateway/internal/agents"
	"github.com/innotech/consulta-gateway/internal/chat"
	"github.com/innotech/consulta-gateway/internal/store"
)

// chatRequest is the JSON request body for POST /api/chat.
type chatRequest struct {
	AgentID  string          `json:"agent_id"`
	Messages []store.Message `json:"messages"`
}

// chatResponse is the JSON response for POST /api/chat.
type chatResponse struct {
	Response string `json:"response"`
}

// titleRequest is the JSON request body for POST /api/generate-title.
type titleRequest struct {
	Messages []store.Message `json:"messages"`
}

// titleResponse is the JSON response for POST /api/generate-title.
type titleResponse struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AgentID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	reply, err := s.chat.Respond(r.Context(), req.AgentID, req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, agents.ErrUnknown):
			s.sendJSONError(w, http.StatusBadRequest, "unknown agent")
		case errors.Is(err, chat.ErrNoValidMessages):
			s.sendJSONError(w, http.StatusBadRequest, "no valid messages to process")
		default:
			s.logger.Error("chat failed", "agent_id", req.AgentID, "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.sendJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *Server) handleGenerateTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	title, source := s.chat.SynthesizeTitle(r.Context(), req.Messages)
	s.sendJSON(w, http.StatusOK, titleResponse{Title: title, Source: source})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string][]agents.Agent{"agents": agents.All()})
}
