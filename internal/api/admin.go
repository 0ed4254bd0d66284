// ABOUTME: Admin-only JSON endpoints - usage stats and the bulk wipe
// ABOUTME: Both sit behind the admin session cookie checked in requireAdmin

package api

import (
	"context"
	"net/http"
)

// AdminConversationStore is the unscoped view the admin endpoints need.
type AdminConversationStore interface {
	CountConversations(ctx context.Context) (int, error)
	DeleteAllConversations(ctx context.Context) (int, error)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.adminConvs.CountConversations(r.Context())
	if err != nil {
		s.logger.Error("counting conversations failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]int{"total": total})
}

func (s *Server) handleAdminDeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.adminConvs.DeleteAllConversations(r.Context())
	if err != nil {
		s.logger.Error("deleting all conversations failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
