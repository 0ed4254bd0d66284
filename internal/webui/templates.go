// ABOUTME: Template rendering for the chat page and admin panel
// ABOUTME: Loads templates from the embedded filesystem, markdown via goldmark

package webui

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/innotech/consulta-gateway/internal/agents"
	"github.com/innotech/consulta-gateway/internal/store"
)

type chatPageData struct {
	Title          string
	Agents         []agents.Agent
	DefaultAgentID string
}

type loginData struct {
	Title     string
	Error     string
	CSRFToken string
}

type conversationRow struct {
	ID        string
	Title     string
	AgentName string
	Owner     string
	Messages  int
	UpdatedAt time.Time
}

type dashboardData struct {
	Title         string
	Total         int
	Conversations []conversationRow
}

type renderedMessage struct {
	Role    string
	Content template.HTML
}

type conversationDetailData struct {
	Title        string
	Conversation *store.Conversation
	AgentName    string
	Owner        string
	Messages     []renderedMessage
}

// dashboardListLimit caps how many conversations the dashboard renders.
const dashboardListLimit = 100

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page)
	if err != nil {
		h.logger.Error("parsing template failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("rendering template failed", "page", page, "error", err)
	}
}

func (h *Handler) renderLoginPage(w http.ResponseWriter, errorMsg, csrfToken string) {
	h.render(w, "admin_login.html", loginData{
		Title:     "Acceso administrador",
		Error:     errorMsg,
		CSRFToken: csrfToken,
	})
}

func (h *Handler) handleChatPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "chat.html", chatPageData{
		Title:          "Consulta - Asesoría para PyMEs",
		Agents:         agents.All(),
		DefaultAgentID: agents.Default().ID,
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.CountConversations(r.Context())
	if err != nil {
		h.logger.Error("counting conversations failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	convs, err := h.store.ListAllConversations(r.Context(), dashboardListLimit)
	if err != nil {
		h.logger.Error("listing conversations failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([]conversationRow, 0, len(convs))
	for _, conv := range convs {
		rows = append(rows, conversationRow{
			ID:        conv.ID,
			Title:     conv.Title,
			AgentName: agentName(conv.AgentID),
			Owner:     ownerLabel(conv),
			Messages:  len(conv.Messages),
			UpdatedAt: conv.UpdatedAt,
		})
	}

	h.render(w, "admin_dashboard.html", dashboardData{
		Title:         "Panel de administración",
		Total:         total,
		Conversations: rows,
	})
}

func (h *Handler) handleConversationDetail(w http.ResponseWriter, r *http.Request) {
	conv, err := h.store.GetConversationByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("fetching conversation failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	messages := make([]renderedMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		messages = append(messages, renderedMessage{
			Role:    msg.Role,
			Content: renderMarkdown(msg.Content),
		})
	}

	h.render(w, "admin_conversation.html", conversationDetailData{
		Title:        conv.Title,
		Conversation: conv,
		AgentName:    agentName(conv.AgentID),
		Owner:        ownerLabel(conv),
		Messages:     messages,
	})
}

// renderMarkdown converts message markdown to HTML. Goldmark's default
// renderer drops raw HTML from the source, so user content cannot
// inject markup.
func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		// fall back to escaped plain text
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

func agentName(agentID string) string {
	if agent, ok := agents.Get(agentID); ok {
		return agent.Name
	}
	return agentID
}

// ownerLabel describes who owns a conversation for the admin list.
func ownerLabel(conv *store.Conversation) string {
	if conv.UserID != "" {
		return "usuario " + conv.UserID
	}
	if conv.BrowserID != "" {
		return "anónimo"
	}
	return "desconocido"
}
