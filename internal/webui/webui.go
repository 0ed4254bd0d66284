// ABOUTME: Server-rendered web UI - the public chat page and the admin panel
// ABOUTME: Admin auth is a bcrypt password check plus a store-backed session cookie

package webui

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/store"
)

const (
	// CSRFCookieName is the cookie holding the login form's CSRF token.
	CSRFCookieName = "admin_csrf"

	// SessionDuration is how long an admin session lasts.
	SessionDuration = 24 * time.Hour
)

// Store combines the session operations with the unscoped conversation
// view the admin pages render.
type Store interface {
	store.AdminStore

	CountConversations(ctx context.Context) (int, error)
	ListAllConversations(ctx context.Context, limit int) ([]*store.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*store.Conversation, error)
	DeleteConversationByID(ctx context.Context, id string) error
	DeleteAllConversations(ctx context.Context) (int, error)
}

// Handler serves the chat page and the admin panel.
type Handler struct {
	store        Store
	passwordHash string
	logger       *slog.Logger
}

// New creates the web UI handler. passwordHash is the bcrypt hash the
// admin login form is checked against; an empty hash disables login.
func New(st Store, passwordHash string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:        st,
		passwordHash: passwordHash,
		logger:       logger.With("component", "webui"),
	}
}

// RegisterRoutes attaches the UI routes to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleChatPage)

	mux.HandleFunc("GET /admin/login", h.handleLoginPage)
	mux.HandleFunc("POST /admin/login", h.handleLogin)
	mux.HandleFunc("POST /admin/logout", h.requireAdmin(h.handleLogout))

	mux.HandleFunc("GET /admin", h.requireAdmin(h.handleDashboard))
	mux.HandleFunc("GET /admin/{$}", h.requireAdmin(h.handleDashboard))
	mux.HandleFunc("GET /admin/conversations/{id}", h.requireAdmin(h.handleConversationDetail))
	mux.HandleFunc("POST /admin/conversations/{id}/delete", h.requireAdmin(h.handleDeleteConversation))
	mux.HandleFunc("POST /admin/delete-all", h.requireAdmin(h.handleDeleteAll))
}

// requireAdmin wraps a handler to require a live admin session.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.hasSession(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *Handler) hasSession(r *http.Request) bool {
	cookie, err := r.Cookie(auth.AdminSessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = h.store.GetAdminSession(r.Context(), cookie.Value)
	return err == nil
}

// ensureCSRFToken returns the CSRF token for the login form, minting a
// cookie when none exists yet.
func (h *Handler) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		h.logger.Error("generating CSRF token failed", "error", err)
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// validateCSRF checks the form token against the cookie.
func (h *Handler) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	formToken := r.FormValue("csrf_token")
	return formToken != "" && formToken == cookie.Value
}

// createSession stores a new admin session and sets its cookie. The
// cookie path is the site root so the /api/admin endpoints see it too.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) error {
	sessionID, err := generateSecureToken(32)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	session := &store.AdminSession{
		ID:        sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionDuration),
	}
	if err := h.store.CreateAdminSession(r.Context(), session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AdminSessionCookie,
		Value:    sessionID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.hasSession(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.renderLoginPage(w, "", h.ensureCSRFToken(w, r))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginPage(w, "Formulario inválido", h.ensureCSRFToken(w, r))
		return
	}
	if !h.validateCSRF(r) {
		h.renderLoginPage(w, "Solicitud inválida, intentá de nuevo", h.ensureCSRFToken(w, r))
		return
	}
	if h.passwordHash == "" {
		h.renderLoginPage(w, "El panel de administración está deshabilitado", h.ensureCSRFToken(w, r))
		return
	}

	password := r.FormValue("password")
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(password)); err != nil {
		h.logger.Warn("admin login rejected")
		h.renderLoginPage(w, "Contraseña incorrecta", h.ensureCSRFToken(w, r))
		return
	}

	if err := h.createSession(w, r); err != nil {
		h.logger.Error("creating admin session failed", "error", err)
		h.renderLoginPage(w, "Error interno, intentá de nuevo", h.ensureCSRFToken(w, r))
		return
	}

	h.logger.Info("admin logged in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.AdminSessionCookie); err == nil {
		if err := h.store.DeleteAdminSession(r.Context(), cookie.Value); err != nil &&
			!errors.Is(err, store.ErrAdminSessionNotFound) {
			h.logger.Error("deleting admin session failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   auth.AdminSessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (h *Handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteConversationByID(r.Context(), id); err != nil &&
		!errors.Is(err, store.ErrNotFound) {
		h.logger.Error("deleting conversation failed", "conversation_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteAllConversations(r.Context())
	if err != nil {
		h.logger.Error("deleting all conversations failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.logger.Warn("admin wiped all conversations", "deleted", deleted)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// generateSecureToken returns a hex-encoded random token.
func generateSecureToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
