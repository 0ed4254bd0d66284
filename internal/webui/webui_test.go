// ABOUTME: Tests for the web UI - admin login flow, dashboard, and chat page
// ABOUTME: Drives the handlers over httptest with manually managed cookies

package webui

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/store"
)

const testPassword = "panel-secreto"

type testEnv struct {
	server *httptest.Server
	store  *store.SQLiteStore
	client *http.Client
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	handler := New(st, string(hash), slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{server: ts, store: st, client: client}
}

// login performs the CSRF dance and returns the session cookie.
func (e *testEnv) login(t *testing.T, password string) (*http.Response, *http.Cookie) {
	t.Helper()

	resp, err := e.client.Get(e.server.URL + "/admin/login")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	var csrf *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CSRFCookieName {
			csrf = c
		}
	}
	require.NotNil(t, csrf, "login page must set a CSRF cookie")

	form := url.Values{"csrf_token": {csrf.Value}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/admin/login", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrf)

	resp, err = e.client.Do(req)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.AdminSessionCookie {
			session = c
		}
	}
	return resp, session
}

func (e *testEnv) get(t *testing.T, path string, session *http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func seedConversation(t *testing.T, st *store.SQLiteStore, title string) *store.Conversation {
	t.Helper()
	now := time.Now().UTC()
	conv := &store.Conversation{
		ID:          "conv-" + strings.ReplaceAll(title, " ", "-"),
		BrowserID:   "browser-1",
		AgentID:     "asesor-financiero",
		Title:       title,
		TitleSource: store.TitleSourceDerived,
		Messages: []store.Message{
			{Role: store.RoleUser, Content: "¿Cómo optimizar mi **flujo de caja**?", Timestamp: now},
			{Role: store.RoleAssistant, Content: "Revisemos tus márgenes.", Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateConversation(context.Background(), conv))
	return conv
}

func TestChatPageRendersAgents(t *testing.T) {
	env := setupEnv(t)

	resp, body := env.get(t, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Consultor de Negocio")
	assert.Contains(t, body, "Asesor Financiero")
	assert.Contains(t, body, "Estratega de Marketing")
	assert.Contains(t, body, "Asesor Legal")
	// system prompts never reach the page
	assert.NotContains(t, body, "Eres un consultor de negocio senior")

	// the default advisor card carries the recommendation badge
	assert.Contains(t, body, "Recomendado")
	assert.Equal(t, 1, strings.Count(body, "Recomendado"))
}

func TestAdminRequiresLogin(t *testing.T) {
	env := setupEnv(t)

	resp, _ := env.get(t, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestAdminLoginFlow(t *testing.T) {
	env := setupEnv(t)

	resp, session := env.login(t, testPassword)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	require.NotNil(t, session)
	assert.Equal(t, "/", session.Path)

	resp, body := env.get(t, "/admin", session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Conversaciones")
}

func TestAdminLoginWrongPassword(t *testing.T) {
	env := setupEnv(t)

	resp, session := env.login(t, "incorrecta")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, session)
}

func TestAdminLoginWithoutCSRF(t *testing.T) {
	env := setupEnv(t)

	form := url.Values{"password": {testPassword}}
	resp, err := env.client.Post(env.server.URL+"/admin/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	for _, c := range resp.Cookies() {
		assert.NotEqual(t, auth.AdminSessionCookie, c.Name)
	}
}

func TestDashboardListsConversations(t *testing.T) {
	env := setupEnv(t)
	seedConversation(t, env.store, "Flujo de caja")

	_, session := env.login(t, testPassword)
	require.NotNil(t, session)

	resp, body := env.get(t, "/admin", session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Flujo de caja")
	assert.Contains(t, body, "Asesor Financiero")
}

func TestConversationDetailRendersMarkdown(t *testing.T) {
	env := setupEnv(t)
	conv := seedConversation(t, env.store, "Detalle")

	_, session := env.login(t, testPassword)
	require.NotNil(t, session)

	resp, body := env.get(t, "/admin/conversations/"+conv.ID, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<strong>flujo de caja</strong>")

	resp, _ = env.get(t, "/admin/conversations/desconocida", session)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteAllConversations(t *testing.T) {
	env := setupEnv(t)
	seedConversation(t, env.store, "Una")
	seedConversation(t, env.store, "Otra")

	_, session := env.login(t, testPassword)
	require.NotNil(t, session)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/admin/delete-all", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	total, err := env.store.CountConversations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLogoutClearsSession(t *testing.T) {
	env := setupEnv(t)

	_, session := env.login(t, testPassword)
	require.NotNil(t, session)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/admin/logout", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	// the session row is gone, the dashboard redirects again
	resp, _ = env.get(t, "/admin", session)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}
