// Package webui serves the HTML surface of the gateway.
//
// # Chat page
//
// GET / renders the public chat page: a persona picker, the chat
// window, a history drawer, and login/register forms. The page talks to
// the JSON API from a small inline script; the anonymous browser token
// is minted client-side once and kept in localStorage.
//
// # Admin panel
//
// The admin pages live under /admin behind a single shared password.
// Login compares the form value against the configured bcrypt hash and
// stores a session row; the session cookie is scoped to the site root
// so the /api/admin endpoints accept it too. The dashboard lists every
// conversation unscoped, with per-row and bulk deletion.
//
// Templates are embedded with go:embed for single-binary deployment.
// Assistant messages on the conversation detail page are rendered as
// markdown via goldmark, which drops raw HTML from the source.
package webui
