// ABOUTME: Handlers for local account registration, login, and the current user
// ABOUTME: Login and registration claim the visitor's anonymous history opportunistically

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/innotech/consulta-gateway/internal/auth"
	"github.com/innotech/consulta-gateway/internal/store"
)

// userResponse is the JSON shape of a user account. The password hash
// never leaves the store layer.
type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(user *store.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

// registerRequest is the JSON request body for POST /api/auth/register.
type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// loginRequest is the JSON request body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the JSON response for register and login.
type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		s.sendJSONError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		s.sendJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.sendJSONError(w, http.StatusConflict, "email already registered")
			return
		}
		s.logger.Error("creating user failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.finishAuth(w, r, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error("looking up user failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	s.finishAuth(w, r, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	user, err := s.users.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		s.logger.Error("looking up user failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

// finishAuth issues a token and, when the request also carried a browser
// token, claims that token's anonymous history for the account. A failed
// migration never fails the login; the user can retry it explicitly.
func (s *Server) finishAuth(w http.ResponseWriter, r *http.Request, user *store.User) {
	token, err := s.verifier.Generate(user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error("generating token failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	identity := auth.FromContext(r.Context())
	if identity.BrowserID != "" {
		result, err := s.conversations.Migrate(r.Context(), identity.BrowserID, user.ID)
		if err != nil {
			s.logger.Warn("opportunistic migration failed", "user_id", user.ID, "error", err)
		} else if result.Migrated > 0 {
			s.logger.Info("anonymous history claimed on auth",
				"user_id", user.ID,
				"migrated", result.Migrated)
		}
	}

	s.sendJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}
