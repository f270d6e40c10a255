package handler

import (
	"errors"
	"net/http"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse answers POST /login. Rejected credentials are a 200 with
// Success false, not an error status.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

// handleLogin handles POST /login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	tok, user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.logger.InfoContext(r.Context(), "login rejected", "email", req.Username)
		h.writeJSON(w, http.StatusOK, LoginResponse{Success: false})
		return
	}
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "login", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, LoginResponse{Success: true, Token: tok, User: &user})
}

// handleLogout handles POST /logout. Any bearer token sent is revoked;
// logging out without one still succeeds.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if tok := BearerToken(r); tok != "" {
		h.accounts.Logout(r.Context(), tok)
	}
	h.writeJSON(w, http.StatusOK, struct{}{})
}

// handleCurrentUser handles GET /users/current.
func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
