package client

import (
	"context"
	"fmt"

	"github.com/yndnr/teataster-go/internal/core/domain"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the answer of POST /login.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    domain.User `json:"user,omitempty"`
}

// AuthService authenticates against the data service.
type AuthService struct {
	conn *Connection
}

// NewAuthService creates an AuthService on conn.
func NewAuthService(conn *Connection) *AuthService {
	return &AuthService{conn: conn}
}

// Login exchanges credentials for a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var resp LoginResponse
	err := s.conn.Post(ctx, "/login", LoginRequest{Username: email, Password: password}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !resp.Success || resp.Token == "" {
		return "", domain.ErrInvalidCredentials
	}
	return resp.Token, nil
}

// Logout ends the session on the service side.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.conn.Post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GetUserInfo returns the user owning token, or the stored session's user
// when token is empty.
func (s *AuthService) GetUserInfo(ctx context.Context, token string) (domain.User, error) {
	if token != "" {
		ctx = WithBearer(ctx, token)
	}
	var user domain.User
	if err := s.conn.Get(ctx, "/users/current", &user); err != nil {
		return domain.User{}, fmt.Errorf("get user info: %w", err)
	}
	return user, nil
}
