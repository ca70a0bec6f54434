package api

import (
	"context"
	"fmt"

	"github.com/Selva2621/plv/internal/model"
)

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the caller's own profile.
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        model.Profile `json:"user"`
}

// Login authenticates with email and password. On success the client adopts
// the returned token for subsequent requests; the caller persists it to the
// token store.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.SetToken(resp.AccessToken)

	c.logger.Info("logged in", "user_id", resp.User.ID)
	return &resp, nil
}

// Logout invalidates the current session server-side and clears the client's
// bearer token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.SetToken("")
	return nil
}
