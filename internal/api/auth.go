package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nivke/invoiceflow/internal/common"
)

type profileResponse struct {
	Email string `json:"email"`
}

// Profile returns the email of the current session, or ErrUnauthorized when
// no session exists.
func (c *Client) Profile(ctx context.Context) (string, error) {
	var profile *profileResponse
	if err := c.getJSON(ctx, "/auth/profile", nil, &profile); err != nil {
		return "", fmt.Errorf("failed to fetch profile: %w", err)
	}
	if profile == nil || profile.Email == "" {
		return "", common.ErrUnauthorized
	}
	return profile.Email, nil
}

// Login establishes a session against the backend's mail account and
// returns the authenticated email.
func (c *Client) Login(ctx context.Context) (string, error) {
	var profile profileResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", nil, &profile); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	return profile.Email, nil
}

// Logout ends the current session. An already-absent session is not an error.
func (c *Client) Logout(ctx context.Context) error {
	err := c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if err != nil && !errors.Is(err, common.ErrUnauthorized) {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}
