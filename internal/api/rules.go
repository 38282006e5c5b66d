package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nivke/invoiceflow/internal/model"
)

// Rules fetches all automation rules.
func (c *Client) Rules(ctx context.Context) ([]model.Rule, error) {
	var rules []model.Rule
	if err := c.getJSON(ctx, "/rules", nil, &rules); err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}
	return rules, nil
}

// CreateRule stores a new rule. The backend keeps a pre-assigned id when one
// is present.
func (c *Client) CreateRule(ctx context.Context, rule model.Rule) (*model.Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule: %w", err)
	}
	var created model.Rule
	if err := c.sendJSON(ctx, http.MethodPost, "/rules", rule, &created); err != nil {
		return nil, fmt.Errorf("failed to create rule %q: %w", rule.Name, err)
	}
	return &created, nil
}

// UpdateRule replaces a stored rule.
func (c *Client) UpdateRule(ctx context.Context, rule model.Rule) (*model.Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule: %w", err)
	}
	var updated model.Rule
	path := "/rules/" + url.PathEscape(rule.ID)
	if err := c.sendJSON(ctx, http.MethodPut, path, rule, &updated); err != nil {
		return nil, fmt.Errorf("failed to update rule %s: %w", rule.ID, err)
	}
	return &updated, nil
}

// DeleteRule removes a rule.
func (c *Client) DeleteRule(ctx context.Context, id string) error {
	path := "/rules/" + url.PathEscape(id)
	if err := c.sendJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, err)
	}
	return nil
}

// ApplyAllRules asks the backend to evaluate every active rule against the
// full invoice history and returns its summary message.
func (c *Client) ApplyAllRules(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/rules/apply_all", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to apply rules: %w", err)
	}
	return resp.Message, nil
}
