package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Labels fetches the flat label namespace.
func (c *Client) Labels(ctx context.Context) ([]string, error) {
	var labels []string
	if err := c.getJSON(ctx, "/labels", nil, &labels); err != nil {
		return nil, fmt.Errorf("failed to fetch labels: %w", err)
	}
	return labels, nil
}

// CreateLabel adds a label and returns the full updated list.
func (c *Client) CreateLabel(ctx context.Context, name string) ([]string, error) {
	var labels []string
	body := map[string]string{"label": name}
	if err := c.sendJSON(ctx, http.MethodPost, "/labels", body, &labels); err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return labels, nil
}

// DeleteLabel removes a label and returns the full updated list. Usage
// guarding happens client-side before this call.
func (c *Client) DeleteLabel(ctx context.Context, name string) ([]string, error) {
	var labels []string
	path := "/labels/" + url.PathEscape(name)
	if err := c.sendJSON(ctx, http.MethodDelete, path, nil, &labels); err != nil {
		return nil, fmt.Errorf("failed to delete label %q: %w", name, err)
	}
	return labels, nil
}
