package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nivke/invoiceflow/internal/model"
)

// Analytics fetches the aggregate figures for the inclusive ISO date range.
func (c *Client) Analytics(ctx context.Context, startDate, endDate string) (*model.AnalyticsSummary, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)

	var summary model.AnalyticsSummary
	if err := c.getJSON(ctx, "/analytics", q, &summary); err != nil {
		return nil, fmt.Errorf("failed to fetch analytics: %w", err)
	}
	return &summary, nil
}
