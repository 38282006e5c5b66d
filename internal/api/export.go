package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type exportRequest struct {
	InvoiceIDs []string `json:"invoice_ids"`
}

// ExportPDF generates a combined PDF of the given invoices and returns the
// document bytes.
func (c *Client) ExportPDF(ctx context.Context, invoiceIDs []string) ([]byte, error) {
	return c.export(ctx, "/export/pdf", invoiceIDs)
}

// ExportZIP generates a ZIP of the given invoices' source documents and
// returns the archive bytes.
func (c *Client) ExportZIP(ctx context.Context, invoiceIDs []string) ([]byte, error) {
	return c.export(ctx, "/export/zip", invoiceIDs)
}

func (c *Client) export(ctx context.Context, path string, invoiceIDs []string) ([]byte, error) {
	body, err := json.Marshal(exportRequest{InvoiceIDs: invoiceIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode export request: %w", err)
	}
	data, err := c.doBinary(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	return data, nil
}
