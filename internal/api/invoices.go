package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nivke/invoiceflow/internal/model"
)

// Invoices fetches the full invoice history.
func (c *Client) Invoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := c.getJSON(ctx, "/invoices", nil, &invoices); err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice sends the full record as a PUT and returns the server's copy.
func (c *Client) UpdateInvoice(ctx context.Context, inv model.Invoice) (*model.Invoice, error) {
	var updated model.Invoice
	path := "/invoices/" + url.PathEscape(inv.ID)
	if err := c.sendJSON(ctx, http.MethodPut, path, inv, &updated); err != nil {
		return nil, fmt.Errorf("failed to update invoice %s: %w", inv.ID, err)
	}
	return &updated, nil
}

// DeleteInvoice removes one invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	path := "/invoices/" + url.PathEscape(id)
	if err := c.sendJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", id, err)
	}
	return nil
}

// UploadFile attaches (or replaces) the source document of an invoice and
// returns the fields the server updated, download_url included. Callers
// saving an edit with a new attachment upload first and merge the result
// into the record before the PUT.
func (c *Client) UploadFile(ctx context.Context, id, filename string, file io.Reader) (*model.Invoice, error) {
	body, contentType, err := encodeMultipart(nil, filename, file)
	if err != nil {
		return nil, err
	}

	var updated model.Invoice
	path := "/invoices/" + url.PathEscape(id) + "/upload"
	if err := c.do(ctx, http.MethodPost, path, nil, body, contentType, &updated); err != nil {
		return nil, fmt.Errorf("failed to upload file for invoice %s: %w", id, err)
	}
	return &updated, nil
}

// CreateManual creates an invoice from a manual entry form, with an optional
// source document attached.
func (c *Client) CreateManual(ctx context.Context, inv model.Invoice, filename string, file io.Reader) (*model.Invoice, error) {
	fields := map[string]string{
		"vendor_name":  inv.VendorName,
		"invoice_date": inv.InvoiceDate,
		"subject":      inv.Subject,
		"currency":     string(inv.Currency),
		"status":       string(inv.Status),
		"comments":     inv.Comments,
	}
	if inv.TotalAmount != nil {
		fields["total_amount"] = strconv.FormatFloat(*inv.TotalAmount, 'f', 2, 64)
	}
	if inv.VatAmount != nil {
		fields["vat_amount"] = strconv.FormatFloat(*inv.VatAmount, 'f', 2, 64)
	}
	if len(inv.Labels) > 0 {
		fields["labels"] = strings.Join(inv.Labels, ",")
	}

	body, contentType, err := encodeMultipart(fields, filename, file)
	if err != nil {
		return nil, err
	}

	var created model.Invoice
	if err := c.do(ctx, http.MethodPost, "/invoices/manual", nil, body, contentType, &created); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &created, nil
}

// encodeMultipart builds a multipart body from form fields and an optional
// file part named "file".
func encodeMultipart(fields map[string]string, filename string, file io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to encode form field %s: %w", k, err)
		}
	}

	if file != nil {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
