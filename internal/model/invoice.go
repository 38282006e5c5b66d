// Package model defines the core data structures for the invoiceflow application.
package model

import (
	"fmt"
	"strings"
)

// Status represents the processing state of an invoice.
type Status string

// Invoice status constants.
const (
	StatusPending   Status = "Pending"
	StatusWarning   Status = "Warning"
	StatusProcessed Status = "Processed"
	StatusCancelled Status = "Cancelled"
)

// AllStatuses lists every invoice status in display order.
var AllStatuses = []Status{StatusPending, StatusWarning, StatusProcessed, StatusCancelled}

// ParseStatus matches s against the known statuses, ignoring case.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// Currency identifies the currency an invoice is denominated in.
type Currency string

// Supported currencies.
const (
	CurrencyILS Currency = "ILS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Invoice represents one scanned or manually entered billing document.
// The authoritative copy lives server-side; JSON tags match the backend wire
// format. Nullable numeric fields are pointers so that "unknown" survives a
// round-trip; InvoiceDate is an ISO YYYY-MM-DD string, empty when unknown.
type Invoice struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename,omitempty"`
	SenderEmail string   `json:"sender_email,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	InvoiceDate string   `json:"invoice_date,omitempty"`
	VendorName  string   `json:"vendor_name,omitempty"`
	TotalAmount *float64 `json:"total_amount,omitempty"`
	VatAmount   *float64 `json:"vat_amount,omitempty"`
	Currency    Currency `json:"currency"`
	DownloadURL string   `json:"download_url,omitempty"`
	Status      Status   `json:"status"`
	Labels      []string `json:"labels,omitempty"`
	Comments    string   `json:"comments,omitempty"`
}

// Total returns the invoice total, treating unknown as zero.
func (i *Invoice) Total() float64 {
	if i.TotalAmount == nil {
		return 0
	}
	return *i.TotalAmount
}

// VAT returns the VAT amount, treating unknown as zero.
func (i *Invoice) VAT() float64 {
	if i.VatAmount == nil {
		return 0
	}
	return *i.VatAmount
}

// HasLabel reports whether the invoice carries the named label.
// Label comparison is case-sensitive.
func (i *Invoice) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// AddLabel appends the label if not already present. It reports whether the
// label was added, so callers can skip redundant updates.
func (i *Invoice) AddLabel(name string) bool {
	if i.HasLabel(name) {
		return false
	}
	i.Labels = append(i.Labels, name)
	return true
}

// RemoveLabel strips the label, preserving the order of the rest. It reports
// whether the label was present.
func (i *Invoice) RemoveLabel(name string) bool {
	for idx, l := range i.Labels {
		if l == name {
			i.Labels = append(i.Labels[:idx], i.Labels[idx+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the invoice, safe to mutate independently.
func (i Invoice) Clone() Invoice {
	out := i
	if i.TotalAmount != nil {
		v := *i.TotalAmount
		out.TotalAmount = &v
	}
	if i.VatAmount != nil {
		v := *i.VatAmount
		out.VatAmount = &v
	}
	if i.Labels != nil {
		out.Labels = append([]string(nil), i.Labels...)
	}
	return out
}
