package view

import (
	"sort"
	"strings"

	"github.com/nivke/invoiceflow/internal/model"
)

// View is the derived, render-ready projection of the invoice list under a
// State: the full filtered+sorted sequence, the current page window, and the
// pagination figures.
type View struct {
	Rows       []model.Invoice // the visible page window
	Filtered   []model.Invoice // all filtered rows in sort order
	Total      int             // filtered row count
	Page       int             // clamped to [1, TotalPages]
	TotalPages int             // at least 1, even when Total == 0
}

// FilteredIDs returns the ids of every filtered row, in sort order.
func (v View) FilteredIDs() []string {
	ids := make([]string, len(v.Filtered))
	for i := range v.Filtered {
		ids[i] = v.Filtered[i].ID
	}
	return ids
}

// Apply derives the visible view from the authoritative invoice list:
// filter, then stable sort, then slice the page window. The input slice is
// never mutated.
func (s State) Apply(invoices []model.Invoice) View {
	filtered := make([]model.Invoice, 0, len(invoices))
	for i := range invoices {
		if s.matches(&invoices[i]) {
			filtered = append(filtered, invoices[i])
		}
	}

	sortInvoices(filtered, s.SortKey, s.SortDesc)

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := s.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View{
		Rows:       filtered[start:end],
		Filtered:   filtered,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

// matches applies the four filters, AND-combined. Each filter is inclusive
// on its own: an empty status or label set and absent date bounds match
// everything.
func (s State) matches(inv *model.Invoice) bool {
	if q := strings.ToLower(s.Query); q != "" {
		vendor := strings.ToLower(inv.VendorName)
		subject := strings.ToLower(inv.Subject)
		if !strings.Contains(vendor, q) && !strings.Contains(subject, q) {
			return false
		}
	}

	if len(s.Statuses) > 0 {
		matched := false
		for status := range s.Statuses {
			if strings.EqualFold(string(status), string(inv.Status)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(s.Labels) > 0 {
		matched := false
		for _, l := range inv.Labels {
			if s.Labels[l] {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// ISO dates compare lexicographically; a missing bound is not applied.
	if s.Dates.Start != "" && inv.InvoiceDate < s.Dates.Start {
		return false
	}
	if s.Dates.End != "" && inv.InvoiceDate > s.Dates.End {
		return false
	}

	return true
}

// sortInvoices orders rows in place by key. The sort is stable: rows with
// equal keys keep their original relative order. Amount columns compare
// numerically with unknown as zero; text columns compare as strings with
// unknown as empty.
func sortInvoices(rows []model.Invoice, key SortKey, desc bool) {
	cmp := func(a, b *model.Invoice) int {
		switch key {
		case SortTotal:
			return compareFloat(a.Total(), b.Total())
		case SortVAT:
			return compareFloat(a.VAT(), b.VAT())
		case SortStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		case SortDate:
			return strings.Compare(a.InvoiceDate, b.InvoiceDate)
		case SortVendor:
			return strings.Compare(a.VendorName, b.VendorName)
		case SortSubject:
			return strings.Compare(a.Subject, b.Subject)
		default:
			return 0
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		c := cmp(&rows[i], &rows[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
