// Package view implements the invoice table engine: an immutable filter/
// sort/pagination/selection state transformed by pure reducer methods, and
// the derivation of the visible row window from the authoritative invoice
// list. It performs no persistence; mutation intents are handed to callers.
package view

import (
	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/model"
)

// SortKey identifies the column the table is ordered by.
type SortKey string

// Sortable columns.
const (
	SortStatus  SortKey = "status"
	SortDate    SortKey = "invoice_date"
	SortVendor  SortKey = "vendor_name"
	SortSubject SortKey = "subject"
	SortTotal   SortKey = "total_amount"
	SortVAT     SortKey = "vat_amount"
)

// PageSizes lists the selectable page sizes.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 20

// State is the complete user-controlled view state. Values are immutable:
// every reducer method returns a new State, leaving the receiver untouched,
// so a State can be compared against any earlier one.
type State struct {
	Query    string
	Statuses map[model.Status]bool
	Labels   map[string]bool
	Dates    daterange.Range
	SortKey  SortKey
	SortDesc bool
	Page     int
	PageSize int
	Selected map[string]bool
}

// NewState returns the initial view state: no filters, newest invoices
// first, first page.
func NewState() State {
	return State{
		Statuses: map[model.Status]bool{},
		Labels:   map[string]bool{},
		Selected: map[string]bool{},
		SortKey:  SortDate,
		SortDesc: true,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

func (s State) clone() State {
	out := s
	out.Statuses = make(map[model.Status]bool, len(s.Statuses))
	for k, v := range s.Statuses {
		out.Statuses[k] = v
	}
	out.Labels = make(map[string]bool, len(s.Labels))
	for k, v := range s.Labels {
		out.Labels[k] = v
	}
	out.Selected = make(map[string]bool, len(s.Selected))
	for k, v := range s.Selected {
		out.Selected[k] = v
	}
	return out
}

// WithQuery sets the free-text filter and resets to the first page.
func (s State) WithQuery(q string) State {
	out := s.clone()
	out.Query = q
	out.Page = 1
	return out
}

// ToggleStatus flips one status in the status filter set and resets to the
// first page. An empty set means no status filtering.
func (s State) ToggleStatus(status model.Status) State {
	out := s.clone()
	if out.Statuses[status] {
		delete(out.Statuses, status)
	} else {
		out.Statuses[status] = true
	}
	out.Page = 1
	return out
}

// ToggleLabel flips one label in the label filter set and resets to the
// first page. An empty set means no label filtering.
func (s State) ToggleLabel(name string) State {
	out := s.clone()
	if out.Labels[name] {
		delete(out.Labels, name)
	} else {
		out.Labels[name] = true
	}
	out.Page = 1
	return out
}

// WithDateRange sets the inclusive invoice-date bounds and resets to the
// first page.
func (s State) WithDateRange(r daterange.Range) State {
	out := s.clone()
	out.Dates = r
	out.Page = 1
	return out
}

// WithSort orders by key. Re-selecting the current key flips the direction;
// a new key sorts ascending.
func (s State) WithSort(key SortKey) State {
	out := s.clone()
	if out.SortKey == key {
		out.SortDesc = !out.SortDesc
	} else {
		out.SortKey = key
		out.SortDesc = false
	}
	return out
}

// WithPage moves to the given 1-based page.
func (s State) WithPage(page int) State {
	out := s.clone()
	if page < 1 {
		page = 1
	}
	out.Page = page
	return out
}

// WithPageSize changes the page size and resets to the first page.
func (s State) WithPageSize(size int) State {
	out := s.clone()
	out.PageSize = size
	out.Page = 1
	return out
}

// ToggleSelect flips one row's selection. Selection is keyed by invoice id
// and survives filtering and paging.
func (s State) ToggleSelect(id string) State {
	out := s.clone()
	if out.Selected[id] {
		delete(out.Selected, id)
	} else {
		out.Selected[id] = true
	}
	return out
}

// ToggleSelectAll toggles between no selection and exactly the ids currently
// in the filtered view. If the selection already equals the filtered view it
// clears; otherwise it becomes the filtered view, dropping any ids selected
// under an earlier, wider filter.
func (s State) ToggleSelectAll(filteredIDs []string) State {
	out := s.clone()

	same := len(s.Selected) == len(filteredIDs)
	if same {
		for _, id := range filteredIDs {
			if !s.Selected[id] {
				same = false
				break
			}
		}
	}

	out.Selected = make(map[string]bool, len(filteredIDs))
	if same {
		return out
	}
	for _, id := range filteredIDs {
		out.Selected[id] = true
	}
	return out
}

// ClearSelection drops every selected row.
func (s State) ClearSelection() State {
	out := s.clone()
	out.Selected = map[string]bool{}
	return out
}

// SelectedIn returns the selected ids in the order they appear in invoices.
func (s State) SelectedIn(invoices []model.Invoice) []string {
	var out []string
	for i := range invoices {
		if s.Selected[invoices[i].ID] {
			out = append(out, invoices[i].ID)
		}
	}
	return out
}
