package tui

import (
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/view"
)

// invoicesLoadedMsg carries the result of fetching the invoice history.
type invoicesLoadedMsg struct {
	err      error
	invoices []model.Invoice
	cached   bool
}

// labelsLoadedMsg carries the label namespace.
type labelsLoadedMsg struct {
	err    error
	labels []string
}

// invoiceSavedMsg reports the outcome of one optimistic update.
type invoiceSavedMsg struct {
	err     error
	invoice *model.Invoice
	id      string
}

// bulkDoneMsg reports a finished bulk batch with per-id results.
type bulkDoneMsg struct {
	action  string
	results []view.BulkResult
}

// csvWrittenMsg reports a finished CSV export.
type csvWrittenMsg struct {
	err   error
	path  string
	count int
}
