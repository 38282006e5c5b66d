package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nivke/invoiceflow/internal/export"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/view"
)

const requestTimeout = 30 * time.Second

// loadInvoices fetches the full list from the server, falling back to the
// local snapshot when the server is unreachable.
func (m Model) loadInvoices() tea.Cmd {
	api := m.api
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		invoices, err := api.Invoices(ctx)
		if err == nil {
			return invoicesLoadedMsg{invoices: invoices}
		}
		if store != nil {
			cached, _, cacheErr := store.LoadSnapshot(ctx)
			if cacheErr == nil && len(cached) > 0 {
				return invoicesLoadedMsg{invoices: cached, cached: true}
			}
		}
		return invoicesLoadedMsg{err: err}
	}
}

func (m Model) loadLabels() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		labels, err := api.Labels(ctx)
		return labelsLoadedMsg{labels: labels, err: err}
	}
}

func (m Model) saveSnapshot(invoices []model.Invoice) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		// cache write failures are not worth surfacing in the UI
		_ = store.SaveSnapshot(ctx, invoices)
		return nil
	}
}

func (m Model) saveInvoice(inv model.Invoice) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		saved, err := api.UpdateInvoice(ctx, inv)
		if err != nil {
			return invoiceSavedMsg{id: inv.ID, err: err}
		}
		return invoiceSavedMsg{id: inv.ID, invoice: saved}
	}
}

// runBulkUpdates PUTs each record with bounded concurrency and reports the
// per-id outcomes in one message.
func (m Model) runBulkUpdates(action string, records []model.Invoice) tea.Cmd {
	api := m.api
	workers := m.bulkWorkers
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout*2)
		defer cancel()

		ids := make([]string, len(records))
		byID := make(map[string]model.Invoice, len(records))
		for i, rec := range records {
			ids[i] = rec.ID
			byID[rec.ID] = rec
		}
		results := view.FanOut(ctx, ids, workers, func(ctx context.Context, id string) error {
			_, err := api.UpdateInvoice(ctx, byID[id])
			return err
		})
		return bulkDoneMsg{action: action, results: results}
	}
}

func (m Model) runBulkDeletes(ids []string) tea.Cmd {
	api := m.api
	workers := m.bulkWorkers
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout*2)
		defer cancel()

		results := view.FanOut(ctx, ids, workers, func(ctx context.Context, id string) error {
			return api.DeleteInvoice(ctx, id)
		})
		return bulkDoneMsg{action: "delete", results: results}
	}
}

// exportCSV writes every row matching the current filters, not just the
// visible page.
func (m Model) exportCSV(rows []model.Invoice) tea.Cmd {
	path := m.csvPath
	return func() tea.Msg {
		data := export.CSV(rows)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return csvWrittenMsg{err: err}
		}
		return csvWrittenMsg{path: path, count: len(rows)}
	}
}
