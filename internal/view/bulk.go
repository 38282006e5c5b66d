package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nivke/invoiceflow/internal/model"
)

// DefaultBulkWorkers bounds concurrent per-id dispatch during bulk operations.
const DefaultBulkWorkers = 4

// BulkResult is the outcome of one per-id operation in a bulk batch.
type BulkResult struct {
	ID  string
	Err error
}

// Failures returns the results that carried errors.
func Failures(results []BulkResult) []BulkResult {
	var out []BulkResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// FanOut runs op for every id with at most workers in flight and returns one
// result per id, in input order. Per-id operations are independent: a
// failure is recorded and the rest of the batch still runs. Only context
// cancellation stops the batch early; unstarted ids then report ctx.Err().
func FanOut(ctx context.Context, ids []string, workers int, op func(context.Context, string) error) []BulkResult {
	if workers <= 0 {
		workers = DefaultBulkWorkers
	}

	results := make([]BulkResult, len(ids))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			results[i] = BulkResult{ID: id, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = BulkResult{ID: id, Err: op(ctx, id)}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// BulkStatusRecords builds the updated record for each selected id with the
// status replaced, in the order ids are given. Unknown ids are skipped.
func BulkStatusRecords(invoices []model.Invoice, ids []string, status model.Status) []model.Invoice {
	byID := indexByID(invoices)
	out := make([]model.Invoice, 0, len(ids))
	for _, id := range ids {
		inv, ok := byID[id]
		if !ok {
			continue
		}
		updated := inv.Clone()
		updated.Status = status
		out = append(out, updated)
	}
	return out
}

// BulkLabelRecords builds the updated record for each selected id with the
// label appended. Ids already carrying the label are skipped entirely, so
// the bulk add is idempotent per row.
func BulkLabelRecords(invoices []model.Invoice, ids []string, label string) []model.Invoice {
	byID := indexByID(invoices)
	out := make([]model.Invoice, 0, len(ids))
	for _, id := range ids {
		inv, ok := byID[id]
		if !ok {
			continue
		}
		updated := inv.Clone()
		if !updated.AddLabel(label) {
			continue
		}
		out = append(out, updated)
	}
	return out
}

func indexByID(invoices []model.Invoice) map[string]model.Invoice {
	byID := make(map[string]model.Invoice, len(invoices))
	for i := range invoices {
		byID[invoices[i].ID] = invoices[i]
	}
	return byID
}
