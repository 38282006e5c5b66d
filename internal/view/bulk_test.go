package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nivke/invoiceflow/internal/model"
)

func TestFanOut_PartialFailure(t *testing.T) {
	ids := []string{"one", "two", "three"}
	failTwo := errors.New("server said no")

	var attempted sync.Map
	results := FanOut(context.Background(), ids, 2, func(_ context.Context, id string) error {
		attempted.Store(id, true)
		if id == "two" {
			return failTwo
		}
		return nil
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	// Results come back in input order regardless of completion order.
	for i, id := range ids {
		if results[i].ID != id {
			t.Fatalf("results[%d].ID = %s, want %s", i, results[i].ID, id)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, failTwo) {
		t.Errorf("results[1].Err = %v, want %v", results[1].Err, failTwo)
	}

	// The failure on "two" must not have stopped "three".
	for _, id := range ids {
		if _, ok := attempted.Load(id); !ok {
			t.Errorf("id %s was never attempted", id)
		}
	}

	failed := Failures(results)
	if len(failed) != 1 || failed[0].ID != "two" {
		t.Fatalf("Failures = %v, want just two", failed)
	}
}

func TestFanOut_RespectsWorkerLimit(t *testing.T) {
	var inFlight, peak int64
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}

	FanOut(context.Background(), ids, 3, func(_ context.Context, _ string) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&inFlight, -1)
		return nil
	})

	if peak > 3 {
		t.Fatalf("peak concurrency = %d, want at most 3", peak)
	}
}

func TestFanOut_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := FanOut(ctx, []string{"a", "b"}, 2, func(_ context.Context, _ string) error {
		t.Fatal("op ran despite cancelled context")
		return nil
	})

	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %s err = %v, want context.Canceled", r.ID, r.Err)
		}
	}
}

func TestBulkStatusRecords(t *testing.T) {
	invoices := []model.Invoice{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: model.StatusWarning},
	}

	records := BulkStatusRecords(invoices, []string{"b", "ghost", "a"}, model.StatusProcessed)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (unknown id skipped)", len(records))
	}
	if records[0].ID != "b" || records[1].ID != "a" {
		t.Fatalf("record order = %s, %s; want b, a", records[0].ID, records[1].ID)
	}
	for _, rec := range records {
		if rec.Status != model.StatusProcessed {
			t.Errorf("record %s status = %s", rec.ID, rec.Status)
		}
	}
	// The source list is untouched.
	if invoices[0].Status != model.StatusPending {
		t.Error("source invoice mutated")
	}
}

func TestBulkLabelRecords(t *testing.T) {
	invoices := []model.Invoice{
		{ID: "a", Labels: []string{"cloud"}},
		{ID: "b", Labels: []string{"office"}},
	}

	records := BulkLabelRecords(invoices, []string{"a", "b"}, "cloud")
	if len(records) != 1 || records[0].ID != "b" {
		t.Fatalf("records = %v, want only b (a already labeled)", records)
	}
	if !records[0].HasLabel("cloud") || !records[0].HasLabel("office") {
		t.Fatalf("labels = %v, want office and cloud", records[0].Labels)
	}
	if len(invoices[1].Labels) != 1 {
		t.Error("source invoice labels mutated")
	}
}
