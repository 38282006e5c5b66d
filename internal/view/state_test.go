package view

import (
	"testing"

	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/model"
)

func TestState_ReducersDoNotMutateReceiver(t *testing.T) {
	base := NewState().ToggleStatus(model.StatusPending).ToggleSelect("a")

	_ = base.WithQuery("x")
	_ = base.ToggleStatus(model.StatusWarning)
	_ = base.ToggleLabel("office")
	_ = base.ToggleSelect("b")
	_ = base.ToggleSelectAll([]string{"c", "d"})

	if base.Query != "" {
		t.Errorf("Query mutated: %q", base.Query)
	}
	if len(base.Statuses) != 1 || !base.Statuses[model.StatusPending] {
		t.Errorf("Statuses mutated: %v", base.Statuses)
	}
	if len(base.Labels) != 0 {
		t.Errorf("Labels mutated: %v", base.Labels)
	}
	if len(base.Selected) != 1 || !base.Selected["a"] {
		t.Errorf("Selected mutated: %v", base.Selected)
	}
}

func TestState_WithSort(t *testing.T) {
	state := NewState()
	if state.SortKey != SortDate || !state.SortDesc {
		t.Fatalf("initial sort = %s desc=%v, want date descending", state.SortKey, state.SortDesc)
	}

	state = state.WithSort(SortVendor)
	if state.SortKey != SortVendor || state.SortDesc {
		t.Fatalf("new key sort = %s desc=%v, want vendor ascending", state.SortKey, state.SortDesc)
	}

	state = state.WithSort(SortVendor)
	if !state.SortDesc {
		t.Fatal("re-selecting the key should flip to descending")
	}

	state = state.WithSort(SortVendor)
	if state.SortDesc {
		t.Fatal("third press should flip back to ascending")
	}
}

func TestState_PageResets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(State) State
		wantOne bool
	}{
		{"query change", func(s State) State { return s.WithQuery("x") }, true},
		{"status toggle", func(s State) State { return s.ToggleStatus(model.StatusPending) }, true},
		{"label toggle", func(s State) State { return s.ToggleLabel("office") }, true},
		{"date range", func(s State) State { return s.WithDateRange(daterange.Range{Start: "2025-01-01"}) }, true},
		{"page size change", func(s State) State { return s.WithPageSize(50) }, true},
		{"sort change keeps page", func(s State) State { return s.WithSort(SortVendor) }, false},
		{"selection keeps page", func(s State) State { return s.ToggleSelect("a") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.mutate(NewState().WithPage(4))
			if tt.wantOne && state.Page != 1 {
				t.Errorf("Page = %d, want 1", state.Page)
			}
			if !tt.wantOne && state.Page != 4 {
				t.Errorf("Page = %d, want 4", state.Page)
			}
		})
	}
}

func TestState_WithPageClampsLow(t *testing.T) {
	if got := NewState().WithPage(0).Page; got != 1 {
		t.Fatalf("Page = %d, want 1", got)
	}
	if got := NewState().WithPage(-5).Page; got != 1 {
		t.Fatalf("Page = %d, want 1", got)
	}
}

func TestState_SelectedIn(t *testing.T) {
	invoices := []model.Invoice{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	state := NewState().ToggleSelect("c").ToggleSelect("a").ToggleSelect("ghost")

	got := state.SelectedIn(invoices)
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("SelectedIn = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SelectedIn = %v, want %v", got, want)
		}
	}
}

func TestState_ToggleSelectAll_PartialSelection(t *testing.T) {
	// A partial selection becomes the full filtered set, not empty.
	state := NewState().ToggleSelect("a")
	state = state.ToggleSelectAll([]string{"a", "b", "c"})
	if len(state.Selected) != 3 {
		t.Fatalf("Selected = %v, want all three", state.Selected)
	}

	// Stale ids from an earlier filter do not count as "all selected".
	state = state.ToggleSelect("stale")
	state = state.ToggleSelectAll([]string{"a", "b", "c"})
	if len(state.Selected) != 3 || state.Selected["stale"] {
		t.Fatalf("Selected = %v, want exactly a, b, c", state.Selected)
	}
}
