package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"
	"github.com/nivke/invoiceflow/internal/view"
)

// fakeAPI satisfies service.InvoiceAPI with overridable endpoints.
type fakeAPI struct {
	invoices      func(ctx context.Context) ([]model.Invoice, error)
	updateInvoice func(ctx context.Context, inv model.Invoice) (*model.Invoice, error)
	deleteInvoice func(ctx context.Context, id string) error
}

var _ service.InvoiceAPI = (*fakeAPI)(nil)

func (f *fakeAPI) Invoices(ctx context.Context) ([]model.Invoice, error) {
	if f.invoices != nil {
		return f.invoices(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) UpdateInvoice(ctx context.Context, inv model.Invoice) (*model.Invoice, error) {
	if f.updateInvoice != nil {
		return f.updateInvoice(ctx, inv)
	}
	out := inv.Clone()
	return &out, nil
}

func (f *fakeAPI) DeleteInvoice(ctx context.Context, id string) error {
	if f.deleteInvoice != nil {
		return f.deleteInvoice(ctx, id)
	}
	return nil
}

func (f *fakeAPI) Scan(context.Context, string, string) (*model.ScanResult, error) {
	return &model.ScanResult{}, nil
}
func (f *fakeAPI) UploadFile(context.Context, string, string, io.Reader) (*model.Invoice, error) {
	return &model.Invoice{}, nil
}
func (f *fakeAPI) CreateManual(context.Context, model.Invoice, string, io.Reader) (*model.Invoice, error) {
	return &model.Invoice{}, nil
}
func (f *fakeAPI) Labels(context.Context) ([]string, error)              { return nil, nil }
func (f *fakeAPI) CreateLabel(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeAPI) DeleteLabel(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeAPI) Rules(context.Context) ([]model.Rule, error)           { return nil, nil }
func (f *fakeAPI) CreateRule(context.Context, model.Rule) (*model.Rule, error) {
	return &model.Rule{}, nil
}
func (f *fakeAPI) UpdateRule(context.Context, model.Rule) (*model.Rule, error) {
	return &model.Rule{}, nil
}
func (f *fakeAPI) DeleteRule(context.Context, string) error       { return nil }
func (f *fakeAPI) ApplyAllRules(context.Context) (string, error)  { return "", nil }
func (f *fakeAPI) ExportPDF(context.Context, []string) ([]byte, error) {
	return nil, nil
}
func (f *fakeAPI) ExportZIP(context.Context, []string) ([]byte, error) {
	return nil, nil
}
func (f *fakeAPI) Profile(context.Context) (string, error) { return "", nil }
func (f *fakeAPI) Login(context.Context) (string, error)   { return "", nil }
func (f *fakeAPI) Logout(context.Context) error            { return nil }
func (f *fakeAPI) Analytics(context.Context, string, string) (*model.AnalyticsSummary, error) {
	return nil, nil
}

func loadedModel(t *testing.T, invoices []model.Invoice) Model {
	t.Helper()
	m := New(Config{API: &fakeAPI{}})
	updated, _ := m.Update(invoicesLoadedMsg{invoices: invoices})
	return updated.(Model)
}

func keyPress(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func TestModel_LoadAndNavigate(t *testing.T) {
	m := loadedModel(t, []model.Invoice{
		{ID: "a", VendorName: "Acme", InvoiceDate: "2025-03-01"},
		{ID: "b", VendorName: "Bezeq", InvoiceDate: "2025-02-01"},
	})

	require.Len(t, m.vw.Rows, 2)
	assert.Equal(t, 0, m.cursor)

	m = keyPress(m, "j")
	assert.Equal(t, 1, m.cursor)
	m = keyPress(m, "j")
	assert.Equal(t, 1, m.cursor, "cursor clamps at the last row")
	m = keyPress(m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestModel_StatusFilterKeys(t *testing.T) {
	m := loadedModel(t, []model.Invoice{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: model.StatusProcessed},
	})

	m = keyPress(m, "1") // toggle Pending
	require.Len(t, m.vw.Rows, 1)
	assert.Equal(t, "a", m.vw.Rows[0].ID)

	m = keyPress(m, "1") // toggle off
	assert.Len(t, m.vw.Rows, 2)
}

func TestModel_SelectionAndBulkDeleteFlow(t *testing.T) {
	var deleted []string
	api := &fakeAPI{
		deleteInvoice: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	m := New(Config{API: api})
	updated, _ := m.Update(invoicesLoadedMsg{invoices: []model.Invoice{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}})
	m = updated.(Model)

	// select the first two rows
	m = keyPress(m, " ")
	m = keyPress(m, "j")
	m = keyPress(m, " ")
	require.Len(t, m.state.Selected, 2)

	// x opens the confirmation, y runs the batch
	m = keyPress(m, "x")
	assert.Equal(t, modeConfirmDelete, m.mode)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = updated.(Model)
	require.NotNil(t, cmd)

	// rows vanish optimistically and the selection clears
	assert.Len(t, m.invoices, 1)
	assert.Empty(t, m.state.Selected)

	// drain the command to run the deletions
	msg := drainCmd(cmd)
	bulk, ok := msg.(bulkDoneMsg)
	require.True(t, ok, "expected bulkDoneMsg, got %T", msg)
	assert.Empty(t, view.Failures(bulk.results))
	assert.ElementsMatch(t, []string{"a", "b"}, deleted)
}

func TestModel_BulkFailureTriggersRefetch(t *testing.T) {
	m := loadedModel(t, []model.Invoice{{ID: "a"}})

	updated, cmd := m.Update(bulkDoneMsg{
		action: "delete",
		results: []view.BulkResult{
			{ID: "a", Err: errors.New("boom")},
		},
	})
	m = updated.(Model)

	assert.Contains(t, m.errMsg, "1 of 1 failed")
	assert.NotNil(t, cmd, "a failed batch must schedule a refetch")
}

func TestModel_SaveFailureRollsBack(t *testing.T) {
	m := loadedModel(t, []model.Invoice{
		{ID: "a", VendorName: "Original"},
	})

	// Simulate the optimistic local apply an edit performs.
	m.lastGood = cloneInvoices(m.invoices)
	m.invoices[0].VendorName = "Edited"
	m.refresh()

	updated, _ := m.Update(invoiceSavedMsg{id: "a", err: errors.New("500")})
	m = updated.(Model)

	assert.Equal(t, "Original", m.invoices[0].VendorName, "failed save must restore the snapshot")
	assert.Contains(t, m.errMsg, "save of a failed")
}

func TestModel_SelectAllTogglesFilteredSet(t *testing.T) {
	m := loadedModel(t, []model.Invoice{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: model.StatusProcessed},
	})

	m = keyPress(m, "1") // filter to Pending
	m = keyPress(m, "a") // select all filtered
	require.Len(t, m.state.Selected, 1)
	assert.True(t, m.state.Selected["a"])

	m = keyPress(m, "a") // toggle clears
	assert.Empty(t, m.state.Selected)
}

func TestModel_EditFlow(t *testing.T) {
	m := loadedModel(t, []model.Invoice{
		{ID: "a", VendorName: "Acme", InvoiceDate: "2025-03-01"},
	})

	m = keyPress(m, "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "a", m.editID)
	assert.Equal(t, "Acme", m.editInputs[editVendor].Value())
	assert.Equal(t, "01/03/2025", m.editInputs[editDate].Value())

	// Esc cancels without touching the record.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Acme", m.invoices[0].VendorName)
}

// drainCmd executes a command, unwrapping one level of batching.
func drainCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if inner := c(); inner != nil {
				// spinner ticks are noise here
				if _, isTick := inner.(spinner.TickMsg); isTick {
					continue
				}
				return inner
			}
		}
	}
	return msg
}
