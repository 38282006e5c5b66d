// Package tui implements the interactive invoice browser: a bubbletea
// program over the view package's table engine, dispatching mutations
// through the REST client with optimistic local updates and snapshot
// rollback on failure.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"
	"github.com/nivke/invoiceflow/internal/view"
)

// mode is the current input mode of the browser.
type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeEdit
	modeConfirmDelete
	modeStatusPick
	modeLabelInput
	modeHelp
)

// Edit field indexes, in tab order.
const (
	editVendor = iota
	editDate
	editTotal
	editVAT
	editCurrency
	editStatus
	editLabels
	editComments
	editFieldCount
)

var editFieldNames = [editFieldCount]string{
	"Vendor", "Date (DD/MM/YYYY)", "Total", "VAT", "Currency", "Status", "Labels", "Comments",
}

// Config wires the browser to its collaborators.
type Config struct {
	API         service.InvoiceAPI
	Store       service.SnapshotStore // optional; enables offline cache and rollback persistence
	BulkWorkers int
	CSVPath     string
}

// Model holds the browser state.
type Model struct {
	api    service.InvoiceAPI
	store  service.SnapshotStore
	keymap KeyMap

	invoices []model.Invoice // authoritative list, reconciled optimistically
	lastGood []model.Invoice // snapshot taken before an optimistic mutation
	labels   []string

	state view.State
	vw    view.View // derived each update

	cursor      int // row index within the current page
	labelCursor int // index into labels for the label filter cycle

	mode        mode
	filterInput textinput.Model
	labelInput  textinput.Model
	editInputs  [editFieldCount]textinput.Model
	editField   int
	editID      string

	spinner   spinner.Model
	loading   bool
	statusMsg string
	errMsg    string

	bulkWorkers int
	csvPath     string
	width       int
	height      int
	quitting    bool
}

// New creates a browser model.
func New(cfg Config) Model {
	filter := textinput.New()
	filter.Placeholder = "vendor or subject..."
	filter.CharLimit = 80

	label := textinput.New()
	label.Placeholder = "label name"
	label.CharLimit = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	workers := cfg.BulkWorkers
	if workers <= 0 {
		workers = view.DefaultBulkWorkers
	}
	csvPath := cfg.CSVPath
	if csvPath == "" {
		csvPath = "invoices_export.csv"
	}

	return Model{
		api:         cfg.API,
		store:       cfg.Store,
		keymap:      DefaultKeyMap(),
		state:       view.NewState(),
		filterInput: filter,
		labelInput:  label,
		spinner:     sp,
		bulkWorkers: workers,
		csvPath:     csvPath,
		labelCursor: -1,
	}
}

// Init kicks off the initial loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		m.loadInvoices(),
		m.loadLabels(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case invoicesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.invoices = msg.invoices
		m.lastGood = cloneInvoices(msg.invoices)
		if msg.cached {
			m.statusMsg = fmt.Sprintf("showing %d cached invoices", len(msg.invoices))
		} else {
			m.statusMsg = fmt.Sprintf("loaded %d invoices", len(msg.invoices))
		}
		m.refresh()
		if m.store != nil && !msg.cached {
			return m, m.saveSnapshot(msg.invoices)
		}
		return m, nil

	case labelsLoadedMsg:
		if msg.err == nil {
			m.labels = msg.labels
		}
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			return m.rollback(fmt.Sprintf("save of %s failed: %v", msg.id, msg.err))
		}
		m.reconcile(*msg.invoice)
		m.statusMsg = fmt.Sprintf("saved %s", msg.id)
		m.refresh()
		return m, nil

	case bulkDoneMsg:
		m.loading = false
		failed := view.Failures(msg.results)
		if len(failed) == 0 {
			m.statusMsg = fmt.Sprintf("%s: %d ok", msg.action, len(msg.results))
			m.lastGood = cloneInvoices(m.invoices)
			return m, nil
		}
		ids := make([]string, len(failed))
		for i, f := range failed {
			ids[i] = f.ID
		}
		m.errMsg = fmt.Sprintf("%s: %d of %d failed (%s)",
			msg.action, len(failed), len(msg.results), strings.Join(ids, ", "))
		// Refetch so local state converges with whatever the server kept.
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadInvoices())

	case csvWrittenMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("exported %d rows to %s", msg.count, msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeEdit:
		return m.handleEditKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeStatusPick:
		return m.handleStatusPickKey(msg)
	case modeLabelInput:
		return m.handleLabelInputKey(msg)
	case modeHelp:
		m.mode = modeBrowse
		return m, nil
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, k.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadInvoices(), m.loadLabels())

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, k.Down):
		if m.cursor < len(m.vw.Rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, k.PrevPage):
		if m.vw.Page > 1 {
			m.state = m.state.WithPage(m.vw.Page - 1)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, k.NextPage):
		if m.vw.Page < m.vw.TotalPages {
			m.state = m.state.WithPage(m.vw.Page + 1)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, k.PageSize):
		m.state = m.state.WithPageSize(nextPageSize(m.state.PageSize))
		m.refresh()
		return m, nil

	case key.Matches(msg, k.Filter):
		m.mode = modeFilter
		m.filterInput.SetValue(m.state.Query)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, k.Status1):
		m.state = m.state.ToggleStatus(model.StatusPending)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.Status2):
		m.state = m.state.ToggleStatus(model.StatusWarning)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.Status3):
		m.state = m.state.ToggleStatus(model.StatusProcessed)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.Status4):
		m.state = m.state.ToggleStatus(model.StatusCancelled)
		m.refresh()
		return m, nil

	case key.Matches(msg, k.Label):
		return m.cycleLabelFilter()

	case key.Matches(msg, k.SortDate):
		m.state = m.state.WithSort(view.SortDate)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.SortVendor):
		m.state = m.state.WithSort(view.SortVendor)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.SortAmount):
		m.state = m.state.WithSort(view.SortTotal)
		m.refresh()
		return m, nil
	case key.Matches(msg, k.SortStatus):
		m.state = m.state.WithSort(view.SortStatus)
		m.refresh()
		return m, nil

	case key.Matches(msg, k.Select):
		if row, ok := m.currentRow(); ok {
			m.state = m.state.ToggleSelect(row.ID)
		}
		return m, nil

	case key.Matches(msg, k.SelectAll):
		m.state = m.state.ToggleSelectAll(m.vw.FilteredIDs())
		return m, nil

	case key.Matches(msg, k.Edit):
		if row, ok := m.currentRow(); ok {
			m.startEdit(*row)
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, k.Delete):
		if len(m.state.Selected) == 0 {
			if row, ok := m.currentRow(); ok {
				m.state = m.state.ToggleSelect(row.ID)
			}
		}
		if len(m.state.Selected) > 0 {
			m.mode = modeConfirmDelete
		}
		return m, nil

	case key.Matches(msg, k.SetStatus):
		if len(m.state.Selected) > 0 {
			m.mode = modeStatusPick
		}
		return m, nil

	case key.Matches(msg, k.AddLabel):
		if len(m.state.Selected) > 0 {
			m.mode = modeLabelInput
			m.labelInput.SetValue("")
			m.labelInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, k.ExportCSV):
		return m, m.exportCSV(m.vw.Filtered)
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = modeBrowse
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != m.state.Query {
		m.state = m.state.WithQuery(m.filterInput.Value())
		m.refresh()
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.mode = modeBrowse
		return m.bulkDelete()
	default:
		// declined: a no-op, not an error
		m.mode = modeBrowse
		m.statusMsg = "delete cancelled"
		return m, nil
	}
}

func (m Model) handleStatusPickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var status model.Status
	switch msg.String() {
	case "1":
		status = model.StatusPending
	case "2":
		status = model.StatusWarning
	case "3":
		status = model.StatusProcessed
	case "4":
		status = model.StatusCancelled
	default:
		m.mode = modeBrowse
		return m, nil
	}
	m.mode = modeBrowse
	return m.bulkStatus(status)
}

func (m Model) handleLabelInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.labelInput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.labelInput.Value())
		m.mode = modeBrowse
		m.labelInput.Blur()
		if name == "" {
			return m, nil
		}
		return m.bulkAddLabel(name)
	}
	var cmd tea.Cmd
	m.labelInput, cmd = m.labelInput.Update(msg)
	return m, cmd
}

// cycleLabelFilter steps the label filter through none → each known label →
// none again. Single-label cycling keeps the filter set semantics intact
// while staying one keystroke.
func (m Model) cycleLabelFilter() (tea.Model, tea.Cmd) {
	if len(m.labels) == 0 {
		return m, nil
	}
	// clear the previous cycle choice
	if m.labelCursor >= 0 && m.labelCursor < len(m.labels) {
		m.state = m.state.ToggleLabel(m.labels[m.labelCursor])
	}
	m.labelCursor++
	if m.labelCursor >= len(m.labels) {
		m.labelCursor = -1
	} else {
		m.state = m.state.ToggleLabel(m.labels[m.labelCursor])
	}
	m.refresh()
	return m, nil
}

// refresh re-derives the visible view and clamps the cursor.
func (m *Model) refresh() {
	m.vw = m.state.Apply(m.invoices)
	if m.cursor >= len(m.vw.Rows) {
		m.cursor = len(m.vw.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) currentRow() (*model.Invoice, bool) {
	if m.cursor < 0 || m.cursor >= len(m.vw.Rows) {
		return nil, false
	}
	return &m.vw.Rows[m.cursor], true
}

// reconcile folds a server-confirmed record back into the local list.
func (m *Model) reconcile(inv model.Invoice) {
	for i := range m.invoices {
		if m.invoices[i].ID == inv.ID {
			m.invoices[i] = inv
			break
		}
	}
	m.lastGood = cloneInvoices(m.invoices)
}

// rollback restores the last known-good invoice list after a failed
// optimistic mutation.
func (m Model) rollback(errMsg string) (tea.Model, tea.Cmd) {
	m.errMsg = errMsg
	m.invoices = cloneInvoices(m.lastGood)
	m.refresh()
	return m, nil
}

func (m *Model) removeLocal(ids map[string]bool) {
	kept := m.invoices[:0]
	for _, inv := range m.invoices {
		if !ids[inv.ID] {
			kept = append(kept, inv)
		}
	}
	m.invoices = kept
}

func cloneInvoices(invoices []model.Invoice) []model.Invoice {
	out := make([]model.Invoice, len(invoices))
	for i := range invoices {
		out[i] = invoices[i].Clone()
	}
	return out
}

func nextPageSize(current int) int {
	for i, size := range view.PageSizes {
		if size == current {
			return view.PageSizes[(i+1)%len(view.PageSizes)]
		}
	}
	return view.PageSizes[0]
}

// startEdit snapshots the row into the edit inputs.
func (m *Model) startEdit(inv model.Invoice) {
	buf := view.NewEditBuffer(inv)
	m.editID = inv.ID
	m.editField = 0
	m.mode = modeEdit

	values := [editFieldCount]string{
		editVendor:   buf.VendorName,
		editDate:     daterange.ToDisplay(buf.InvoiceDate),
		editTotal:    formatOptional(buf.TotalAmount),
		editVAT:      formatOptional(buf.VatAmount),
		editCurrency: string(buf.Currency),
		editStatus:   string(buf.Status),
		editLabels:   strings.Join(buf.Labels, ", "),
		editComments: buf.Comments,
	}
	for i := range m.editInputs {
		in := textinput.New()
		in.SetValue(values[i])
		in.CharLimit = 120
		m.editInputs[i] = in
	}
	m.editInputs[0].Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// cancel: drop the buffer, no network call
		m.mode = modeBrowse
		m.editID = ""
		m.statusMsg = "edit cancelled"
		return m, nil

	case tea.KeyTab, tea.KeyEnter:
		if msg.Type == tea.KeyEnter && m.editField == editFieldCount-1 {
			return m.saveEdit()
		}
		m.advanceEditField(1)
		return m, textinput.Blink

	case tea.KeyShiftTab:
		m.advanceEditField(-1)
		return m, textinput.Blink

	case tea.KeyCtrlS:
		return m.saveEdit()
	}

	var cmd tea.Cmd
	m.editInputs[m.editField], cmd = m.editInputs[m.editField].Update(msg)
	return m, cmd
}

// advanceEditField moves focus. Leaving the total field re-derives the VAT
// input from the embedded 18% rate; the user can still override it on the
// VAT field afterward.
func (m *Model) advanceEditField(delta int) {
	if m.editField == editTotal && delta > 0 {
		if total, err := strconv.ParseFloat(strings.TrimSpace(m.editInputs[editTotal].Value()), 64); err == nil {
			m.editInputs[editVAT].SetValue(fmt.Sprintf("%.2f", view.DeriveVAT(total)))
		}
	}
	m.editInputs[m.editField].Blur()
	m.editField = (m.editField + delta + editFieldCount) % editFieldCount
	m.editInputs[m.editField].Focus()
}

// saveEdit parses the inputs into an edit buffer, merges it onto the
// original record, applies the result optimistically, and dispatches the
// update.
func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	original, ok := findInvoice(m.invoices, m.editID)
	if !ok {
		m.mode = modeBrowse
		m.errMsg = fmt.Sprintf("invoice %s no longer exists", m.editID)
		return m, nil
	}

	buf := view.NewEditBuffer(original)
	buf.VendorName = strings.TrimSpace(m.editInputs[editVendor].Value())
	buf.Comments = strings.TrimSpace(m.editInputs[editComments].Value())

	if raw := strings.TrimSpace(m.editInputs[editDate].Value()); raw == "" {
		buf.InvoiceDate = ""
	} else {
		iso, err := daterange.ParseDisplay(raw)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		buf.InvoiceDate = iso
	}

	buf.TotalAmount = nil
	if raw := strings.TrimSpace(m.editInputs[editTotal].Value()); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.errMsg = fmt.Sprintf("invalid total: %q", raw)
			return m, nil
		}
		buf.TotalAmount = &total
	}
	buf.VatAmount = nil
	if raw := strings.TrimSpace(m.editInputs[editVAT].Value()); raw != "" {
		vat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.errMsg = fmt.Sprintf("invalid VAT: %q", raw)
			return m, nil
		}
		buf.VatAmount = &vat
	}

	if raw := strings.TrimSpace(m.editInputs[editCurrency].Value()); raw != "" {
		buf.Currency = model.Currency(strings.ToUpper(raw))
	}
	if raw := strings.TrimSpace(m.editInputs[editStatus].Value()); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		buf.Status = status
	}

	buf.Labels = nil
	for _, part := range strings.Split(m.editInputs[editLabels].Value(), ",") {
		if name := strings.TrimSpace(part); name != "" {
			buf.Labels = append(buf.Labels, name)
		}
	}

	merged := buf.Merge(original)

	// optimistic apply; rollback happens if the save fails
	m.lastGood = cloneInvoices(m.invoices)
	m.reconcileLocal(merged)
	m.mode = modeBrowse
	m.editID = ""
	m.errMsg = ""
	m.refresh()
	return m, m.saveInvoice(merged)
}

// reconcileLocal swaps the record into the local list without touching the
// known-good snapshot.
func (m *Model) reconcileLocal(inv model.Invoice) {
	for i := range m.invoices {
		if m.invoices[i].ID == inv.ID {
			m.invoices[i] = inv
			return
		}
	}
}

func findInvoice(invoices []model.Invoice, id string) (model.Invoice, bool) {
	for i := range invoices {
		if invoices[i].ID == id {
			return invoices[i].Clone(), true
		}
	}
	return model.Invoice{}, false
}

// bulkStatus applies a status to every selected row: optimistic local
// update, then a bounded fan-out of per-id PUTs. Selection is kept so the
// user can chain bulk actions.
func (m Model) bulkStatus(status model.Status) (tea.Model, tea.Cmd) {
	ids := m.state.SelectedIn(m.invoices)
	records := view.BulkStatusRecords(m.invoices, ids, status)
	if len(records) == 0 {
		return m, nil
	}

	m.lastGood = cloneInvoices(m.invoices)
	for _, rec := range records {
		m.reconcileLocal(rec)
	}
	m.loading = true
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.runBulkUpdates("status change", records))
}

// bulkAddLabel appends a label to every selected row that lacks it.
func (m Model) bulkAddLabel(name string) (tea.Model, tea.Cmd) {
	ids := m.state.SelectedIn(m.invoices)
	records := view.BulkLabelRecords(m.invoices, ids, name)
	if len(records) == 0 {
		m.statusMsg = fmt.Sprintf("all selected rows already have %q", name)
		return m, nil
	}

	m.lastGood = cloneInvoices(m.invoices)
	for _, rec := range records {
		m.reconcileLocal(rec)
	}
	m.loading = true
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.runBulkUpdates("label add", records))
}

// bulkDelete removes every selected row and clears the selection.
func (m Model) bulkDelete() (tea.Model, tea.Cmd) {
	ids := m.state.SelectedIn(m.invoices)
	if len(ids) == 0 {
		return m, nil
	}

	m.lastGood = cloneInvoices(m.invoices)
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	m.removeLocal(selected)
	m.state = m.state.ClearSelection()
	m.loading = true
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.runBulkDeletes(ids))
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// sortedSelected returns the selected ids in a stable order for display.
func sortedSelected(selected map[string]bool) []string {
	out := make([]string, 0, len(selected))
	for id := range selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
