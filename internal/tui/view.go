package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nivke/invoiceflow/internal/cli"
	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("#3B3F51"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	formStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeHelp {
		return m.renderHelp()
	}
	if m.mode == modeEdit {
		return m.renderEditForm()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("Invoices")

	var filters []string
	if m.state.Query != "" {
		filters = append(filters, fmt.Sprintf("text:%q", m.state.Query))
	}
	for _, s := range model.AllStatuses {
		if m.state.Statuses[s] {
			filters = append(filters, "status:"+string(s))
		}
	}
	for label := range m.state.Labels {
		filters = append(filters, "label:"+label)
	}
	if m.state.Dates.Start != "" || m.state.Dates.End != "" {
		filters = append(filters, fmt.Sprintf("dates:%s..%s", m.state.Dates.Start, m.state.Dates.End))
	}

	line := title
	if len(filters) > 0 {
		line += "  " + mutedStyle.Render(strings.Join(filters, " "))
	}
	if m.mode == modeFilter {
		line += "\n/ " + m.filterInput.View()
	}
	if m.loading {
		line += "  " + m.spinner.View()
	}
	return line
}

func (m Model) renderTable() string {
	cols := []struct {
		name  string
		width int
		key   view.SortKey
	}{
		{"", 2, ""},
		{"Date", 10, view.SortDate},
		{"Vendor", 22, view.SortVendor},
		{"Subject", 26, view.SortSubject},
		{"Total", 10, view.SortTotal},
		{"Cur", 3, ""},
		{"Status", 10, view.SortStatus},
		{"Labels", 24, ""},
	}

	var b strings.Builder
	var header []string
	for _, c := range cols {
		name := c.name
		if c.key != "" && c.key == m.state.SortKey {
			if m.state.SortDesc {
				name += " ▼"
			} else {
				name += " ▲"
			}
		}
		header = append(header, pad(name, c.width))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(m.vw.Rows) == 0 {
		b.WriteString(mutedStyle.Render("  no invoices match the current filters"))
		b.WriteString("\n")
		return b.String()
	}

	for i, inv := range m.vw.Rows {
		mark := " "
		if m.state.Selected[inv.ID] {
			mark = "✓"
		}
		cells := []string{
			pad(mark, 2),
			pad(daterange.ToDisplay(inv.InvoiceDate), 10),
			pad(inv.VendorName, 22),
			pad(inv.Subject, 26),
			pad(amountCell(inv.TotalAmount), 10),
			pad(string(inv.Currency), 3),
			pad(string(inv.Status), 10),
			pad(strings.Join(inv.Labels, ","), 24),
		}
		row := strings.Join(cells, " ")
		if i == m.cursor {
			row = cursorStyle.Render(row)
		} else {
			// colorize after layout so the pad widths stay honest
			cells[6] = cli.StatusStyle(inv.Status).Render(pad(string(inv.Status), 10))
			row = strings.Join(cells, " ")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var b strings.Builder

	pageInfo := fmt.Sprintf("page %d/%d · %d of %d invoices · size %d",
		m.vw.Page, m.vw.TotalPages, len(m.vw.Filtered), m.vw.Total, m.state.PageSize)
	if n := len(m.state.Selected); n > 0 {
		pageInfo += fmt.Sprintf(" · %d selected", n)
	}
	b.WriteString(mutedStyle.Render(pageInfo))
	b.WriteString("\n")

	switch m.mode {
	case modeConfirmDelete:
		ids := sortedSelected(m.state.Selected)
		b.WriteString(errorStyle.Render(
			fmt.Sprintf("delete %d invoice(s) [%s]? (y/N)", len(ids), strings.Join(ids, ", "))))
	case modeStatusPick:
		b.WriteString("set status: 1 pending · 2 warning · 3 processed · 4 cancelled · any other key cancels")
	case modeLabelInput:
		b.WriteString("add label: " + m.labelInput.View())
	default:
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg))
		} else if m.statusMsg != "" {
			b.WriteString(okStyle.Render(m.statusMsg))
		} else {
			b.WriteString(mutedStyle.Render("? help · / filter · space select · q quit"))
		}
	}
	return b.String()
}

func (m Model) renderEditForm() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Edit " + m.editID))
	b.WriteString("\n\n")
	for i := range m.editInputs {
		name := pad(editFieldNames[i], 20)
		if i == m.editField {
			name = headerStyle.Render(name)
		} else {
			name = mutedStyle.Render(name)
		}
		b.WriteString(name)
		b.WriteString(m.editInputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab next · shift+tab prev · ctrl+s save · esc cancel"))
	return formStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	sections := []struct {
		title string
		items []string
	}{
		{
			"Navigation",
			[]string{
				"↑/k, ↓/j    move up/down",
				"←/h, →/l    previous/next page",
				"z           cycle page size",
			},
		},
		{
			"Filtering and sorting",
			[]string{
				"/           text filter (vendor + subject)",
				"1-4         toggle status filter",
				"L           cycle label filter",
				"d v t u     sort by date/vendor/total/status",
			},
		},
		{
			"Selection and bulk actions",
			[]string{
				"space       toggle row selection",
				"a           select/deselect all filtered",
				"p           set status on selection",
				"g           add label to selection",
				"x           delete selection",
			},
		},
		{
			"Other",
			[]string{
				"e/enter     edit row",
				"c           export filtered rows to CSV",
				"r           refresh from server",
				"q           quit",
			},
		},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Invoice Browser - Help"))
	b.WriteString("\n\n")
	for _, s := range sections {
		b.WriteString(headerStyle.Render(s.title))
		b.WriteString("\n")
		for _, item := range s.items {
			b.WriteString("  " + item + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("press any key to return"))
	return formStyle.Render(b.String())
}

func amountCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// pad truncates or right-pads to a fixed cell width.
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
