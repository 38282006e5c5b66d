package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the invoice browser.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	PageSize   key.Binding
	Filter     key.Binding
	Status1    key.Binding
	Status2    key.Binding
	Status3    key.Binding
	Status4    key.Binding
	Label      key.Binding
	SortDate   key.Binding
	SortVendor key.Binding
	SortAmount key.Binding
	SortStatus key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	Edit       key.Binding
	Delete     key.Binding
	SetStatus  key.Binding
	AddLabel   key.Binding
	ExportCSV  key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		PageSize:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "page size")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter text")),
		Status1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "toggle Pending")),
		Status2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "toggle Warning")),
		Status3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "toggle Processed")),
		Status4:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "toggle Cancelled")),
		Label:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "cycle label filter")),
		SortDate:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort by date")),
		SortVendor: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sort by vendor")),
		SortAmount: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort by total")),
		SortStatus: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "sort by status")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all filtered")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit row")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete selected")),
		SetStatus:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "set status of selected")),
		AddLabel:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "label selected")),
		ExportCSV:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "export CSV")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
