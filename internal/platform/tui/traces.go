package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/frameforge/internal/storage"
)

// Picker layout constants
const (
	maxTraces  = 100
	idColWidth = 8
)

// PickerKeyMap defines the key bindings for the trace picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel lists stored traces and lets the user pick one.
type PickerModel struct {
	store    *storage.Store
	traces   []storage.Trace
	loadErr  error
	table    table.Model
	help     help.Model
	keys     PickerKeyMap
	width    int
	height   int
	selected string // trace ID chosen with Select
	quitting bool
}

// NewPickerModel creates a picker over the traces in store.
func NewPickerModel(store *storage.Store, width, height int) PickerModel {
	m := PickerModel{
		store:  store,
		keys:   DefaultPickerKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadTraces()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *PickerModel) createTable() table.Model {
	nameWidth := 24
	if w := m.width - 60; w > nameWidth {
		nameWidth = w
	}
	columns := []table.Column{
		{Title: "ID", Width: idColWidth},
		{Title: "Name", Width: nameWidth},
		{Title: "Engine", Width: 8},
		{Title: "Frames", Width: 8},
		{Title: "Size", Width: 9},
		{Title: "Created", Width: 16},
	}

	height := m.height - 6
	if height < 3 {
		height = 10
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadTraces refreshes the trace list from the store.
func (m *PickerModel) loadTraces() {
	m.traces, m.loadErr = nil, nil
	if m.store != nil {
		m.traces, m.loadErr = m.store.ListTraces(maxTraces)
	}

	rows := make([]table.Row, len(m.traces))
	for i, t := range m.traces {
		rows[i] = TraceRow(t)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// TraceRow formats a trace as a table row.
func TraceRow(t storage.Trace) table.Row {
	id := t.ID
	if len(id) > idColWidth {
		id = id[:idColWidth]
	}
	return table.Row{
		id,
		t.Name,
		t.Engine,
		humanize.Comma(int64(t.FrameCount)),
		humanize.Bytes(uint64(t.Bytes)),
		humanize.Time(t.CreatedAt),
	}
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reload):
			m.loadTraces()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.traces) {
				m.selected = m.traces[i].ID
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadTraces()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("STORED TRACES"))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("cannot load traces: %v", m.loadErr)))
	case len(m.traces) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(box.Render(emptyStyle.Render("No traces recorded yet.\nRun `frameforge play` to record one.")))
	default:
		b.WriteString(box.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the ID of the chosen trace, or "".
func (m PickerModel) Selected() string {
	return m.selected
}

// clearSelection returns the picker to browsing after a trace was opened.
func (m PickerModel) clearSelection() PickerModel {
	m.selected = ""
	return m
}
