package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frameforge/internal/playback"
)

var errReadOnly = errors.New("quicksave disabled in read-only session")

// Options configure the scrubber.
type Options struct {
	// Title is shown in the header, usually the trace or sequence name.
	Title string

	// TicksPerSecond is the autoplay speed.
	TicksPerSecond int

	// Quicksave is the file the current frame is written to.
	// Empty selects playback.DefaultQuicksave.
	Quicksave string

	// ReadOnly disables writing files (remote sessions).
	ReadOnly bool
}

// Model is the Bubble Tea model for scrubbing through a timeline.
type Model struct {
	session *playback.Session
	opts    Options
	keys    KeyMap
	help    help.Model
	input   textinput.Model

	editing bool
	edit    playback.Edit

	playing bool
	playGen int

	status   string
	isError  bool
	width    int
	height   int
	quitting bool
}

// NewModel creates a scrubber over session.
func NewModel(session *playback.Session, opts Options) Model {
	if opts.TicksPerSecond <= 0 {
		opts.TicksPerSecond = playback.TicksPerSecond
	}

	ti := textinput.New()
	ti.CharLimit = 12
	ti.Width = 14

	return Model{
		session: session,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input while browsing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Play):
		if m.playing {
			m.playing = false
			return m, nil
		}
		if m.session.Cursor().AtEnd() {
			m.seek(0)
		}
		m.playing = true
		m.playGen++
		return m, tickCmd(m.opts.TicksPerSecond, m.playGen)

	case key.Matches(msg, m.keys.First):
		m.seek(0)
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.seek(m.session.Cursor().Max())
		return m, nil

	case key.Matches(msg, m.keys.Quicksave):
		m.quicksave()
		return m, nil
	}

	if delta := m.keys.scrubStep(msg); delta != 0 {
		m.playing = false
		m.setResult(m.session.Move(delta), "")
		return m, nil
	}

	if e, ok := m.keys.edit(msg); ok {
		m.playing = false
		m.editing = true
		m.edit = e
		m.input.Placeholder = e.Prompt()
		m.input.SetValue("")
		m.status = ""
		return m, m.input.Focus()
	}

	return m, nil
}

// handleEditKey processes keyboard input while a value prompt is open.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		m.status = "edit cancelled"
		m.isError = false
		return m, nil

	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		v, err := m.edit.Parse(m.input.Value())
		if err != nil {
			m.setResult(err, "")
			return m, nil
		}
		err = m.session.Apply(m.edit, v)
		m.setResult(err, fmt.Sprintf("%s set to %d (0x%X) at step %d", m.edit, v, v, m.session.Cursor().Pos()))
		return m, nil

	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTick advances autoplay.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.playing || msg.Gen != m.playGen {
		return m, nil
	}
	if err := m.session.Move(playback.StepSmall); err != nil {
		m.playing = false
		m.setResult(err, "")
		return m, nil
	}
	if m.session.Cursor().AtEnd() {
		m.playing = false
		return m, nil
	}
	return m, tickCmd(m.opts.TicksPerSecond, m.playGen)
}

func (m *Model) seek(pos int) {
	c := m.session.Cursor()
	m.setResult(m.session.Move(pos-c.Pos()), "")
}

func (m *Model) quicksave() {
	if m.opts.ReadOnly {
		m.setResult(errReadOnly, "")
		return
	}
	path := m.opts.Quicksave
	if path == "" {
		path = playback.DefaultQuicksave
	}
	err := m.session.Quicksave(path)
	m.setResult(err, fmt.Sprintf("saved step %d to %s", m.session.Cursor().Pos(), path))
}

func (m *Model) setResult(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		m.isError = true
		return
	}
	m.status = ok
	m.isError = false
}

// Position returns the current frame index.
func (m Model) Position() int {
	return m.session.Cursor().Pos()
}

// Quitting reports whether the user asked to leave the scrubber.
func (m Model) Quitting() bool {
	return m.quitting
}

// Playing reports whether autoplay is running.
func (m Model) Playing() bool {
	return m.playing
}

// Editing reports whether a value prompt is open.
func (m Model) Editing() bool {
	return m.editing
}

// Status returns the last status line and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.isError
}

// View renders the current frame report.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Run starts the Bubble Tea program with a scrubber over session.
func Run(session *playback.Session, opts Options) error {
	p := tea.NewProgram(
		NewModel(session, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
