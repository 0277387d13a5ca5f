package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frameforge/internal/playback"
)

// KeyMap defines the key bindings of the scrubber.
type KeyMap struct {
	Prev      key.Binding
	Next      key.Binding
	PrevTen   key.Binding
	NextTen   key.Binding
	PrevHuge  key.Binding
	NextHuge  key.Binding
	First     key.Binding
	Last      key.Binding
	Play      key.Binding
	Quicksave key.Binding

	EditSeed        key.Binding
	EditHitpCurr    key.Binding
	EditHitpMax     key.Binding
	EditLooseSound  key.Binding
	EditLevel1Music key.Binding

	Help key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Play, k.Quicksave, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PrevTen, k.NextTen, k.PrevHuge, k.NextHuge},
		{k.First, k.Last, k.Play, k.Quicksave},
		{k.EditSeed, k.EditHitpCurr, k.EditHitpMax, k.EditLooseSound, k.EditLevel1Music},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default scrubber bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("n", "left"),
			key.WithHelp("n", "-1 frame"),
		),
		Next: key.NewBinding(
			key.WithKeys("m", "right"),
			key.WithHelp("m", "+1 frame"),
		),
		PrevTen: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "-10 frames"),
		),
		NextTen: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "+10 frames"),
		),
		PrevHuge: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "-100 frames"),
		),
		NextHuge: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "+100 frames"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first frame"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last frame"),
		),
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Quicksave: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "quicksave"),
		),
		EditSeed: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "set RNG"),
		),
		EditHitpCurr: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "set HP"),
		),
		EditHitpMax: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "set max HP"),
		),
		EditLooseSound: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "set loose sound"),
		),
		EditLevel1Music: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "set lvl1 music"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// scrubStep returns the frame delta bound to msg, or 0.
func (k KeyMap) scrubStep(msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, k.Prev):
		return -playback.StepSmall
	case key.Matches(msg, k.Next):
		return playback.StepSmall
	case key.Matches(msg, k.PrevTen):
		return -playback.StepMedium
	case key.Matches(msg, k.NextTen):
		return playback.StepMedium
	case key.Matches(msg, k.PrevHuge):
		return -playback.StepLarge
	case key.Matches(msg, k.NextHuge):
		return playback.StepLarge
	}
	return 0
}

// edit returns the frame edit bound to msg.
func (k KeyMap) edit(msg tea.KeyMsg) (playback.Edit, bool) {
	switch {
	case key.Matches(msg, k.EditSeed):
		return playback.EditSeed, true
	case key.Matches(msg, k.EditHitpCurr):
		return playback.EditHitpCurr, true
	case key.Matches(msg, k.EditHitpMax):
		return playback.EditHitpMax, true
	case key.Matches(msg, k.EditLooseSound):
		return playback.EditLooseSound, true
	case key.Matches(msg, k.EditLevel1Music):
		return playback.EditLevel1Music, true
	}
	return 0, false
}
