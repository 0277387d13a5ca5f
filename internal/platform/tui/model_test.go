package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/engine/refsim"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/playback"
	"github.com/vovakirdan/frameforge/internal/state"
	"github.com/vovakirdan/frameforge/internal/storage"
)

func newBinding() (*engine.Binding, error) {
	return engine.NewBinding("refsim", refsim.New(0xBEEF)), nil
}

// testTimeline records n moves of running right: n+1 frames.
func testTimeline(t *testing.T, n int) (*playback.Timeline, state.Record) {
	t.Helper()
	b, _ := newBinding()
	save := state.New(b, nil).Snapshot()

	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = "R"
	}
	seq := move.NewSequence(tokens...)
	if seq.Len() != n {
		t.Fatalf("sequence has %d moves, want %d", seq.Len(), n)
	}

	rec, _ := newBinding()
	tl, _, err := playback.Record(context.Background(), rec, save, seq, playback.Options{})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	return tl, save
}

func newTestModel(t *testing.T, n int, opts Options) Model {
	t.Helper()
	tl, _ := testTimeline(t, n)
	s, err := playback.OpenSession(tl, newBinding)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewModel(s, opts)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelScrubKeys(t *testing.T) {
	m := newTestModel(t, 150, Options{})

	steps := []struct {
		key  string
		want int
	}{
		{"m", 1},
		{"m", 2},
		{"n", 1},
		{"j", 11},
		{"h", 1},
		{"h", 0}, // clamps at the first frame
		{"u", 100},
		{"u", 150}, // clamps at the last frame
		{"y", 50},
	}
	for _, s := range steps {
		m, _ = update(t, m, runes(s.key))
		if got := m.Position(); got != s.want {
			t.Errorf("after %q position = %d, want %d", s.key, got, s.want)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.Position() != 150 {
		t.Errorf("end: position = %d, want 150", m.Position())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	if m.Position() != 0 {
		t.Errorf("home: position = %d, want 0", m.Position())
	}
}

func TestModelAutoplay(t *testing.T) {
	m := newTestModel(t, 3, Options{TicksPerSecond: 1000})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Playing() || cmd == nil {
		t.Fatal("space should start autoplay with a tick command")
	}
	gen := m.playGen

	// A tick from an older run is ignored.
	m, cmd = update(t, m, TickMsg{Gen: gen - 1})
	if m.Position() != 0 || cmd != nil {
		t.Errorf("stale tick moved to %d", m.Position())
	}

	for want := 1; want <= 3; want++ {
		m, cmd = update(t, m, TickMsg{Gen: gen})
		if m.Position() != want {
			t.Fatalf("tick %d: position = %d", want, m.Position())
		}
	}
	if m.Playing() || cmd != nil {
		t.Error("autoplay should stop at the last frame")
	}

	// Restarting from the end rewinds first.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Position() != 0 || !m.Playing() {
		t.Errorf("replay from end: position = %d playing = %v", m.Position(), m.Playing())
	}

	// Scrubbing pauses.
	m, _ = update(t, m, runes("m"))
	if m.Playing() {
		t.Error("scrubbing should pause autoplay")
	}
}

func TestModelEditValue(t *testing.T) {
	m := newTestModel(t, 5, Options{})
	m, _ = update(t, m, runes("m"))

	m, _ = update(t, m, runes("w"))
	if !m.Editing() {
		t.Fatal("w should open the HP prompt")
	}
	// Scrub keys type into the prompt instead of moving.
	m, _ = update(t, m, runes("4"))
	m, _ = update(t, m, runes("2"))
	if m.Position() != 1 {
		t.Errorf("position changed while editing: %d", m.Position())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Editing() {
		t.Error("enter should close the prompt")
	}
	if status, isErr := m.Status(); isErr {
		t.Fatalf("edit failed: %s", status)
	}

	if got := engine.Word(m.session.View(), engine.FieldHitpCurr); got != 42 {
		t.Errorf("view hitp_curr = %d, want 42", got)
	}
	m, _ = update(t, m, runes("m"))
	m, _ = update(t, m, runes("n"))
	if got := engine.Word(m.session.View(), engine.FieldHitpCurr); got != 42 {
		t.Errorf("edited frame lost after scrubbing: hitp_curr = %d", got)
	}
}

func TestModelEditRejectsBadValue(t *testing.T) {
	m := newTestModel(t, 2, Options{})
	before := engine.Word(m.session.View(), engine.FieldHitpCurr)

	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, runes("70000")) // does not fit 16 bits
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if _, isErr := m.Status(); !isErr {
		t.Error("expected an error status for an out of range value")
	}
	if got := engine.Word(m.session.View(), engine.FieldHitpCurr); got != before {
		t.Errorf("hitp_curr changed to %d", got)
	}
}

func TestModelEditCancel(t *testing.T) {
	m := newTestModel(t, 2, Options{})
	seed := engine.Dword(m.session.View(), engine.FieldRandomSeed)

	m, _ = update(t, m, runes("g"))
	m, _ = update(t, m, runes("1"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.Editing() {
		t.Error("esc should close the prompt")
	}
	if got := engine.Dword(m.session.View(), engine.FieldRandomSeed); got != seed {
		t.Errorf("cancelled edit changed seed to %#x", got)
	}
}

func TestModelQuicksave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick.sav")
	m := newTestModel(t, 4, Options{Quicksave: path})
	m, _ = update(t, m, runes("m"))
	m, _ = update(t, m, runes("m"))

	m, _ = update(t, m, runes("s"))
	if status, isErr := m.Status(); isErr {
		t.Fatalf("quicksave failed: %s", status)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("quicksave file: %v", err)
	}
	if want := m.session.Cursor().Frame().Record; string(data) != string(want) {
		t.Error("quicksave does not hold the current frame")
	}
}

func TestModelReadOnlyQuicksave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quick.sav")
	m := newTestModel(t, 2, Options{Quicksave: path, ReadOnly: true})

	m, _ = update(t, m, runes("s"))
	if _, isErr := m.Status(); !isErr {
		t.Error("read-only quicksave should report an error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("read-only session wrote a file")
	}
}

func TestModelQuitAndView(t *testing.T) {
	m := newTestModel(t, 2, Options{Title: "lvl1"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	if !strings.Contains(view, "lvl1") || !strings.Contains(view, "[0/2]") {
		t.Errorf("view missing header:\n%s", view)
	}

	m, cmd := update(t, m, runes("q"))
	if !m.Quitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestPickerSelect(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	tl, save := testTimeline(t, 3)
	older, _ := store.SaveTrace(playback.ToTrace("older", "refsim", save, tl))
	newer, _ := store.SaveTrace(playback.ToTrace("newer", "refsim", save, tl))

	p := NewPickerModel(store, 100, 30)
	if len(p.traces) != 2 {
		t.Fatalf("picker loaded %d traces, want 2", len(p.traces))
	}

	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(PickerModel)
	if p.Selected() != newer {
		t.Errorf("selected %q, want newest %q", p.Selected(), newer)
	}

	p = p.clearSelection()
	next, _ = p.Update(runes("j"))
	p = next.(PickerModel)
	next, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(PickerModel)
	if p.Selected() != older {
		t.Errorf("selected %q, want %q", p.Selected(), older)
	}
}

func TestPickerEmptyStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	p := NewPickerModel(store, 80, 24)
	if !strings.Contains(p.View(), "No traces recorded yet") {
		t.Error("empty picker should say so")
	}
	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(PickerModel).Selected() != "" {
		t.Error("enter on an empty picker selected something")
	}
}

func TestSessionModelFlow(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	tl, save := testTimeline(t, 5)
	if _, err := store.SaveTrace(playback.ToTrace("run", "refsim", save, tl)); err != nil {
		t.Fatalf("SaveTrace: %v", err)
	}

	cfg := DefaultSSHServerConfig()
	cfg.Store = store
	cfg.NewBinding = newBinding
	cfg.Scrubber.ReadOnly = true

	sm := NewSessionModel(cfg, 100, 40)
	defer sm.res.close()

	next, _ := sm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sm = next.(SessionModel)
	if sm.scrubber == nil {
		t.Fatalf("enter should open the trace (error: %q)", sm.openError)
	}
	if !strings.Contains(sm.View(), "run (refsim)") {
		t.Error("scrubber title should name the trace")
	}

	next, _ = sm.Update(runes("m"))
	sm = next.(SessionModel)
	if sm.scrubber.Position() != 1 {
		t.Errorf("position = %d, want 1", sm.scrubber.Position())
	}

	// Leaving the scrubber returns to the picker instead of ending the session.
	next, cmd := sm.Update(runes("q"))
	sm = next.(SessionModel)
	if sm.scrubber != nil || sm.quitting || cmd != nil {
		t.Error("q in the scrubber should return to the picker")
	}
	if sm.res.session != nil {
		t.Error("closing the scrubber should release its session")
	}

	next, cmd = sm.Update(runes("q"))
	sm = next.(SessionModel)
	if !sm.quitting || cmd == nil {
		t.Error("q in the picker should end the session")
	}
}

func TestSessionModelDirectTrace(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	tl, save := testTimeline(t, 2)
	id, err := store.SaveTrace(playback.ToTrace("run", "refsim", save, tl))
	if err != nil {
		t.Fatalf("SaveTrace: %v", err)
	}

	cfg := DefaultSSHServerConfig()
	cfg.Store = store
	cfg.NewBinding = newBinding
	cfg.TraceID = id[:8]

	sm := NewSessionModel(cfg, 100, 40)
	defer sm.res.close()
	if sm.scrubber == nil {
		t.Fatalf("direct trace not opened: %q", sm.openError)
	}

	next, cmd := sm.Update(runes("q"))
	sm = next.(SessionModel)
	if !sm.quitting || cmd == nil {
		t.Error("leaving a direct trace should end the session")
	}

	cfg.TraceID = "missing"
	bad := NewSessionModel(cfg, 100, 40)
	if bad.scrubber != nil || bad.openError == "" {
		t.Error("missing direct trace should report an error")
	}
}
