package playback

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/state"
)

// DefaultQuicksave is the file the current frame is saved to.
const DefaultQuicksave = "frameforge.sav"

// Edit names a frame value the viewer may overwrite.
type Edit int

const (
	EditSeed Edit = iota
	EditHitpCurr
	EditHitpMax
	EditLooseSound
	EditLevel1Music
)

var editInfo = [...]struct {
	field  engine.FieldID
	prompt string
}{
	EditSeed:        {engine.FieldRandomSeed, "new RNG state"},
	EditHitpCurr:    {engine.FieldHitpCurr, "new current HP"},
	EditHitpMax:     {engine.FieldHitpMax, "new max HP"},
	EditLooseSound:  {engine.FieldLastLooseSound, "new last loose tile sound id"},
	EditLevel1Music: {engine.FieldNeedLevel1Music, "new need level 1 music value"},
}

// Field returns the engine field the edit writes.
func (e Edit) Field() engine.FieldID {
	return editInfo[e].field
}

// Prompt returns the input prompt shown for the edit.
func (e Edit) Prompt() string {
	return editInfo[e].prompt
}

func (e Edit) String() string {
	return e.Field().String()
}

// Parse converts user input into a value for the edit. Decimal, 0x hex
// and 0 octal are accepted; the value must fit the field.
func (e Edit) Parse(s string) (uint32, error) {
	bits := 8 * e.Field().Size()
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("playback: %s: %w", e, err)
	}
	return uint32(v), nil
}

// Session is an interactive view over a timeline. The current frame is
// always loaded into the view binding, which is separate from the one that
// generated the timeline.
type Session struct {
	tl     *Timeline
	cursor *Cursor
	view   *state.Codec
}

// NewSession loads the first frame into view.
func NewSession(tl *Timeline, view *state.Codec) (*Session, error) {
	s := &Session{tl: tl, cursor: NewCursor(tl), view: view}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Timeline returns the session's timeline.
func (s *Session) Timeline() *Timeline {
	return s.tl
}

// Cursor returns the session's cursor.
func (s *Session) Cursor() *Cursor {
	return s.cursor
}

// View returns the binding the current frame is loaded into.
func (s *Session) View() *engine.Binding {
	return s.view.Binding()
}

// Load restores the frame under the cursor into the view binding.
func (s *Session) Load() error {
	if err := s.view.Restore(s.cursor.Frame().Record); err != nil {
		return fmt.Errorf("playback: load step %d: %w", s.cursor.Pos(), err)
	}
	return nil
}

// Move scrubs by delta frames and loads the result.
func (s *Session) Move(delta int) error {
	s.cursor.Move(delta)
	return s.Load()
}

// Apply overwrites one value in the current frame and replaces the frame
// with a fresh snapshot of the view.
func (s *Session) Apply(e Edit, v uint32) error {
	if err := s.Load(); err != nil {
		return err
	}

	b := s.view.Binding()
	switch e.Field().Size() {
	case 4:
		engine.SetDword(b, e.Field(), v)
	case 2:
		engine.SetWord(b, e.Field(), uint16(v))
	default:
		engine.SetByte(b, e.Field(), byte(v))
	}
	return s.tl.Replace(s.cursor.Pos(), s.view.Snapshot())
}

// Quicksave writes the current frame to path.
func (s *Session) Quicksave(path string) error {
	if path == "" {
		path = DefaultQuicksave
	}
	return state.WriteFile(path, s.cursor.Frame().Record)
}

// Info describes the current frame.
func (s *Session) Info() FrameInfo {
	return Describe(s.view.Binding(), s.cursor.Pos(), s.cursor.Max(), s.cursor.Frame().Move)
}

// Close releases the view binding.
func (s *Session) Close() error {
	return s.view.Binding().Close()
}
