// Package engine defines the capability surface of the external platformer
// simulation. It is the only layer that addresses simulation memory; every
// other package goes through Field views and the typed helpers here.
package engine

import (
	"github.com/vovakirdan/frameforge/internal/move"
)

// Engine is one simulation instance.
//
// Implementations own their memory exclusively: two Engines never share
// globals, so independent instances may be driven from different goroutines.
// A single Engine is not safe for concurrent use.
type Engine interface {
	// Timers runs the per-tick timer bookkeeping (time remaining, flashes).
	Timers()

	// PlayFrame runs the main per-tick simulation step using the input last
	// applied with ApplyInput. It may change any field, including next_level.
	PlayFrame()

	// StartLevel loads a level from scratch: geometry, sprites, start
	// position and the lazy placement work that the first PlayFrame
	// completes.
	StartLevel(level uint16)

	// SetSeed overwrites the generator state.
	SetSeed(seed uint32)

	// ApplyInput sets the input axes for the next PlayFrame. A restart input
	// raises the restart-level flag.
	ApplyInput(in move.Input)

	// CheckMirror runs the mirror interaction check of the mirror level.
	CheckMirror()

	// LoadRoomLinks rebuilds the cached neighbour rooms of drawn_room.
	LoadRoomLinks()

	// Field returns a read/write view of the named field's memory.
	// The view aliases engine memory and stays valid until Close.
	Field(id FieldID) []byte

	// Close releases the instance.
	Close() error
}

// Binding is one isolated Engine together with the derived state the
// tooling maintains on top of it.
type Binding struct {
	Engine

	name         string
	exitDoorOpen bool
}

// NewBinding wraps an Engine. name identifies the backend in logs.
func NewBinding(name string, e Engine) *Binding {
	b := &Binding{Engine: e, name: name}
	b.RefreshExitDoor()
	return b
}

// Name returns the backend name the binding was created with.
func (b *Binding) Name() string {
	return b.name
}

// ExitDoorOpen returns the derived exit-door flag as of the last refresh.
func (b *Binding) ExitDoorOpen() bool {
	return b.exitDoorOpen
}

// RefreshExitDoor recomputes the derived exit-door flag from engine memory.
func (b *Binding) RefreshExitDoor() bool {
	b.exitDoorOpen = LevelExitDoorOpen(b.Engine)
	return b.exitDoorOpen
}
