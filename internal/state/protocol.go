package state

import (
	"fmt"

	"github.com/vovakirdan/frameforge/internal/engine"
)

// Protocol reports what happened while a codec was brought up from a save.
type Protocol struct {
	// Level is the next_level the save pointed at.
	Level uint16

	// Values captured right after the level was started.
	SeedBefore       uint32
	LooseSoundBefore uint16

	// Values left behind by the stabilization tick, before they were undone.
	SeedStabilized       uint32
	LooseSoundStabilized uint16

	// Values in effect once construction finished.
	SeedAfter       uint32
	LooseSoundAfter uint16
}

// Drifted reports whether the stabilization tick consumed the generator.
func (p Protocol) Drifted() bool {
	return p.SeedStabilized != p.SeedBefore
}

// NewFromSave brings a binding into the state described by save.
//
// Restoring raw memory is not enough: a freshly started level has pending
// object placement that the first PlayFrame completes, and that placement
// can consume the generator. Construction therefore restores the save,
// starts the level it names, runs one stabilization tick, restores the save
// again, and finally puts back the generator seed and loose-tile sound
// captured before the tick. The resulting state evolves exactly as the
// recording did.
func NewFromSave(b *engine.Binding, t *Table, save Record) (*Codec, Protocol, error) {
	c := New(b, t)
	var p Protocol

	if err := c.Restore(save); err != nil {
		return nil, p, fmt.Errorf("state: restore save: %w", err)
	}

	p.Level = engine.Word(b, engine.FieldNextLevel)
	b.StartLevel(p.Level)

	p.SeedBefore = engine.Dword(b, engine.FieldRandomSeed)
	p.LooseSoundBefore = engine.Word(b, engine.FieldLastLooseSound)

	b.PlayFrame()
	p.SeedStabilized = engine.Dword(b, engine.FieldRandomSeed)
	p.LooseSoundStabilized = engine.Word(b, engine.FieldLastLooseSound)

	if err := c.Restore(save); err != nil {
		return nil, p, fmt.Errorf("state: restore save: %w", err)
	}
	b.SetSeed(p.SeedBefore)
	engine.SetWord(b, engine.FieldLastLooseSound, p.LooseSoundBefore)

	p.SeedAfter = engine.Dword(b, engine.FieldRandomSeed)
	p.LooseSoundAfter = engine.Word(b, engine.FieldLastLooseSound)
	return c, p, nil
}
