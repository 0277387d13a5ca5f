// Package driver advances a bound simulation exactly one tick per move.
package driver

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
)

// Engine constants the driver reacts to.
const (
	MirrorLevel          = 4
	CopyprotTargetLevel  = 15
	DefaultCopyprotLevel = 2
	MirrorGuardX         = 245
)

// Options configure a Driver.
type Options struct {
	// CopyprotLevel is the level the copy-protection level leads to. Zero
	// selects DefaultCopyprotLevel.
	CopyprotLevel uint16

	Logger *log.Logger
}

// Driver owns the tick loop of one binding.
type Driver struct {
	b             *engine.Binding
	copyprotLevel uint16
	logger        *log.Logger

	ticks         uint64
	prevDrawnRoom uint16
}

// New creates a driver for b.
func New(b *engine.Binding, opts Options) *Driver {
	if opts.CopyprotLevel == 0 {
		opts.CopyprotLevel = DefaultCopyprotLevel
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Driver{
		b:             b,
		copyprotLevel: opts.CopyprotLevel,
		logger:        opts.Logger,
		prevDrawnRoom: engine.Word(b, engine.FieldDrawnRoom),
	}
}

// Binding returns the driven binding.
func (d *Driver) Binding() *engine.Binding {
	return d.b
}

// Ticks returns how many ticks this driver has advanced.
func (d *Driver) Ticks() uint64 {
	return d.ticks
}

// Step decodes a move token and advances one tick. An unrecognized token
// leaves the simulation untouched.
func (d *Driver) Step(token string) error {
	in, err := move.Decode(token)
	if err != nil {
		return fmt.Errorf("driver: tick %d: %w", d.ticks, err)
	}
	d.Advance(in)
	return nil
}

// Advance applies in and runs exactly one simulation tick, including any
// level restart or transition it triggers.
func (d *Driver) Advance(in move.Input) {
	b := d.b

	engine.SetShort(b, engine.FieldGuardhpDelta, 0)
	engine.SetShort(b, engine.FieldHitpDelta, 0)

	b.ApplyInput(in)
	b.Timers()
	b.PlayFrame()

	if engine.Word(b, engine.FieldIsRestartLevel) == 1 {
		level := engine.Word(b, engine.FieldCurrentLevel)
		d.logger.Debug("restarting level", "tick", d.ticks, "level", level)
		b.StartLevel(level)
	}

	if engine.Word(b, engine.FieldCurrentLevel) == MirrorLevel {
		if engine.Short(b, engine.FieldJumpedThroughMirror) == -1 {
			guard := engine.CharOf(b, engine.FieldGuard)
			guard.X = MirrorGuardX
			engine.SetChar(b, engine.FieldGuard, guard)
		}
		b.CheckMirror()
	}

	current := engine.Word(b, engine.FieldCurrentLevel)
	next := engine.Word(b, engine.FieldNextLevel)
	if current != next {
		if engine.Byte(b, engine.FieldEnableCopyprot) != 0 {
			if current == d.copyprotLevel-1 && next == d.copyprotLevel {
				next = CopyprotTargetLevel
			}
			if current == CopyprotTargetLevel {
				next = d.copyprotLevel
			}
			engine.SetWord(b, engine.FieldNextLevel, next)
		}
		d.logger.Debug("level transition", "tick", d.ticks, "from", current, "to", next)
		b.StartLevel(next)
	}

	engine.SetWord(b, engine.FieldIsRestartLevel, 0)
	d.prevDrawnRoom = engine.Word(b, engine.FieldDrawnRoom)
	b.RefreshExitDoor()
	d.ticks++
}

// PrevDrawnRoom returns drawn_room as of the end of the last tick.
func (d *Driver) PrevDrawnRoom() uint16 {
	return d.prevDrawnRoom
}

// Run plays every move of seq in order. It stops at the first
// unrecognized token.
func (d *Driver) Run(seq move.Sequence) error {
	for i := 0; i < seq.Len(); i++ {
		if err := d.Step(seq.Token(i)); err != nil {
			return err
		}
	}
	return nil
}
