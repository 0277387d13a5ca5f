// Package playback turns a save and a move sequence into a scrubbable
// timeline of frame records.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameforge/internal/driver"
	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/state"
)

// ErrOutOfRange is returned when a frame index is outside the timeline.
var ErrOutOfRange = errors.New("frame index out of range")

// Frame is the simulation state at one tick boundary.
type Frame struct {
	Step   int
	Move   string // token played after this frame; the terminator on the last frame
	Record state.Record
	Hash   uint64
}

// Timeline is the ordered frame list of one playback: the initial frame
// plus one frame per played move.
type Timeline struct {
	table  *state.Table
	seq    move.Sequence
	frames []Frame
}

// Options configure timeline generation.
type Options struct {
	CopyprotLevel uint16
	Logger        *log.Logger

	// Progress, when set, is called after every generated frame.
	Progress func(done, total int)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Record brings b into the state described by save and plays seq on it.
// Cancellation is honoured between ticks; on cancellation the frames
// generated so far are returned with the context error.
func Record(ctx context.Context, b *engine.Binding, save state.Record, seq move.Sequence, opts Options) (*Timeline, state.Protocol, error) {
	c, p, err := state.NewFromSave(b, nil, save)
	if err != nil {
		return nil, p, fmt.Errorf("playback: %w", err)
	}
	opts.logger().Debug("save loaded",
		"level", p.Level,
		"seed", fmt.Sprintf("0x%08X", p.SeedAfter),
		"drifted", p.Drifted(),
	)

	d := driver.New(b, driver.Options{CopyprotLevel: opts.CopyprotLevel, Logger: opts.Logger})
	tl, err := Generate(ctx, c, d, seq, opts)
	return tl, p, err
}

// Generate snapshots the current state, then plays every move of seq
// through d, snapshotting after each tick.
func Generate(ctx context.Context, c *state.Codec, d *driver.Driver, seq move.Sequence, opts Options) (*Timeline, error) {
	tl := &Timeline{
		table:  c.Table(),
		seq:    seq,
		frames: make([]Frame, 0, seq.Len()+1),
	}
	if err := tl.capture(c); err != nil {
		return nil, err
	}

	total := seq.Len()
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			opts.logger().Warn("generation cancelled", "step", i, "total", total)
			return tl, fmt.Errorf("playback: cancelled at step %d: %w", i, err)
		}
		if err := d.Step(seq.Token(i)); err != nil {
			return tl, fmt.Errorf("playback: %w", err)
		}
		if err := tl.capture(c); err != nil {
			return tl, err
		}
		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}
	return tl, nil
}

func (tl *Timeline) capture(c *state.Codec) error {
	r := c.Snapshot()
	h, err := tl.table.Hash(r)
	if err != nil {
		return fmt.Errorf("playback: step %d: %w", len(tl.frames), err)
	}
	step := len(tl.frames)
	tl.frames = append(tl.frames, Frame{Step: step, Move: tl.seq.Token(step), Record: r, Hash: h})
	return nil
}

// FromRecords rebuilds a timeline from stored records.
func FromRecords(t *state.Table, seq move.Sequence, records []state.Record) (*Timeline, error) {
	if t == nil {
		t = state.DefaultTable()
	}
	tl := &Timeline{table: t, seq: seq, frames: make([]Frame, 0, len(records))}
	for i, r := range records {
		h, err := t.Hash(r)
		if err != nil {
			return nil, fmt.Errorf("playback: frame %d: %w", i, err)
		}
		tl.frames = append(tl.frames, Frame{Step: i, Move: seq.Token(i), Record: r, Hash: h})
	}
	return tl, nil
}

// Len returns the number of frames.
func (tl *Timeline) Len() int {
	return len(tl.frames)
}

// Frame returns frame i.
func (tl *Timeline) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(tl.frames) {
		return Frame{}, fmt.Errorf("playback: frame %d of %d: %w", i, len(tl.frames), ErrOutOfRange)
	}
	return tl.frames[i], nil
}

// Frames returns all frames in order.
func (tl *Timeline) Frames() []Frame {
	out := make([]Frame, len(tl.frames))
	copy(out, tl.frames)
	return out
}

// Records returns the raw record of every frame.
func (tl *Timeline) Records() []state.Record {
	out := make([]state.Record, len(tl.frames))
	for i, f := range tl.frames {
		out[i] = f.Record
	}
	return out
}

// Sequence returns the move sequence the timeline was generated from.
func (tl *Timeline) Sequence() move.Sequence {
	return tl.seq
}

// Table returns the field table of the timeline's records.
func (tl *Timeline) Table() *state.Table {
	return tl.table
}

// Replace overwrites frame i with r, for example after an edit.
func (tl *Timeline) Replace(i int, r state.Record) error {
	if i < 0 || i >= len(tl.frames) {
		return fmt.Errorf("playback: frame %d of %d: %w", i, len(tl.frames), ErrOutOfRange)
	}
	h, err := tl.table.Hash(r)
	if err != nil {
		return fmt.Errorf("playback: frame %d: %w", i, err)
	}
	tl.frames[i].Record = r
	tl.frames[i].Hash = h
	return nil
}
