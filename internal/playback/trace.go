package playback

import (
	"fmt"

	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/state"
	"github.com/vovakirdan/frameforge/internal/storage"
)

// ToTrace converts a timeline into a storable trace.
func ToTrace(name, backend string, save state.Record, tl *Timeline) storage.Trace {
	t := storage.Trace{
		Name:       name,
		Engine:     backend,
		Save:       save,
		Moves:      tl.Sequence().String(),
		FrameCount: tl.Len(),
		Frames:     make([]storage.TraceFrame, 0, tl.Len()),
	}
	for _, f := range tl.frames {
		t.Frames = append(t.Frames, storage.TraceFrame{Step: f.Step, Record: f.Record, Hash: f.Hash})
	}
	if n := len(tl.frames); n > 0 {
		t.FinalHash = tl.frames[n-1].Hash
	}
	return t
}

// FromTrace rebuilds the timeline of a stored trace. Stored hashes are
// checked against the records.
func FromTrace(t *storage.Trace) (*Timeline, error) {
	records := make([]state.Record, len(t.Frames))
	for i, f := range t.Frames {
		if f.Step != i {
			return nil, fmt.Errorf("playback: trace %s: frame %d stored at step %d", t.ID, i, f.Step)
		}
		records[i] = f.Record
	}
	tl, err := FromRecords(nil, move.ParseSequence(t.Moves), records)
	if err != nil {
		return nil, fmt.Errorf("playback: trace %s: %w", t.ID, err)
	}
	for i, f := range t.Frames {
		if tl.frames[i].Hash != f.Hash {
			return nil, fmt.Errorf("playback: trace %s: frame %d hash mismatch", t.ID, i)
		}
	}
	return tl, nil
}

// OpenSession brings up a fresh view binding and loads the first frame of
// tl into it. Close the session to release the binding.
func OpenSession(tl *Timeline, newBinding BindingFactory) (*Session, error) {
	b, err := newBinding()
	if err != nil {
		return nil, fmt.Errorf("playback: view binding: %w", err)
	}
	s, err := NewSession(tl, state.New(b, tl.Table()))
	if err != nil {
		b.Close()
		return nil, err
	}
	return s, nil
}
