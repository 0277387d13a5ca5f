package playback

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/state"
)

// BindingFactory brings up one new, isolated binding.
type BindingFactory func() (*engine.Binding, error)

// Divergence locates the first frame where a binding disagreed with the
// reference binding.
type Divergence struct {
	Binding int
	Step    int
	Fields  []engine.FieldID
}

func (d Divergence) String() string {
	return fmt.Sprintf("binding %d diverged at step %d in %v", d.Binding, d.Step, d.Fields)
}

// VerifyResult summarises a determinism check.
type VerifyResult struct {
	Bindings   int
	Frames     int
	FinalHash  uint64
	Divergence *Divergence
}

// OK reports whether every binding produced identical records.
func (r VerifyResult) OK() bool {
	return r.Divergence == nil
}

// Verify replays seq from save on n isolated bindings concurrently and
// compares their records frame by frame against binding 0.
func Verify(ctx context.Context, newBinding BindingFactory, save state.Record, seq move.Sequence, n int, opts Options) (VerifyResult, error) {
	if n < 1 {
		n = 1
	}
	timelines := make([]*Timeline, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			b, err := newBinding()
			if err != nil {
				return fmt.Errorf("playback: binding %d: %w", i, err)
			}
			defer b.Close()

			tl, _, err := Record(gctx, b, save, seq, Options{CopyprotLevel: opts.CopyprotLevel, Logger: opts.Logger})
			if err != nil {
				return fmt.Errorf("playback: binding %d: %w", i, err)
			}
			timelines[i] = tl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return VerifyResult{Bindings: n}, err
	}

	ref := timelines[0]
	res := VerifyResult{Bindings: n, Frames: ref.Len()}
	if ref.Len() > 0 {
		res.FinalHash = ref.frames[ref.Len()-1].Hash
	}
	for i := 1; i < n; i++ {
		if d := compare(ref, timelines[i]); d != nil {
			d.Binding = i
			res.Divergence = d
			opts.logger().Warn("bindings diverged", "binding", i, "step", d.Step, "fields", fmt.Sprint(d.Fields))
			return res, nil
		}
	}
	opts.logger().Info("bindings agree", "bindings", n, "frames", res.Frames)
	return res, nil
}

func compare(a, b *Timeline) *Divergence {
	for step := 0; step < max(a.Len(), b.Len()); step++ {
		if step >= a.Len() || step >= b.Len() {
			return &Divergence{Step: step}
		}
		ra, rb := a.frames[step].Record, b.frames[step].Record
		if bytes.Equal(ra, rb) {
			continue
		}
		fields, _ := a.table.Diff(ra, rb)
		return &Divergence{Step: step, Fields: fields}
	}
	return nil
}
