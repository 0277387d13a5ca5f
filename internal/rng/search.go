package rng

import (
	"errors"
	"fmt"
)

// MaxTrail bounds the number of entries Trail will list.
const MaxTrail = 1 << 20

// ErrTrailTooLong is returned when a listing would exceed MaxTrail entries.
var ErrTrailTooLong = errors.New("trail too long")

// SearchResult reports a seed back-solve.
type SearchResult struct {
	Initial    uint32
	Target     uint32
	NewTarget  uint32
	Steps      uint64
	NewInitial uint32
}

// Search counts the steps from initial to target, then rewinds newTarget
// by the same count so that the returned NewInitial reaches newTarget after
// Steps advances.
func Search(initial, target, newTarget uint32, limit uint64) (SearchResult, error) {
	steps, err := StepsTo(initial, target, limit)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Initial:    initial,
		Target:     target,
		NewTarget:  newTarget,
		Steps:      steps,
		NewInitial: BackSolve(newTarget, steps),
	}, nil
}

// TrailEntry is one row of a rewind listing.
type TrailEntry struct {
	Back   uint64 // number of Prev applications
	Seed   uint32
	Marked bool // true on the row that equals the back-solved seed
}

// Trail lists the seeds obtained by rewinding newTarget 0..steps+extra-1
// times, marking the row at exactly steps rewinds. Listings longer than
// MaxTrail are refused.
func Trail(newTarget uint32, steps, extra uint64) ([]TrailEntry, error) {
	if extra > MaxTrail || steps > MaxTrail-extra {
		return nil, fmt.Errorf("rng: %d+%d entries: %w", steps, extra, ErrTrailTooLong)
	}
	out := make([]TrailEntry, 0, steps+extra)
	x := newTarget
	for i := uint64(0); i < steps+extra; i++ {
		out = append(out, TrailEntry{Back: i, Seed: x, Marked: i == steps})
		x = Prev(x)
	}
	return out, nil
}

// String formats an entry the way the search tool prints it.
func (e TrailEntry) String() string {
	mark := ""
	if e.Marked {
		mark = "*"
	}
	return fmt.Sprintf("0x%X%s", e.Seed, mark)
}
