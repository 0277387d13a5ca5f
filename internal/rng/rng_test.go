package rng

import (
	"errors"
	"math"
	"testing"
)

func TestInverseConstants(t *testing.T) {
	a, aInv := Multiplier, InverseMultiplier
	c, cInv := Increment, InverseIncrement

	if a*aInv != 1 {
		t.Errorf("Multiplier*InverseMultiplier = %d, want 1", a*aInv)
	}
	if c+cInv != 0 {
		t.Errorf("Increment+InverseIncrement = %d, want 0", c+cInv)
	}
}

func TestNextKnownValues(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 2531011},
		{1, 2745024},
		{math.MaxUint32, 0x235AC6},
	}
	for _, tt := range tests {
		if got := Next(tt.in); got != tt.want {
			t.Errorf("Next(0x%X) = 0x%X, want 0x%X", tt.in, got, tt.want)
		}
	}
}

func TestInverseLaw(t *testing.T) {
	samples := []uint32{0, 1, 2, 0x7FFFFFFF, 0x80000000, math.MaxUint32, 0xDEADBEEF, 0x12345678}
	// Sweep a strided range so wraparound regions are covered too.
	for x := uint64(0); x <= math.MaxUint32; x += 65521 {
		samples = append(samples, uint32(x))
	}

	for _, x := range samples {
		if got := Prev(Next(x)); got != x {
			t.Fatalf("Prev(Next(0x%X)) = 0x%X", x, got)
		}
		if got := Next(Prev(x)); got != x {
			t.Fatalf("Next(Prev(0x%X)) = 0x%X", x, got)
		}
	}
}

func TestScenarioThreeStepsBackAndForth(t *testing.T) {
	const seed uint32 = 0x12345678

	x := seed
	for i := 0; i < 3; i++ {
		x = Next(x)
	}
	if x != 0xCC0DDCAD {
		t.Errorf("after 3 steps got 0x%08X, want 0xCC0DDCAD", x)
	}
	for i := 0; i < 3; i++ {
		x = Prev(x)
	}
	if x != seed {
		t.Errorf("after rewinding got 0x%08X, want 0x%08X", x, seed)
	}
}

func TestAdvanceRewind(t *testing.T) {
	const seed uint32 = 0xCAFEBABE
	for _, n := range []uint64{0, 1, 7, 1000} {
		if got := Rewind(Advance(seed, n), n); got != seed {
			t.Errorf("Rewind(Advance(seed, %d), %d) = 0x%X", n, n, got)
		}
	}
}

func TestStepsTo(t *testing.T) {
	const initial uint32 = 42
	target := Advance(initial, 123)

	steps, err := StepsTo(initial, target, 1000)
	if err != nil {
		t.Fatalf("StepsTo failed: %v", err)
	}
	if steps != 123 {
		t.Errorf("steps = %d, want 123", steps)
	}

	steps, err = StepsTo(initial, initial, 10)
	if err != nil || steps != 0 {
		t.Errorf("StepsTo(x, x) = %d, %v; want 0, nil", steps, err)
	}
}

func TestStepsToLimit(t *testing.T) {
	target := Advance(7, 500)

	if _, err := StepsTo(7, target, 100); !errors.Is(err, ErrLimitReached) {
		t.Errorf("expected ErrLimitReached, got %v", err)
	}
	if _, err := StepsTo(7, target, 0); !errors.Is(err, ErrNoLimit) {
		t.Errorf("expected ErrNoLimit, got %v", err)
	}
}

func TestBackSolve(t *testing.T) {
	const (
		s0        uint32 = 0x00C0FFEE
		newTarget uint32 = 0x0BADF00D
		k         uint64 = 57
	)
	target := Advance(s0, k)

	res, err := Search(s0, target, newTarget, 10_000)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Steps != k {
		t.Fatalf("Steps = %d, want %d", res.Steps, k)
	}
	if got := Advance(res.NewInitial, k); got != newTarget {
		t.Errorf("Advance(NewInitial, k) = 0x%X, want 0x%X", got, newTarget)
	}
}

func TestTrail(t *testing.T) {
	const newTarget uint32 = 0x1000
	trail, err := Trail(newTarget, 3, 10)
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}

	if len(trail) != 13 {
		t.Fatalf("len(trail) = %d, want 13", len(trail))
	}
	if trail[0].Seed != newTarget {
		t.Errorf("trail[0] = 0x%X, want newTarget", trail[0].Seed)
	}

	marked := 0
	for i, e := range trail {
		if e.Marked {
			marked++
			if i != 3 {
				t.Errorf("marked row at %d, want 3", i)
			}
			if e.Seed != BackSolve(newTarget, 3) {
				t.Errorf("marked seed 0x%X, want back-solved seed", e.Seed)
			}
			if e.String()[len(e.String())-1] != '*' {
				t.Errorf("marked row %q should end with *", e.String())
			}
		}
	}
	if marked != 1 {
		t.Errorf("marked rows = %d, want 1", marked)
	}
}

func TestTrailTooLong(t *testing.T) {
	tests := []struct {
		steps, extra uint64
	}{
		{MaxTrail, 1},
		{1 << 32, 10},
		{0, MaxTrail + 1},
		{^uint64(0), 10}, // sum would wrap
	}
	for _, tt := range tests {
		trail, err := Trail(1, tt.steps, tt.extra)
		if !errors.Is(err, ErrTrailTooLong) {
			t.Errorf("Trail(%d, %d) error = %v, want ErrTrailTooLong", tt.steps, tt.extra, err)
		}
		if trail != nil {
			t.Errorf("Trail(%d, %d) returned %d entries", tt.steps, tt.extra, len(trail))
		}
	}

	trail, err := Trail(1, MaxTrail-10, 10)
	if err != nil || len(trail) != MaxTrail {
		t.Errorf("Trail at the cap = %d entries, %v", len(trail), err)
	}
}
