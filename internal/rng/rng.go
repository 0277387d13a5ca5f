// Package rng steps the engine's 32-bit linear congruential generator
// forward and backward. All arithmetic wraps modulo 2^32.
package rng

import (
	"errors"
	"fmt"
)

const (
	// Multiplier and Increment define next(x) = x*Multiplier + Increment.
	Multiplier uint32 = 214013
	Increment  uint32 = 2531011

	// InverseMultiplier is Multiplier^-1 mod 2^32.
	InverseMultiplier uint32 = 3115528533
	// InverseIncrement is -Increment mod 2^32.
	InverseIncrement uint32 = 4292436285
)

var (
	// ErrLimitReached is returned when a search exhausts its step budget
	// without meeting the target.
	ErrLimitReached = errors.New("step limit reached")

	// ErrNoLimit is returned when a search is started without a budget.
	ErrNoLimit = errors.New("search requires a positive step limit")
)

// Next advances the generator by one step.
func Next(x uint32) uint32 {
	return x*Multiplier + Increment
}

// Prev undoes one Next step: Prev(Next(x)) == x for every x.
func Prev(x uint32) uint32 {
	return (x + InverseIncrement) * InverseMultiplier
}

// Advance applies Next n times.
func Advance(x uint32, n uint64) uint32 {
	for ; n > 0; n-- {
		x = Next(x)
	}
	return x
}

// Rewind applies Prev n times.
func Rewind(x uint32, n uint64) uint32 {
	for ; n > 0; n-- {
		x = Prev(x)
	}
	return x
}

// StepsTo counts the Next steps needed to go from initial to target.
// The generator may never reach target from a given seed, so the search is
// capped at limit steps.
func StepsTo(initial, target uint32, limit uint64) (uint64, error) {
	if limit == 0 {
		return 0, ErrNoLimit
	}

	x := initial
	var steps uint64
	for x != target {
		if steps >= limit {
			return steps, fmt.Errorf("rng: 0x%08X not reached from 0x%08X after %d steps: %w",
				target, initial, steps, ErrLimitReached)
		}
		x = Next(x)
		steps++
	}
	return steps, nil
}

// BackSolve returns the seed that reaches newTarget after exactly k steps.
func BackSolve(newTarget uint32, k uint64) uint32 {
	return Rewind(newTarget, k)
}
