package playback

import (
	"fmt"
	"math"
)

// Game clock constants.
const (
	TicksPerMinute = 720
	TicksPerSecond = 12
	StartMinutes   = 60
)

// IGT is an in-game time derived from a tick count.
type IGT struct {
	Minutes int
	Seconds int
	Millis  int
}

// IGTAt converts a step index into in-game time.
func IGTAt(step int) IGT {
	return IGT{
		Minutes: step / TicksPerMinute,
		Seconds: (step % TicksPerMinute) / TicksPerSecond,
		Millis:  int(math.Floor(float64(step%TicksPerSecond) / 0.012)),
	}
}

func (t IGT) String() string {
	return fmt.Sprintf("%2d:%02d.%03d", t.Minutes, t.Seconds, t.Millis)
}

// ElapsedTicks converts the engine's remaining-time counters into ticks
// elapsed since the game clock started.
func ElapsedTicks(remMin int16, remTick uint16) int {
	return (StartMinutes-int(remMin))*TicksPerMinute + (TicksPerMinute - 1 - int(remTick))
}
