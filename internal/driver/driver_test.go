package driver

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/engine/refsim"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/state"
)

func newDriver(seed uint32) (*Driver, *engine.Binding) {
	b := engine.NewBinding("refsim", refsim.New(seed))
	return New(b, Options{}), b
}

func level(b *engine.Binding) uint16 {
	return engine.Word(b, engine.FieldCurrentLevel)
}

func TestStepUnrecognizedLeavesStateUntouched(t *testing.T) {
	d, b := newDriver(1)
	c := state.New(b, nil)
	before := c.Snapshot()

	err := d.Step("Z")
	if !errors.Is(err, move.ErrUnrecognizedMove) {
		t.Fatalf("Step(Z) error = %v, want ErrUnrecognizedMove", err)
	}
	if d.Ticks() != 0 {
		t.Errorf("Ticks() = %d, want 0", d.Ticks())
	}
	if !bytes.Equal(c.Snapshot(), before) {
		t.Error("rejected move changed the simulation")
	}
}

func TestAdvanceClearsDeltas(t *testing.T) {
	d, b := newDriver(1)
	engine.SetShort(b, engine.FieldHitpDelta, -2)
	engine.SetShort(b, engine.FieldGuardhpDelta, -1)

	d.Advance(move.Input{})

	if got := engine.Word(b, engine.FieldHitpCurr); got != refsim.StartHitp {
		t.Errorf("hitp_curr = %d, stale delta was applied", got)
	}
	if d.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", d.Ticks())
	}
}

func TestRestartLevel(t *testing.T) {
	d, b := newDriver(2)
	start := engine.CharOf(b, engine.FieldKid)

	for i := 0; i < 10; i++ {
		if err := d.Step("R"); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if engine.CharOf(b, engine.FieldKid).X == start.X {
		t.Fatal("kid did not move")
	}

	if err := d.Step(move.RestartToken); err != nil {
		t.Fatalf("Step(CA): %v", err)
	}
	kid := engine.CharOf(b, engine.FieldKid)
	if kid.X != start.X || kid.Room != start.Room {
		t.Errorf("kid at room %d x %d after restart, want room %d x %d", kid.Room, kid.X, start.Room, start.X)
	}
	if got := engine.Word(b, engine.FieldIsRestartLevel); got != 0 {
		t.Errorf("is_restart_level = %d, want 0", got)
	}
	if got := level(b); got != 1 {
		t.Errorf("level = %d, want 1", got)
	}
}

func TestLevelTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     uint16
		next     uint16
		copyprot bool
		want     uint16
	}{
		{"plain", 3, 4, true, 4},
		{"into copy protection", 1, 2, true, CopyprotTargetLevel},
		{"out of copy protection", CopyprotTargetLevel, 3, true, DefaultCopyprotLevel},
		{"copy protection disabled", 1, 2, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, b := newDriver(0)
			b.StartLevel(tt.from)
			if !tt.copyprot {
				engine.SetByte(b, engine.FieldEnableCopyprot, 0)
			}
			engine.SetWord(b, engine.FieldNextLevel, tt.next)

			d.Advance(move.Input{})

			if got := level(b); got != tt.want {
				t.Errorf("level = %d, want %d", got, tt.want)
			}
			if got := engine.Word(b, engine.FieldNextLevel); got != tt.want {
				t.Errorf("next_level = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCustomCopyprotLevel(t *testing.T) {
	b := engine.NewBinding("refsim", refsim.New(0))
	d := New(b, Options{CopyprotLevel: 5})
	b.StartLevel(4)
	engine.SetWord(b, engine.FieldNextLevel, 5)

	d.Advance(move.Input{})
	if got := level(b); got != CopyprotTargetLevel {
		t.Errorf("level = %d, want %d", got, CopyprotTargetLevel)
	}
}

func TestMirrorMovesGuardAway(t *testing.T) {
	d, b := newDriver(0)
	b.StartLevel(MirrorLevel)
	engine.SetShort(b, engine.FieldJumpedThroughMirror, -1)

	d.Advance(move.Input{})

	if got := engine.CharOf(b, engine.FieldGuard).X; got != MirrorGuardX {
		t.Errorf("Guard.x = %d, want %d", got, MirrorGuardX)
	}
}

func TestCompleteLevelOne(t *testing.T) {
	d, b := newDriver(11)
	d.Advance(move.Input{})
	engine.SetChar(b, engine.FieldGuard, engine.Char{})

	for i := 0; i < 400; i++ {
		kid := engine.CharOf(b, engine.FieldKid)
		if kid.Room == 4 && kid.CurrCol == 5 {
			break
		}
		d.Advance(move.Input{Right: true})
		if engine.Short(b, engine.FieldTrobsCount) > 0 && !b.ExitDoorOpen() {
			t.Fatal("animating door not observed as open")
		}
	}
	if !b.ExitDoorOpen() {
		t.Fatal("exit door closed when reaching it")
	}

	d.Advance(move.Input{Up: true})

	if got := level(b); got != CopyprotTargetLevel {
		t.Errorf("level after exit = %d, want %d", got, CopyprotTargetLevel)
	}
	if b.ExitDoorOpen() {
		t.Error("exit door should be closed on a fresh level")
	}
}

func TestRunDeterministic(t *testing.T) {
	seq := move.ParseSequence("R R RS . D U L L R R R R R R R R R R R R CA R R .")

	da, a := newDriver(0x5EED)
	db, b := newDriver(0x5EED)
	ca, cb := state.New(a, nil), state.New(b, nil)

	if err := da.Run(seq); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := db.Run(seq); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if da.Ticks() != uint64(seq.Len()) {
		t.Errorf("Ticks() = %d, want %d", da.Ticks(), seq.Len())
	}
	if !bytes.Equal(ca.Snapshot(), cb.Snapshot()) {
		t.Error("identical runs produced different records")
	}
	if ca.Hash() != cb.Hash() {
		t.Error("identical runs produced different hashes")
	}
}

func TestRunStopsAtBadToken(t *testing.T) {
	d, _ := newDriver(0)
	err := d.Run(move.ParseSequence("R R X R ."))
	if !errors.Is(err, move.ErrUnrecognizedMove) {
		t.Fatalf("Run error = %v, want ErrUnrecognizedMove", err)
	}
	if d.Ticks() != 2 {
		t.Errorf("Ticks() = %d, want 2", d.Ticks())
	}
}

func TestPrevDrawnRoom(t *testing.T) {
	d, b := newDriver(0)
	for i := 0; i < 50; i++ {
		d.Advance(move.Input{Right: true})
	}
	if got, want := d.PrevDrawnRoom(), engine.Word(b, engine.FieldDrawnRoom); got != want {
		t.Errorf("PrevDrawnRoom() = %d, want %d", got, want)
	}
	if d.PrevDrawnRoom() != 2 {
		t.Errorf("kid should be in room 2 after 50 ticks, drawn room %d", d.PrevDrawnRoom())
	}
}
