package refsim

import (
	"bytes"
	"testing"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
)

func step(s *Sim, in move.Input) {
	s.ApplyInput(in)
	s.Timers()
	s.PlayFrame()
}

func TestNewInitialState(t *testing.T) {
	s := New(42)

	if got := engine.Word(s, engine.FieldCurrentLevel); got != 1 {
		t.Errorf("current_level = %d, want 1", got)
	}
	if got := engine.Word(s, engine.FieldNextLevel); got != 1 {
		t.Errorf("next_level = %d, want 1", got)
	}
	if got := engine.Dword(s, engine.FieldRandomSeed); got != 42 {
		t.Errorf("random_seed = %d, want 42", got)
	}
	if got := engine.Word(s, engine.FieldNeedLevel1Music); got != IntroMusicInitial {
		t.Errorf("need_level1_music = %d, want %d", got, IntroMusicInitial)
	}
	if got := engine.Byte(s, engine.FieldEnableCopyprot); got != 1 {
		t.Errorf("enable_copyprot = %d, want 1", got)
	}
	if got := engine.Word(s, engine.FieldHitpCurr); got != StartHitp {
		t.Errorf("hitp_curr = %d, want %d", got, StartHitp)
	}
	if got := engine.Word(s, engine.FieldHaveSword); got != 0 {
		t.Errorf("have_sword on level 1 = %d, want 0", got)
	}
	if !s.PlacementPending() {
		t.Error("placement should be pending after level start")
	}

	kid := engine.CharOf(s, engine.FieldKid)
	if kid.Room != startRoom || kid.CurrCol != startPos%colsPerRow {
		t.Errorf("kid at room %d col %d, want room %d col %d", kid.Room, kid.CurrCol, startRoom, startPos%colsPerRow)
	}
}

func TestFieldsHaveDeclaredSizes(t *testing.T) {
	s := New(0)
	for _, id := range engine.AllFields() {
		if got := len(s.Field(id)); got != id.Size() {
			t.Errorf("%v: len = %d, want %d", id, got, id.Size())
		}
	}
}

func TestPlacementConsumesGenerator(t *testing.T) {
	s := New(7)
	before := engine.Dword(s, engine.FieldRandomSeed)

	s.PlayFrame()

	if s.PlacementPending() {
		t.Fatal("placement still pending after PlayFrame")
	}
	if engine.Dword(s, engine.FieldRandomSeed) == before {
		t.Error("placement did not advance the generator")
	}
	if got := engine.Word(s, engine.FieldGuardhpCurr); got != guardHitp {
		t.Errorf("guardhp_curr = %d, want %d", got, guardHitp)
	}
}

func TestDeterministic(t *testing.T) {
	a, b := New(0x1234), New(0x1234)
	inputs := []move.Input{
		{}, {Right: true}, {Right: true, Shift: true}, {Left: true}, {Down: true}, {Up: true},
	}
	for i := 0; i < 300; i++ {
		in := inputs[i%len(inputs)]
		if i > 50 && i < 150 {
			in = move.Input{Right: true}
		}
		step(a, in)
		step(b, in)
	}

	for _, id := range engine.AllFields() {
		if !bytes.Equal(a.Field(id), b.Field(id)) {
			t.Errorf("field %v diverged", id)
		}
	}
}

func TestInstancesAreIsolated(t *testing.T) {
	a, b := New(1), New(1)
	engine.SetDword(a, engine.FieldRandomSeed, 99)
	engine.SetWord(a, engine.FieldHitpCurr, 1)

	if got := engine.Dword(b, engine.FieldRandomSeed); got != 1 {
		t.Errorf("b random_seed = %d, want 1", got)
	}
	if got := engine.Word(b, engine.FieldHitpCurr); got != StartHitp {
		t.Errorf("b hitp_curr = %d, want %d", got, StartHitp)
	}
}

func TestTimers(t *testing.T) {
	s := New(0)
	s.Timers()
	if got := engine.Word(s, engine.FieldRemTick); got != StartTicks-1 {
		t.Errorf("rem_tick = %d, want %d", got, StartTicks-1)
	}

	engine.SetWord(s, engine.FieldRemTick, 1)
	s.Timers()
	if got := engine.Word(s, engine.FieldRemTick); got != 720 {
		t.Errorf("rem_tick after rollover = %d, want 720", got)
	}
	if got := engine.Short(s, engine.FieldRemMin); got != StartMinutes-1 {
		t.Errorf("rem_min = %d, want %d", got, StartMinutes-1)
	}
}

func TestLooseTileFalls(t *testing.T) {
	s := New(5)
	s.PlayFrame()

	var broke bool
	for i := 0; i < 40 && !broke; i++ {
		seed := engine.Dword(s, engine.FieldRandomSeed)
		step(s, move.Input{Right: true})
		if engine.Short(s, engine.FieldMobsCount) > 0 {
			broke = true
			if engine.Dword(s, engine.FieldRandomSeed) == seed {
				t.Error("breaking a loose tile should consume the generator")
			}
		}
	}
	if !broke {
		t.Fatal("loose tile never broke")
	}

	idx := engine.TileIndex(looseRoom1, loosePos1)
	if got := engine.TileOf(engine.LevelFg(s, idx)); got != engine.TileEmpty {
		t.Errorf("loose tile after break = %v, want Empty", got)
	}

	for i := 0; i < 20; i++ {
		step(s, move.Input{})
	}
	if got := engine.Short(s, engine.FieldMobsCount); got != 0 {
		t.Errorf("mobs_count after landing = %d, want 0", got)
	}
}

func TestOpenerRaisesExitDoor(t *testing.T) {
	s := New(3)
	s.PlayFrame()

	var sawAnimating bool
	for i := 0; i < 200 && engine.Word(s, engine.FieldLevelDoorOpen) == 0; i++ {
		step(s, move.Input{Right: true})
		if engine.Short(s, engine.FieldTrobsCount) > 0 && engine.Word(s, engine.FieldLevelDoorOpen) == 0 {
			sawAnimating = true
			if !engine.LevelExitDoorOpen(s) {
				t.Fatal("door animating but not derived open")
			}
		}
	}

	if engine.Word(s, engine.FieldLevelDoorOpen) == 0 {
		t.Fatal("exit door never opened")
	}
	if !sawAnimating {
		t.Error("door opened without an animation phase")
	}
	if got := engine.Short(s, engine.FieldTrobsCount); got != 0 {
		t.Errorf("trobs_count after opening = %d, want 0", got)
	}
}

func TestStartLevelResets(t *testing.T) {
	s := New(0)
	engine.SetShort(s, engine.FieldMobsCount, 3)
	engine.SetShort(s, engine.FieldTrobsCount, 2)
	engine.SetWord(s, engine.FieldLevelDoorOpen, 1)
	engine.SetWord(s, engine.FieldGrabTimer, 9)
	engine.SetByte(s, engine.FieldEnableCopyprot, 0)

	s.StartLevel(3)

	for _, id := range []engine.FieldID{
		engine.FieldMobsCount, engine.FieldTrobsCount, engine.FieldLevelDoorOpen, engine.FieldGrabTimer,
	} {
		if got := engine.Word(s, id); got != 0 {
			t.Errorf("%v = %d, want 0", id, got)
		}
	}
	if got := engine.Word(s, engine.FieldCurrentLevel); got != 3 {
		t.Errorf("current_level = %d, want 3", got)
	}
	if got := engine.Word(s, engine.FieldHaveSword); got != 1 {
		t.Errorf("have_sword on level 3 = %d, want 1", got)
	}
	if got := engine.Byte(s, engine.FieldEnableCopyprot); got != 1 {
		t.Errorf("enable_copyprot = %d, want 1", got)
	}
}

func TestRestartSameLevelRebuildsLayout(t *testing.T) {
	s := New(0)
	fresh := bytes.Clone(s.Field(engine.FieldLevel))

	lvl := s.Field(engine.FieldLevel)
	for i := range engine.TilesPerLevel {
		lvl[engine.LevelFgOffset+i] = 0
	}
	s.StartLevel(1)

	if !bytes.Equal(s.Field(engine.FieldLevel), fresh) {
		t.Error("restarting the current level kept the modified layout")
	}
}

func TestStartLevelOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for level out of range")
		}
	}()
	New(0).StartLevel(MaxLevel + 1)
}

func TestCheckMirror(t *testing.T) {
	s := New(0)
	s.StartLevel(mirrorLevel)
	s.PlayFrame()

	kid := engine.CharOf(s, engine.FieldKid)
	kid.Room = mirrorRoom
	kid.X = colX(mirrorPos % colsPerRow)
	kid.CurrCol = mirrorPos % colsPerRow
	engine.SetChar(s, engine.FieldKid, kid)
	engine.SetWord(s, engine.FieldDrawnRoom, mirrorRoom)
	s.LoadRoomLinks()

	s.CheckMirror()
	if got := engine.Short(s, engine.FieldJumpedThroughMirror); got != 0 {
		t.Fatalf("jumped_through_mirror without jumping = %d, want 0", got)
	}

	s.ApplyInput(move.Input{Up: true})
	s.PlayFrame()
	s.CheckMirror()
	if got := engine.Short(s, engine.FieldJumpedThroughMirror); got != -1 {
		t.Errorf("jumped_through_mirror = %d, want -1", got)
	}
}

func TestLoadRoomLinks(t *testing.T) {
	s := New(0)
	engine.SetWord(s, engine.FieldDrawnRoom, 2)
	s.LoadRoomLinks()
	if l, r := s.RoomLinks(); l != 1 || r != 3 {
		t.Errorf("links of room 2 = (%d, %d), want (1, 3)", l, r)
	}

	engine.SetWord(s, engine.FieldDrawnRoom, 0)
	s.LoadRoomLinks()
	if l, r := s.RoomLinks(); l != 0 || r != 0 {
		t.Errorf("links of room 0 = (%d, %d), want (0, 0)", l, r)
	}
}

func TestRestartInputRaisesFlag(t *testing.T) {
	s := New(0)
	s.ApplyInput(move.MustDecode(move.RestartToken))
	if got := engine.Word(s, engine.FieldIsRestartLevel); got != 1 {
		t.Errorf("is_restart_level = %d, want 1", got)
	}
}
