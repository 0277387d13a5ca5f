package playback

import (
	"fmt"
	"io"

	"github.com/vovakirdan/frameforge/internal/engine"
)

// Level-specific report values.
const (
	RightmostDoorLevel = 9
	RightmostDoorIndex = 349
)

// ObjectInfo describes a trob or a notable static tile.
type ObjectInfo struct {
	Index int
	Fg    byte
	Bg    byte
	Tile  engine.Tile
}

// FrameInfo is everything the viewer reports about one frame.
type FrameInfo struct {
	Step     int
	MaxStep  int
	IGT      IGT
	MaxIGT   IGT
	Move     string
	Level    uint16
	Kid      engine.Char
	KidHP    [2]uint16
	Guard    engine.Char
	GuardHP  [2]uint16
	Seed     uint32
	Elapsed  int
	Mobs     []engine.Mob
	Trobs    []ObjectInfo
	Static   []ObjectInfo
	ExitOpen bool

	// RightmostDoor is bg[349] on level 9, nil elsewhere.
	RightmostDoor *byte

	CanGuardSeeKid   uint16
	IsGuardNotice    uint16
	GuardRefrac      uint16
	GuardNoticeTimer uint16
	LevelDoorOpen    uint16
	Checkpoint       uint16
	FeatherFall      uint16
	NeedLevel1Music  uint16
	LastLooseSound   uint16
	DemoIndex        uint16
	DemoTime         uint16
	ExitRoomTimer    uint16
}

// Describe reads a FrameInfo out of a binding holding the frame.
func Describe(b *engine.Binding, step, maxStep int, token string) FrameInfo {
	info := FrameInfo{
		Step:     step,
		MaxStep:  maxStep,
		IGT:      IGTAt(step),
		MaxIGT:   IGTAt(maxStep),
		Move:     token,
		Level:    engine.Word(b, engine.FieldCurrentLevel),
		Kid:      engine.CharOf(b, engine.FieldKid),
		KidHP:    [2]uint16{engine.Word(b, engine.FieldHitpCurr), engine.Word(b, engine.FieldHitpMax)},
		Guard:    engine.CharOf(b, engine.FieldGuard),
		GuardHP:  [2]uint16{engine.Word(b, engine.FieldGuardhpCurr), engine.Word(b, engine.FieldGuardhpMax)},
		Seed:     engine.Dword(b, engine.FieldRandomSeed),
		Elapsed:  ElapsedTicks(engine.Short(b, engine.FieldRemMin), engine.Word(b, engine.FieldRemTick)),
		Mobs:     engine.Mobs(b),
		ExitOpen: engine.LevelExitDoorOpen(b),

		CanGuardSeeKid:   engine.Word(b, engine.FieldCanGuardSeeKid),
		IsGuardNotice:    engine.Word(b, engine.FieldIsGuardNotice),
		GuardRefrac:      engine.Word(b, engine.FieldGuardRefrac),
		GuardNoticeTimer: engine.Word(b, engine.FieldGuardNoticeTimer),
		LevelDoorOpen:    engine.Word(b, engine.FieldLevelDoorOpen),
		Checkpoint:       engine.Word(b, engine.FieldCheckpoint),
		FeatherFall:      engine.Word(b, engine.FieldIsFeatherFall),
		NeedLevel1Music:  engine.Word(b, engine.FieldNeedLevel1Music),
		LastLooseSound:   engine.Word(b, engine.FieldLastLooseSound),
		DemoIndex:        engine.Word(b, engine.FieldDemoIndex),
		DemoTime:         engine.Word(b, engine.FieldDemoTime),
		ExitRoomTimer:    engine.Word(b, engine.FieldExitRoomTimer),
	}

	if info.Level == RightmostDoorLevel {
		v := engine.LevelBg(b, RightmostDoorIndex)
		info.RightmostDoor = &v
	}

	for _, t := range engine.Trobs(b) {
		idx := engine.TileIndex(int(t.Room), int(t.Tilepos))
		info.Trobs = append(info.Trobs, objectAt(b, idx))
	}
	for idx := 0; idx < engine.TilesPerLevel; idx++ {
		switch engine.TileOf(engine.LevelFg(b, idx)) {
		case engine.TileDebris, engine.TileGate, engine.TileLevelDoorLeft:
			info.Static = append(info.Static, objectAt(b, idx))
		}
	}
	return info
}

func objectAt(b *engine.Binding, idx int) ObjectInfo {
	fg := engine.LevelFg(b, idx)
	return ObjectInfo{Index: idx, Fg: fg, Bg: engine.LevelBg(b, idx), Tile: engine.TileOf(fg)}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func charLine(c engine.Char, hp [2]uint16) string {
	seq := engine.SequenceID(c.CurrSeq)
	return fmt.Sprintf("Room: %d, Pos.x: %3d, Pos.y: %3d, Row: %2d, Col: %2d, Fall.y: %d, Frame: %3d, HP: %d/%d, Dir: %d, Seq: %d (%s)",
		c.Room, c.X, c.Y, c.CurrRow, c.CurrCol, c.FallY, c.Frame, hp[0], hp[1], c.Direction, seq, engine.SequenceName(seq))
}

// Lines renders the report one line at a time.
func (fi FrameInfo) Lines() []string {
	lines := []string{
		fmt.Sprintf("Current Step #: %d / %d", fi.Step, fi.MaxStep),
		fmt.Sprintf(" + Current IGT:    %s / %s", fi.IGT, fi.MaxIGT),
		fmt.Sprintf(" + Move: %s", fi.Move),
		fmt.Sprintf(" + Level: %d", fi.Level),
		" + [Kid]   " + charLine(fi.Kid, fi.KidHP),
		" + [Guard] " + charLine(fi.Guard, fi.GuardHP),
	}
	if fi.RightmostDoor != nil {
		lines = append(lines, fmt.Sprintf(" + Rightmost Door: %d", *fi.RightmostDoor))
	}
	lines = append(lines,
		fmt.Sprintf(" + Guard Can See Kid: %d", fi.CanGuardSeeKid),
		fmt.Sprintf(" + Is Guard Notice: %d", fi.IsGuardNotice),
		fmt.Sprintf(" + Guard Refrac: %d", fi.GuardRefrac),
		fmt.Sprintf(" + Guard Notice Timer: %d", fi.GuardNoticeTimer),
		fmt.Sprintf(" + Exit Door Open: %s (%d)", yesNo(fi.ExitOpen), fi.LevelDoorOpen),
		fmt.Sprintf(" + Reached Checkpoint: %s (%d)", yesNo(fi.Checkpoint != 0), fi.Checkpoint),
		fmt.Sprintf(" + Feather Fall: %d", fi.FeatherFall),
		fmt.Sprintf(" + Need Lvl1 Music: %d", fi.NeedLevel1Music),
		fmt.Sprintf(" + RNG State: 0x%08X (Last Loose Tile Sound Id: %d)", fi.Seed, fi.LastLooseSound),
		fmt.Sprintf(" + Demo Index: %d, Time: %d", fi.DemoIndex, fi.DemoTime),
		fmt.Sprintf(" + Exit Room Timer: %d", fi.ExitRoomTimer),
		fmt.Sprintf(" + Game Clock: %s", IGTAt(fi.Elapsed)),
		" + Moving Objects:",
	)
	for _, m := range fi.Mobs {
		lines = append(lines, fmt.Sprintf("   + Room: %d, X: %d, Y: %d, Speed: %d, Type: %d, Row: %d",
			m.Room, m.Xh, m.Y, m.Speed, m.Type, m.Row))
	}
	lines = append(lines, " + Active Objects:")
	for _, o := range fi.Trobs {
		lines = append(lines, objectLine(o))
	}
	lines = append(lines, " + Static Tile Information:")
	for _, o := range fi.Static {
		lines = append(lines, objectLine(o))
	}
	return lines
}

func objectLine(o ObjectInfo) string {
	return fmt.Sprintf("   + Index: %d, FG State: %d, BG State: %d, Type: %s", o.Index, o.Fg, o.Bg, o.Tile)
}

// Report writes the frame report to w.
func (fi FrameInfo) Report(w io.Writer) error {
	for _, l := range fi.Lines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
