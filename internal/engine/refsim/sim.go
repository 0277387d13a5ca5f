// Package refsim is a small pure-Go platformer simulation that exposes the
// same memory layout as the native engine. It exists so the tooling can be
// exercised deterministically without the native library: level geometry,
// loose tiles, an opener that animates the exit door, a guard that consumes
// the generator, the mirror level and the copy-protection level are all
// modelled closely enough for record, replay and hashing to behave the same.
package refsim

import (
	"fmt"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/registry"
	"github.com/vovakirdan/frameforge/internal/rng"
)

// Defaults applied on a fresh instance.
const (
	StartMinutes       = 60
	StartTicks         = 719
	StartHitp          = 3
	IntroMusicInitial  = 33
	IntroMusicRestart  = 4
	HaveSwordFromLevel = 2
	MaxLevel           = 15
)

// Sim is one simulation instance. Its memory is private, so any number of
// instances can coexist without aliasing.
type Sim struct {
	mem   map[engine.FieldID][]byte
	input move.Input

	// Engine-internal state that is not part of a frame record.
	placementPending bool
	linkLeft         byte
	linkRight        byte
}

// New creates an instance positioned at the start of level 1 with the
// given generator seed.
func New(seed uint32) *Sim {
	s := &Sim{
		mem: make(map[engine.FieldID][]byte),
	}
	for _, id := range engine.AllFields() {
		s.mem[id] = make([]byte, id.Size())
	}

	copy(s.mem[engine.FieldQuickControl], "........")
	engine.SetDword(s, engine.FieldRandomSeed, seed)
	engine.SetWord(s, engine.FieldCheckpoint, 0)
	engine.SetWord(s, engine.FieldUpsideDown, 0)
	engine.SetShort(s, engine.FieldRemMin, StartMinutes)
	engine.SetWord(s, engine.FieldRemTick, StartTicks)
	engine.SetWord(s, engine.FieldHitpBegLev, StartHitp)
	engine.SetWord(s, engine.FieldCurrentLevel, 0)
	s.StartLevel(1)
	engine.SetWord(s, engine.FieldNeedLevel1Music, IntroMusicInitial)
	return s
}

func init() {
	registry.Register("refsim", "Pure-Go reference simulation", func(opts registry.Options) (engine.Engine, error) {
		return New(opts.Seed), nil
	})
}

// Field implements engine.Engine.
func (s *Sim) Field(id engine.FieldID) []byte {
	b, ok := s.mem[id]
	if !ok {
		panic(fmt.Sprintf("refsim: field %v not available", id))
	}
	return b
}

// SetSeed implements engine.Engine.
func (s *Sim) SetSeed(seed uint32) {
	engine.SetDword(s, engine.FieldRandomSeed, seed)
}

// ApplyInput implements engine.Engine.
func (s *Sim) ApplyInput(in move.Input) {
	s.input = in
	if in.Restart {
		engine.SetWord(s, engine.FieldIsRestartLevel, 1)
	}
}

// Timers implements engine.Engine.
func (s *Sim) Timers() {
	tick := engine.Word(s, engine.FieldRemTick)
	if tick <= 1 {
		engine.SetWord(s, engine.FieldRemTick, 720)
		if m := engine.Short(s, engine.FieldRemMin); m > 0 {
			engine.SetShort(s, engine.FieldRemMin, m-1)
		}
	} else {
		engine.SetWord(s, engine.FieldRemTick, tick-1)
	}

	if t := engine.Word(s, engine.FieldFlashTime); t > 0 {
		engine.SetWord(s, engine.FieldFlashTime, t-1)
	}
	if m := engine.Word(s, engine.FieldNeedLevel1Music); m > 0 {
		engine.SetWord(s, engine.FieldNeedLevel1Music, m-1)
	}
}

// StartLevel implements engine.Engine.
func (s *Sim) StartLevel(level uint16) {
	if level > MaxLevel {
		panic(fmt.Sprintf("refsim: level %d out of range", level))
	}
	buildLevel(s.Field(engine.FieldLevel), int(level))
	engine.SetWord(s, engine.FieldCurrentLevel, level)
	engine.SetWord(s, engine.FieldNextLevel, level)

	engine.SetShort(s, engine.FieldMobsCount, 0)
	engine.SetShort(s, engine.FieldTrobsCount, 0)
	clear(s.Field(engine.FieldMobs))
	clear(s.Field(engine.FieldTrobs))
	for _, id := range []engine.FieldID{
		engine.FieldHoldingSword, engine.FieldGrabTimer, engine.FieldUnitedWithShadow,
		engine.FieldFlashTime, engine.FieldLevelDoorOpen, engine.FieldDemoIndex,
		engine.FieldDemoTime, engine.FieldExitRoomTimer, engine.FieldJumpedThroughMirror,
		engine.FieldGuardNoticeTimer, engine.FieldIsGuardNotice, engine.FieldCanGuardSeeKid,
		engine.FieldHitpDelta, engine.FieldGuardhpDelta,
	} {
		clear(s.Field(id))
	}

	lvl := s.Field(engine.FieldLevel)
	startRoom := lvl[engine.LevelStartRoomOffset]
	startPos := lvl[engine.LevelStartPosOffset]
	engine.SetChar(s, engine.FieldKid, engine.Char{
		Frame:     frameStand,
		X:         colX(int(startPos) % colsPerRow),
		Y:         floorY,
		Direction: int8(lvl[engine.LevelStartDirOffset]),
		CurrCol:   int8(startPos % colsPerRow),
		CurrRow:   int8(startPos / colsPerRow),
		Room:      startRoom,
		CharID:    charKid,
		Alive:     -1,
	})
	beg := engine.Word(s, engine.FieldHitpBegLev)
	engine.SetWord(s, engine.FieldHitpMax, beg)
	engine.SetWord(s, engine.FieldHitpCurr, beg)

	s.positionGuard()

	engine.SetWord(s, engine.FieldDrawnRoom, uint16(startRoom))
	engine.SetWord(s, engine.FieldDifferentRoom, 1)
	engine.SetWord(s, engine.FieldNextRoom, uint16(startRoom))

	haveSword := level == 0 || level >= HaveSwordFromLevel
	engine.SetWord(s, engine.FieldHaveSword, boolWord(haveSword))

	engine.SetByte(s, engine.FieldEnableCopyprot, 1)
	s.placementPending = true
	s.LoadRoomLinks()

	if engine.Word(s, engine.FieldNeedLevel1Music) != 0 && level == 1 {
		engine.SetWord(s, engine.FieldNeedLevel1Music, IntroMusicRestart)
	}
}

// LoadRoomLinks implements engine.Engine.
func (s *Sim) LoadRoomLinks() {
	room := int(engine.Word(s, engine.FieldDrawnRoom))
	if room < 1 || room > engine.RoomCount {
		s.linkLeft, s.linkRight = 0, 0
		return
	}
	links := s.Field(engine.FieldLevel)[engine.LevelRoomlinksOffset+(room-1)*4:]
	s.linkLeft = links[engine.LinkLeft]
	s.linkRight = links[engine.LinkRight]
}

// RoomLinks returns the cached left and right neighbours of drawn_room.
func (s *Sim) RoomLinks() (left, right byte) {
	return s.linkLeft, s.linkRight
}

// PlacementPending reports whether the lazy level-entry placement still
// has to run on the next PlayFrame.
func (s *Sim) PlacementPending() bool {
	return s.placementPending
}

// Close implements engine.Engine.
func (s *Sim) Close() error {
	return nil
}

// prandom advances the generator and returns a value in [0, max].
func (s *Sim) prandom(max uint32) uint32 {
	seed := rng.Next(engine.Dword(s, engine.FieldRandomSeed))
	engine.SetDword(s, engine.FieldRandomSeed, seed)
	return (seed >> 16) % (max + 1)
}

func boolWord(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

var _ engine.Engine = (*Sim)(nil)
