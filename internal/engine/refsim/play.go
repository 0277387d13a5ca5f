package refsim

import "github.com/vovakirdan/frameforge/internal/engine"

// PlayFrame implements engine.Engine.
func (s *Sim) PlayFrame() {
	if s.placementPending {
		s.place()
	}

	s.readControls()
	s.moveKid()
	s.interactTile()
	s.animateTrobs()
	s.moveMobs()
	s.moveGuard()
	s.applyDeltas()

	copy(s.Field(engine.FieldChar), s.Field(engine.FieldKid))
	copy(s.Field(engine.FieldOpp), s.Field(engine.FieldGuard))
}

// CheckMirror implements engine.Engine. Jumping up while standing on the
// mirror marks the jump as in progress.
func (s *Sim) CheckMirror() {
	if engine.Short(s, engine.FieldJumpedThroughMirror) != 0 {
		return
	}
	kid := engine.CharOf(s, engine.FieldKid)
	if kid.Room != mirrorRoom || kid.CurrRow != floorRow {
		return
	}
	idx := engine.TileIndex(mirrorRoom, floorRow*colsPerRow+int(kid.CurrCol))
	if engine.TileOf(engine.LevelFg(s, idx)) != engine.TileMirror {
		return
	}
	if engine.Sbyte(s, engine.FieldControlUp) == -1 {
		engine.SetShort(s, engine.FieldJumpedThroughMirror, -1)
	}
}

// place finishes level entry: the guard's final position and hit points
// are only known once the generator has been consulted.
func (s *Sim) place() {
	s.placementPending = false

	g := engine.CharOf(s, engine.FieldGuard)
	if g.CharID == 0 && g.Room == 0 {
		return
	}
	g.X += byte(s.prandom(7))
	engine.SetChar(s, engine.FieldGuard, g)
	engine.SetWord(s, engine.FieldGuardhpCurr, engine.Word(s, engine.FieldGuardhpMax))
}

func (s *Sim) readControls() {
	for _, pair := range [][2]engine.FieldID{
		{engine.FieldControlForward, engine.FieldCtrl1Forward},
		{engine.FieldControlBackward, engine.FieldCtrl1Backward},
		{engine.FieldControlUp, engine.FieldCtrl1Up},
		{engine.FieldControlDown, engine.FieldCtrl1Down},
		{engine.FieldControlShift2, engine.FieldCtrl1Shift2},
	} {
		engine.SetByte(s, pair[1], engine.Byte(s, pair[0]))
	}

	in := s.input
	var x, y, shift int8
	switch {
	case in.Left && !in.Right:
		x = -1
	case in.Right && !in.Left:
		x = 1
	}
	switch {
	case in.Up && !in.Down:
		y = -1
	case in.Down && !in.Up:
		y = 1
	}
	if in.Shift {
		shift = -1
	}

	kid := engine.CharOf(s, engine.FieldKid)
	forward, backward := x, -x
	if kid.Direction == dirLeft {
		forward, backward = -x, x
	}

	engine.SetSbyte(s, engine.FieldControlX, x)
	engine.SetSbyte(s, engine.FieldControlY, y)
	engine.SetSbyte(s, engine.FieldControlShift, shift)
	engine.SetSbyte(s, engine.FieldControlForward, flag(forward > 0))
	engine.SetSbyte(s, engine.FieldControlBackward, flag(backward > 0))
	engine.SetSbyte(s, engine.FieldControlUp, flag(y < 0))
	engine.SetSbyte(s, engine.FieldControlDown, flag(y > 0))
	engine.SetSbyte(s, engine.FieldControlShift2, shift)
}

func (s *Sim) moveKid() {
	kid := engine.CharOf(s, engine.FieldKid)
	if kid.Alive >= 0 {
		return
	}
	prevRoom := kid.Room

	x := engine.Sbyte(s, engine.FieldControlX)
	switch {
	case x > 0:
		kid.Direction = dirRight
		if int(kid.X)+walkStep > maxX {
			if s.linkRight != 0 && kid.Room == byte(engine.Word(s, engine.FieldDrawnRoom)) {
				kid.Room = s.linkRight
				kid.X = minX
			} else {
				kid.X = maxX
			}
		} else {
			kid.X += walkStep
		}
		kid.Frame = 1 + kid.Frame%14
	case x < 0:
		kid.Direction = dirLeft
		if int(kid.X)-walkStep < minX {
			if s.linkLeft != 0 && kid.Room == byte(engine.Word(s, engine.FieldDrawnRoom)) {
				kid.Room = s.linkLeft
				kid.X = maxX
			} else {
				kid.X = minX
			}
		} else {
			kid.X -= walkStep
		}
		kid.Frame = 1 + kid.Frame%14
	case engine.Sbyte(s, engine.FieldControlY) > 0:
		kid.Frame = frameCrouch
	default:
		kid.Frame = frameStand
	}
	kid.CurrCol = int8(xCol(kid.X))
	engine.SetChar(s, engine.FieldKid, kid)

	if kid.Room != prevRoom {
		engine.SetWord(s, engine.FieldExitRoomTimer, roomExitTime)
		engine.SetWord(s, engine.FieldDrawnRoom, uint16(kid.Room))
		engine.SetWord(s, engine.FieldNextRoom, uint16(kid.Room))
		engine.SetWord(s, engine.FieldDifferentRoom, 1)
		s.LoadRoomLinks()
	} else if t := engine.Word(s, engine.FieldExitRoomTimer); t > 0 {
		engine.SetWord(s, engine.FieldExitRoomTimer, t-1)
	}
}

// interactTile applies the effect of the tile the kid stands on.
func (s *Sim) interactTile() {
	kid := engine.CharOf(s, engine.FieldKid)
	if kid.Alive >= 0 {
		return
	}
	idx := engine.TileIndex(int(kid.Room), floorRow*colsPerRow+int(kid.CurrCol))
	lvl := s.Field(engine.FieldLevel)

	switch engine.TileOf(lvl[engine.LevelFgOffset+idx]) {
	case engine.TileLoose:
		lvl[engine.LevelFgOffset+idx] = byte(engine.TileEmpty)
		s.addMob(engine.Mob{
			Xh:   byte(kid.CurrCol) * 4,
			Y:    floorY,
			Room: kid.Room,
			Row:  floorRow,
		})
		engine.SetWord(s, engine.FieldLastLooseSound, uint16(s.prandom(3)))

	case engine.TileOpener:
		lvl[engine.LevelBgOffset+idx] = 1
		if engine.Word(s, engine.FieldLevelDoorOpen) == 0 && !s.hasTrob(doorRoom, doorPos) {
			s.addTrob(engine.Trob{Tilepos: doorPos, Room: doorRoom, Type: 1})
		}

	case engine.TileLevelDoorLeft, engine.TileLevelDoorRight:
		if engine.Sbyte(s, engine.FieldControlUp) != -1 || engine.Word(s, engine.FieldLevelDoorOpen) == 0 {
			return
		}
		if cur := engine.Word(s, engine.FieldCurrentLevel); cur < MaxLevel {
			engine.SetWord(s, engine.FieldNextLevel, cur+1)
			kid.Frame = frameStairs
			engine.SetChar(s, engine.FieldKid, kid)
		}
	}
}

// animateTrobs raises the exit door. A door trob is retired once the door
// is fully up, leaving only the stored leveldoor_open flag behind.
func (s *Sim) animateTrobs() {
	lvl := s.Field(engine.FieldLevel)
	trobs := engine.Trobs(s)
	kept := trobs[:0]
	for _, t := range trobs {
		idx := engine.TileIndex(int(t.Room), int(t.Tilepos))
		if engine.TileOf(lvl[engine.LevelFgOffset+idx]) == engine.TileLevelDoorLeft {
			bg := lvl[engine.LevelBgOffset+idx] + doorBgStep
			lvl[engine.LevelBgOffset+idx] = bg
			if bg >= doorBgOpen {
				engine.SetWord(s, engine.FieldLevelDoorOpen, 1)
				continue
			}
		}
		kept = append(kept, t)
	}
	s.writeTrobs(kept)
}

// moveMobs lets loose tiles fall. A tile that lands on the kid's column
// costs one hit point.
func (s *Sim) moveMobs() {
	kid := engine.CharOf(s, engine.FieldKid)
	mobs := engine.Mobs(s)
	kept := mobs[:0]
	for _, m := range mobs {
		m.Speed = int8(min(int(m.Speed)+3, mobMaxSpeed))
		y := int(m.Y) + int(m.Speed)
		if y >= mobFloorY {
			if m.Room == kid.Room && int(m.Xh)/4 == int(kid.CurrCol) {
				s.addDelta(engine.FieldHitpDelta, -1)
			}
			continue
		}
		m.Y = byte(y)
		kept = append(kept, m)
	}
	s.writeMobs(kept)
}

// moveGuard walks the guard towards the kid and resolves strikes.
func (s *Sim) moveGuard() {
	g := engine.CharOf(s, engine.FieldGuard)
	if g.Room == 0 || g.Alive >= 0 || g.X >= offscreenX {
		return
	}
	kid := engine.CharOf(s, engine.FieldKid)
	if kid.Room != g.Room || kid.Alive >= 0 {
		engine.SetWord(s, engine.FieldCanGuardSeeKid, 0)
		engine.SetWord(s, engine.FieldIsGuardNotice, 0)
		return
	}

	engine.SetWord(s, engine.FieldCanGuardSeeKid, 2)
	engine.SetWord(s, engine.FieldIsGuardNotice, 1)
	engine.SetWord(s, engine.FieldGuardNoticeTimer, engine.Word(s, engine.FieldGuardNoticeTimer)+1)

	dx := int(kid.X) - int(g.X)
	switch {
	case dx > guardReach:
		g.X++
		g.Direction = dirRight
	case dx < -guardReach:
		g.X--
		g.Direction = dirLeft
	default:
		skill := uint32(engine.Word(s, engine.FieldGuardSkill))
		if s.prandom(3+skill) == 0 {
			s.addDelta(engine.FieldHitpDelta, -1)
		}
		if engine.Sbyte(s, engine.FieldControlShift) == -1 && engine.Word(s, engine.FieldHaveSword) != 0 {
			engine.SetWord(s, engine.FieldKidSwordStrike, 1)
			s.addDelta(engine.FieldGuardhpDelta, -1)
		} else {
			engine.SetWord(s, engine.FieldKidSwordStrike, 0)
		}
	}
	g.CurrCol = int8(xCol(g.X))
	engine.SetChar(s, engine.FieldGuard, g)
}

func (s *Sim) applyDeltas() {
	hp := int(engine.Word(s, engine.FieldHitpCurr)) + int(engine.Short(s, engine.FieldHitpDelta))
	hp = max(0, min(hp, int(engine.Word(s, engine.FieldHitpMax))))
	engine.SetWord(s, engine.FieldHitpCurr, uint16(hp))
	if hp == 0 {
		kid := engine.CharOf(s, engine.FieldKid)
		if kid.Alive < 0 {
			kid.Alive = 0
			engine.SetChar(s, engine.FieldKid, kid)
			engine.SetWord(s, engine.FieldFlashTime, 2)
		}
	}

	ghp := int(engine.Word(s, engine.FieldGuardhpCurr)) + int(engine.Short(s, engine.FieldGuardhpDelta))
	if ghp <= 0 && engine.Word(s, engine.FieldGuardhpCurr) > 0 {
		g := engine.CharOf(s, engine.FieldGuard)
		g.Alive = 0
		engine.SetChar(s, engine.FieldGuard, g)
	}
	engine.SetWord(s, engine.FieldGuardhpCurr, uint16(max(0, ghp)))
}

func (s *Sim) addDelta(id engine.FieldID, d int16) {
	engine.SetShort(s, id, engine.Short(s, id)+d)
}

func (s *Sim) hasTrob(room, tilepos byte) bool {
	for _, t := range engine.Trobs(s) {
		if t.Room == room && t.Tilepos == tilepos {
			return true
		}
	}
	return false
}

func (s *Sim) addTrob(t engine.Trob) {
	trobs := engine.Trobs(s)
	if len(trobs) >= engine.MaxTrobs {
		return
	}
	s.writeTrobs(append(trobs, t))
}

// writeTrobs stores a live prefix. Bytes past the prefix are left as they
// were, as the engine does.
func (s *Sim) writeTrobs(trobs []engine.Trob) {
	raw := s.Field(engine.FieldTrobs)
	for i, t := range trobs {
		b := raw[i*engine.TrobSize:]
		b[engine.TrobTilepos] = t.Tilepos
		b[engine.TrobRoom] = t.Room
		b[engine.TrobType] = byte(t.Type)
	}
	engine.SetShort(s, engine.FieldTrobsCount, int16(len(trobs)))
}

func (s *Sim) addMob(m engine.Mob) {
	mobs := engine.Mobs(s)
	if len(mobs) >= engine.MaxMobs {
		return
	}
	s.writeMobs(append(mobs, m))
}

func (s *Sim) writeMobs(mobs []engine.Mob) {
	raw := s.Field(engine.FieldMobs)
	for i, m := range mobs {
		b := raw[i*engine.MobSize:]
		b[engine.MobXh] = m.Xh
		b[engine.MobY] = m.Y
		b[engine.MobRoom] = m.Room
		b[engine.MobSpeed] = byte(m.Speed)
		b[engine.MobType] = m.Type
		b[engine.MobRow] = m.Row
	}
	engine.SetShort(s, engine.FieldMobsCount, int16(len(mobs)))
}

func flag(b bool) int8 {
	if b {
		return -1
	}
	return 0
}
