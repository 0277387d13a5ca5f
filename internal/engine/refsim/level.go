package refsim

import "github.com/vovakirdan/frameforge/internal/engine"

// Geometry shared by every generated level. Each level is a corridor of
// four rooms along one floor row.
const (
	roomsPerLevel = 4
	floorRow      = 2
	floorY        = 118
	colsPerRow    = 10

	minX     = 58
	maxX     = 198
	colWidth = 14
	walkStep = 3

	charKid    = 0
	charShadow = 1
	charGuard  = 2

	dirRight = 0
	dirLeft  = -1

	// dirLeft as stored in level data.
	dirLeftByte = 0xFF

	looseRoom1, loosePos1 = 1, 25
	looseRoom2, loosePos2 = 3, 23
	openerRoom, openerPos = 2, 27
	doorRoom, doorPos     = 4, 25
	mirrorRoom, mirrorPos = 3, 21
	guardRoom, guardPos   = 3, 26

	startRoom, startPos = 1, 21

	mirrorLevel = 4
	noGuard     = 30

	guardHitp    = 3
	guardReach   = 12
	offscreenX   = 245
	doorBgStep   = 4
	doorBgOpen   = 40
	mobMaxSpeed  = 29
	mobFloorY    = 250
	frameStand   = 15
	frameCrouch  = 109
	frameStairs  = 217
	roomExitTime = 2
)

// colX returns the x coordinate of the centre of a column.
func colX(col int) byte {
	return byte(minX + colWidth*col + colWidth/2)
}

// xCol returns the column under an x coordinate.
func xCol(x byte) int {
	c := (int(x) - minX) / colWidth
	return max(0, min(c, colsPerRow-1))
}

// buildLevel writes the geometry of level n into a level_type buffer.
func buildLevel(lvl []byte, n int) {
	clear(lvl)

	fg := lvl[engine.LevelFgOffset:engine.LevelBgOffset]
	for r := 1; r <= roomsPerLevel; r++ {
		for c := 0; c < colsPerRow; c++ {
			fg[engine.TileIndex(r, floorRow*colsPerRow+c)] = byte(engine.TileFloor)
		}

		links := lvl[engine.LevelRoomlinksOffset+(r-1)*4:]
		if r > 1 {
			links[engine.LinkLeft] = byte(r - 1)
		}
		if r < roomsPerLevel {
			links[engine.LinkRight] = byte(r + 1)
		}
	}
	lvl[engine.LevelUsedRoomsOffset] = roomsPerLevel

	fg[engine.TileIndex(looseRoom1, loosePos1)] = byte(engine.TileLoose)
	fg[engine.TileIndex(looseRoom2, loosePos2)] = byte(engine.TileLoose)
	fg[engine.TileIndex(openerRoom, openerPos)] = byte(engine.TileOpener)
	fg[engine.TileIndex(doorRoom, doorPos)] = byte(engine.TileLevelDoorLeft)
	fg[engine.TileIndex(doorRoom, doorPos+1)] = byte(engine.TileLevelDoorRight)
	if n == mirrorLevel {
		fg[engine.TileIndex(mirrorRoom, mirrorPos)] = byte(engine.TileMirror)
	}

	lvl[engine.LevelStartRoomOffset] = startRoom
	lvl[engine.LevelStartPosOffset] = startPos
	lvl[engine.LevelStartDirOffset] = dirRight

	for r := 0; r < engine.RoomCount; r++ {
		lvl[engine.LevelGuardsTileOffset+r] = noGuard
	}
	g := guardRoom - 1
	lvl[engine.LevelGuardsTileOffset+g] = guardPos % colsPerRow
	lvl[engine.LevelGuardsDirOffset+g] = dirLeftByte
	lvl[engine.LevelGuardsXOffset+g] = colX(guardPos % colsPerRow)
	lvl[engine.LevelGuardsSkill+g] = byte(n % 4)
	lvl[engine.LevelGuardsColor+g] = byte(1 + n%3)
}

// positionGuard puts the level's guard at its start tile. The final
// placement offset is drawn from the generator on the first PlayFrame.
func (s *Sim) positionGuard() {
	lvl := s.Field(engine.FieldLevel)
	g := guardRoom - 1
	col := lvl[engine.LevelGuardsTileOffset+g]
	if col >= noGuard {
		clear(s.Field(engine.FieldGuard))
		return
	}

	id := byte(charGuard)
	if engine.Word(s, engine.FieldCurrentLevel) == mirrorLevel {
		id = charShadow
	}
	engine.SetChar(s, engine.FieldGuard, engine.Char{
		Frame:     frameStand,
		X:         lvl[engine.LevelGuardsXOffset+g],
		Y:         floorY,
		Direction: int8(lvl[engine.LevelGuardsDirOffset+g]),
		CurrCol:   int8(col),
		CurrRow:   floorRow,
		Room:      guardRoom,
		CharID:    id,
		Alive:     -1,
	})
	engine.SetWord(s, engine.FieldGuardSkill, uint16(lvl[engine.LevelGuardsSkill+g]))
	engine.SetWord(s, engine.FieldCurrGuardColor, uint16(lvl[engine.LevelGuardsColor+g]))
	engine.SetWord(s, engine.FieldGuardhpMax, guardHitp)
	engine.SetWord(s, engine.FieldGuardhpCurr, 0)
}
