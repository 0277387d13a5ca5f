package engine

import "fmt"

// Engine struct layouts. All multi-byte values are little-endian.

// level_type
const (
	TilesPerRoom  = 30
	RoomCount     = 24
	TilesPerLevel = TilesPerRoom * RoomCount // 720

	LevelFgOffset         = 0
	LevelBgOffset         = LevelFgOffset + TilesPerLevel
	LevelDoorlinks1Offset = LevelBgOffset + TilesPerLevel
	LevelDoorlinks2Offset = LevelDoorlinks1Offset + 256
	LevelRoomlinksOffset  = LevelDoorlinks2Offset + 256
	LevelUsedRoomsOffset  = LevelRoomlinksOffset + 4*RoomCount
	LevelRoomxsOffset     = LevelUsedRoomsOffset + 1
	LevelRoomysOffset     = LevelRoomxsOffset + RoomCount
	LevelStartRoomOffset  = LevelRoomysOffset + RoomCount + 15
	LevelStartPosOffset   = LevelStartRoomOffset + 1
	LevelStartDirOffset   = LevelStartPosOffset + 1
	LevelGuardsTileOffset = LevelStartDirOffset + 1 + 4
	LevelGuardsDirOffset  = LevelGuardsTileOffset + RoomCount
	LevelGuardsXOffset    = LevelGuardsDirOffset + RoomCount
	LevelGuardsSeqLo      = LevelGuardsXOffset + RoomCount
	LevelGuardsSkill      = LevelGuardsSeqLo + RoomCount
	LevelGuardsSeqHi      = LevelGuardsSkill + RoomCount
	LevelGuardsColor      = LevelGuardsSeqHi + RoomCount
	LevelSize             = LevelGuardsColor + RoomCount + 18 // 2305
)

// Room link directions inside a roomlinks entry.
const (
	LinkLeft = iota
	LinkRight
	LinkUp
	LinkDown
)

// char_type
const (
	CharFrame     = 0
	CharX         = 1
	CharY         = 2
	CharDirection = 3
	CharCurrCol   = 4
	CharCurrRow   = 5
	CharAction    = 6
	CharFallX     = 7
	CharFallY     = 8
	CharRoom      = 9
	CharRepeat    = 10
	CharCharID    = 11
	CharSword     = 12
	CharAlive     = 13
	CharCurrSeq   = 14
	CharSize      = 16
)

// trob_type
const (
	TrobTilepos = 0
	TrobRoom    = 1
	TrobType    = 2
	TrobSize    = 3
	MaxTrobs    = 30
)

// mob_type
const (
	MobXh    = 0
	MobY     = 1
	MobRoom  = 2
	MobSpeed = 3
	MobType  = 4
	MobRow   = 5
	MobSize  = 6
	MaxMobs  = 14
)

// CollRowSize is the length of each collision row array.
const CollRowSize = 10

// Char is a decoded char_type.
type Char struct {
	Frame     byte
	X         byte
	Y         byte
	Direction int8
	CurrCol   int8
	CurrRow   int8
	Action    byte
	FallX     int8
	FallY     int8
	Room      byte
	Repeat    byte
	CharID    byte
	Sword     byte
	Alive     int8
	CurrSeq   uint16
}

// DecodeChar reads a char_type from b.
func DecodeChar(b []byte) Char {
	_ = b[CharSize-1]
	return Char{
		Frame:     b[CharFrame],
		X:         b[CharX],
		Y:         b[CharY],
		Direction: int8(b[CharDirection]),
		CurrCol:   int8(b[CharCurrCol]),
		CurrRow:   int8(b[CharCurrRow]),
		Action:    b[CharAction],
		FallX:     int8(b[CharFallX]),
		FallY:     int8(b[CharFallY]),
		Room:      b[CharRoom],
		Repeat:    b[CharRepeat],
		CharID:    b[CharCharID],
		Sword:     b[CharSword],
		Alive:     int8(b[CharAlive]),
		CurrSeq:   uint16(b[CharCurrSeq]) | uint16(b[CharCurrSeq+1])<<8,
	}
}

// Encode writes c into b.
func (c Char) Encode(b []byte) {
	_ = b[CharSize-1]
	b[CharFrame] = c.Frame
	b[CharX] = c.X
	b[CharY] = c.Y
	b[CharDirection] = byte(c.Direction)
	b[CharCurrCol] = byte(c.CurrCol)
	b[CharCurrRow] = byte(c.CurrRow)
	b[CharAction] = c.Action
	b[CharFallX] = byte(c.FallX)
	b[CharFallY] = byte(c.FallY)
	b[CharRoom] = c.Room
	b[CharRepeat] = c.Repeat
	b[CharCharID] = c.CharID
	b[CharSword] = c.Sword
	b[CharAlive] = byte(c.Alive)
	b[CharCurrSeq] = byte(c.CurrSeq)
	b[CharCurrSeq+1] = byte(c.CurrSeq >> 8)
}

// Trob is a decoded trob_type (stationary animated object).
type Trob struct {
	Tilepos byte
	Room    byte
	Type    int8
}

// Mob is a decoded mob_type (moving object, e.g. a falling loose tile).
type Mob struct {
	Xh    byte
	Y     byte
	Room  byte
	Speed int8
	Type  byte
	Row   byte
}

// TileIndex converts a room (1-based) and tile position into an index into
// the level fg/bg arrays. Out-of-range input means the frame data does not
// match the engine and is treated as fatal.
func TileIndex(room, tilepos int) int {
	if room < 1 || room > RoomCount || tilepos < 0 || tilepos >= TilesPerRoom {
		panic(fmt.Sprintf("engine: tile out of range: room %d tilepos %d", room, tilepos))
	}
	return (room-1)*TilesPerRoom + tilepos
}
