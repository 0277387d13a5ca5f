package engine

import (
	"encoding/binary"
	"fmt"
)

// Word reads an unsigned 16-bit field.
func Word(e Engine, id FieldID) uint16 {
	return binary.LittleEndian.Uint16(e.Field(id))
}

// SetWord writes an unsigned 16-bit field.
func SetWord(e Engine, id FieldID, v uint16) {
	binary.LittleEndian.PutUint16(e.Field(id), v)
}

// Short reads a signed 16-bit field.
func Short(e Engine, id FieldID) int16 {
	return int16(Word(e, id))
}

// SetShort writes a signed 16-bit field.
func SetShort(e Engine, id FieldID, v int16) {
	SetWord(e, id, uint16(v))
}

// Dword reads an unsigned 32-bit field.
func Dword(e Engine, id FieldID) uint32 {
	return binary.LittleEndian.Uint32(e.Field(id))
}

// SetDword writes an unsigned 32-bit field.
func SetDword(e Engine, id FieldID, v uint32) {
	binary.LittleEndian.PutUint32(e.Field(id), v)
}

// Byte reads a one-byte field.
func Byte(e Engine, id FieldID) byte {
	return e.Field(id)[0]
}

// SetByte writes a one-byte field.
func SetByte(e Engine, id FieldID, v byte) {
	e.Field(id)[0] = v
}

// Sbyte reads a signed one-byte field.
func Sbyte(e Engine, id FieldID) int8 {
	return int8(Byte(e, id))
}

// SetSbyte writes a signed one-byte field.
func SetSbyte(e Engine, id FieldID, v int8) {
	SetByte(e, id, byte(v))
}

// CharOf decodes one of the char_type fields (Kid, Guard, Char, Opp).
func CharOf(e Engine, id FieldID) Char {
	return DecodeChar(e.Field(id))
}

// SetChar encodes c into one of the char_type fields.
func SetChar(e Engine, id FieldID, c Char) {
	c.Encode(e.Field(id))
}

// Trobs decodes the live prefix of the trobs array.
func Trobs(e Engine) []Trob {
	n := liveCount(Short(e, FieldTrobsCount), MaxTrobs)
	raw := e.Field(FieldTrobs)
	out := make([]Trob, n)
	for i := range out {
		b := raw[i*TrobSize:]
		out[i] = Trob{Tilepos: b[TrobTilepos], Room: b[TrobRoom], Type: int8(b[TrobType])}
	}
	return out
}

// Mobs decodes the live prefix of the mobs array.
func Mobs(e Engine) []Mob {
	n := liveCount(Short(e, FieldMobsCount), MaxMobs)
	raw := e.Field(FieldMobs)
	out := make([]Mob, n)
	for i := range out {
		b := raw[i*MobSize:]
		out[i] = Mob{
			Xh:    b[MobXh],
			Y:     b[MobY],
			Room:  b[MobRoom],
			Speed: int8(b[MobSpeed]),
			Type:  b[MobType],
			Row:   b[MobRow],
		}
	}
	return out
}

// LevelFg returns the foreground byte at tile index idx.
func LevelFg(e Engine, idx int) byte {
	return e.Field(FieldLevel)[LevelFgOffset+idx]
}

// LevelBg returns the background (modifier) byte at tile index idx.
func LevelBg(e Engine, idx int) byte {
	return e.Field(FieldLevel)[LevelBgOffset+idx]
}

// liveCount validates a stored element count against the fixed array
// capacity. A count outside [0, capacity] means corrupted frame data.
func liveCount(n int16, capacity int) int {
	if n < 0 || int(n) > capacity {
		panic(fmt.Sprintf("engine: object count %d outside [0,%d]", n, capacity))
	}
	return int(n)
}
