package state

import (
	"github.com/vovakirdan/frameforge/internal/engine"
)

// Codec snapshots and restores one binding through a Table.
type Codec struct {
	b     *engine.Binding
	table *Table
}

// New creates a codec. A nil table selects DefaultTable.
func New(b *engine.Binding, t *Table) *Codec {
	if t == nil {
		t = DefaultTable()
	}
	return &Codec{b: b, table: t}
}

// Table returns the codec's field table.
func (c *Codec) Table() *Table {
	return c.table
}

// Binding returns the binding the codec reads and writes.
func (c *Codec) Binding() *engine.Binding {
	return c.b
}

// Snapshot copies every table field out of the engine, in table order.
func (c *Codec) Snapshot() Record {
	r := make(Record, c.table.size)
	for _, d := range c.table.descs {
		copy(r[d.Offset:d.Offset+d.Size], c.b.Field(d.Field))
	}
	return r
}

// Restore writes a record back into the engine and rebuilds the caches
// that depend on it: the exit-door flag, the drawn room and its links.
// Nothing is written when the size is wrong.
//
// drawn_room is recorded but always re-derived from the kid's room, so
// Snapshot after Restore differs from the input in that field whenever the
// recorded view was elsewhere.
func (c *Codec) Restore(r Record) error {
	if err := c.table.Check(r); err != nil {
		return err
	}
	for _, d := range c.table.descs {
		copy(c.b.Field(d.Field), r[d.Offset:d.Offset+d.Size])
	}

	c.b.RefreshExitDoor()
	engine.SetWord(c.b, engine.FieldDifferentRoom, 1)
	room := uint16(engine.CharOf(c.b, engine.FieldKid).Room)
	engine.SetWord(c.b, engine.FieldDrawnRoom, room)
	engine.SetWord(c.b, engine.FieldNextRoom, room)
	c.b.LoadRoomLinks()
	return nil
}

// Hash returns the divergence hash of the live engine state.
// Panics if engine memory holds an impossible object count.
func (c *Codec) Hash() uint64 {
	h, err := c.table.Hash(c.Snapshot())
	if err != nil {
		panic(err)
	}
	return h
}
