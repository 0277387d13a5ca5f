// Package state captures and restores the part of simulation memory that
// fully determines future ticks. A frame record is the ordered
// concatenation of the fields in a Table; its length never changes.
package state

import (
	"fmt"

	"github.com/vovakirdan/frameforge/internal/engine"
)

// Role says how a field participates in records and hashing.
type Role int

const (
	// PerTick fields change every tick and are copied verbatim but never hashed.
	PerTick Role = iota
	// Hashable fields feed the divergence hash in full.
	Hashable
	// HashableManual fields are aggregates: the whole fixed array is copied,
	// but only the live prefix named by a companion count is hashed.
	HashableManual
)

func (r Role) String() string {
	switch r {
	case PerTick:
		return "per-tick"
	case Hashable:
		return "hashable"
	case HashableManual:
		return "hashable-manual"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Entry pairs a field with its role when building a Table.
type Entry struct {
	Field engine.FieldID
	Role  Role
}

// Descriptor locates one field inside a record.
type Descriptor struct {
	Field  engine.FieldID
	Offset int
	Size   int
	Role   Role
}

// Table is an immutable ordered field table. Its record size is fixed when
// the table is built.
type Table struct {
	descs []Descriptor
	index map[engine.FieldID]int
	size  int
}

// NewTable lays out entries back to back in the given order.
// Panics on a duplicate field.
func NewTable(entries []Entry) *Table {
	t := &Table{
		descs: make([]Descriptor, 0, len(entries)),
		index: make(map[engine.FieldID]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := t.index[e.Field]; dup {
			panic(fmt.Sprintf("state: field %v listed twice", e.Field))
		}
		d := Descriptor{Field: e.Field, Offset: t.size, Size: e.Field.Size(), Role: e.Role}
		t.index[e.Field] = len(t.descs)
		t.descs = append(t.descs, d)
		t.size += d.Size
	}
	return t
}

// defaultEntries is the SDLPoP frame layout.
var defaultEntries = []Entry{
	{engine.FieldQuickControl, PerTick},
	{engine.FieldLevel, HashableManual},
	{engine.FieldCheckpoint, PerTick},
	{engine.FieldUpsideDown, PerTick},
	{engine.FieldDrawnRoom, Hashable},
	{engine.FieldCurrentLevel, PerTick},
	{engine.FieldNextLevel, PerTick},
	{engine.FieldMobsCount, HashableManual},
	{engine.FieldMobs, HashableManual},
	{engine.FieldTrobsCount, HashableManual},
	{engine.FieldTrobs, HashableManual},
	{engine.FieldLevelDoorOpen, Hashable},
	{engine.FieldKid, Hashable},
	{engine.FieldHitpCurr, PerTick},
	{engine.FieldHitpMax, PerTick},
	{engine.FieldHitpBegLev, PerTick},
	{engine.FieldGrabTimer, Hashable},
	{engine.FieldHoldingSword, Hashable},
	{engine.FieldUnitedWithShadow, Hashable},
	{engine.FieldHaveSword, Hashable},
	{engine.FieldKidSwordStrike, Hashable},
	{engine.FieldPickupObjType, Hashable},
	{engine.FieldOffguard, Hashable},
	{engine.FieldGuard, PerTick},
	{engine.FieldChar, PerTick},
	{engine.FieldOpp, PerTick},
	{engine.FieldGuardhpCurr, PerTick},
	{engine.FieldGuardhpMax, PerTick},
	{engine.FieldDemoIndex, PerTick},
	{engine.FieldDemoTime, PerTick},
	{engine.FieldCurrGuardColor, PerTick},
	{engine.FieldGuardNoticeTimer, Hashable},
	{engine.FieldGuardSkill, PerTick},
	{engine.FieldShadowInitialized, PerTick},
	{engine.FieldGuardRefrac, Hashable},
	{engine.FieldJustblocked, Hashable},
	{engine.FieldDroppedout, Hashable},
	{engine.FieldCurrRowCollRoom, PerTick},
	{engine.FieldCurrRowCollFlags, PerTick},
	{engine.FieldBelowRowCollRoom, PerTick},
	{engine.FieldBelowRowCollFlags, PerTick},
	{engine.FieldAboveRowCollRoom, PerTick},
	{engine.FieldAboveRowCollFlags, PerTick},
	{engine.FieldPrevCollisionRow, PerTick},
	{engine.FieldFlashColor, PerTick},
	{engine.FieldFlashTime, PerTick},
	{engine.FieldNeedLevel1Music, Hashable},
	{engine.FieldIsScreaming, Hashable},
	{engine.FieldIsFeatherFall, Hashable},
	{engine.FieldLastLooseSound, Hashable},
	{engine.FieldRandomSeed, PerTick},
	{engine.FieldRemMin, PerTick},
	{engine.FieldRemTick, PerTick},
	{engine.FieldControlX, PerTick},
	{engine.FieldControlY, PerTick},
	{engine.FieldControlShift, PerTick},
	{engine.FieldControlForward, PerTick},
	{engine.FieldControlBackward, PerTick},
	{engine.FieldControlUp, PerTick},
	{engine.FieldControlDown, PerTick},
	{engine.FieldControlShift2, PerTick},
	{engine.FieldCtrl1Forward, PerTick},
	{engine.FieldCtrl1Backward, PerTick},
	{engine.FieldCtrl1Up, PerTick},
	{engine.FieldCtrl1Down, PerTick},
	{engine.FieldCtrl1Shift2, PerTick},
	{engine.FieldExitRoomTimer, PerTick},
	{engine.FieldReplayCurrTick, PerTick},
	{engine.FieldIsGuardNotice, PerTick},
	{engine.FieldCanGuardSeeKid, PerTick},
}

var defaultTable = NewTable(defaultEntries)

// DefaultTable returns the SDLPoP frame layout.
func DefaultTable() *Table {
	return defaultTable
}

// RecordSize is the length of a record produced by DefaultTable.
var RecordSize = defaultTable.Size()

// Size returns the fixed record length.
func (t *Table) Size() int {
	return t.size
}

// Descriptors returns the table in record order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.descs))
	copy(out, t.descs)
	return out
}

// Lookup finds the descriptor of a field.
func (t *Table) Lookup(id engine.FieldID) (Descriptor, bool) {
	i, ok := t.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return t.descs[i], true
}
