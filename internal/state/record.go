package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/frameforge/internal/engine"
)

// Errors returned for malformed records.
var (
	ErrSizeMismatch  = errors.New("record size mismatch")
	ErrCorruptRecord = errors.New("corrupt record")
	ErrUnknownField  = errors.New("field not in table")
)

// Record is one serialized frame. It carries no header; its length is the
// table's record size.
type Record []byte

// Check validates a record's length against the table.
func (t *Table) Check(r Record) error {
	if len(r) != t.size {
		return fmt.Errorf("state: expected %d bytes, got %d: %w", t.size, len(r), ErrSizeMismatch)
	}
	return nil
}

// Field returns the bytes of one field inside r. The slice aliases r.
func (t *Table) Field(r Record, id engine.FieldID) ([]byte, error) {
	if err := t.Check(r); err != nil {
		return nil, err
	}
	d, ok := t.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("state: %v: %w", id, ErrUnknownField)
	}
	return r[d.Offset : d.Offset+d.Size], nil
}

// Seed reads random_seed out of a record.
func (t *Table) Seed(r Record) (uint32, error) {
	b, err := t.Field(r, engine.FieldRandomSeed)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Hash computes the divergence hash of a record: every Hashable field in
// full, plus the HashableManual fields where arrays contribute only their
// live prefix.
func (t *Table) Hash(r Record) (uint64, error) {
	if err := t.Check(r); err != nil {
		return 0, err
	}

	h := xxhash.New()
	for _, d := range t.descs {
		if d.Role == PerTick {
			continue
		}
		b := r[d.Offset : d.Offset+d.Size]
		if d.Role == HashableManual {
			n, err := t.livePrefix(r, d)
			if err != nil {
				return 0, err
			}
			b = b[:n]
		}
		_, _ = h.Write(b)
	}
	return h.Sum64(), nil
}

// livePrefix returns how many bytes of an aggregate field are meaningful.
func (t *Table) livePrefix(r Record, d Descriptor) (int, error) {
	var countField engine.FieldID
	var elem, capacity int
	switch d.Field {
	case engine.FieldMobs:
		countField, elem, capacity = engine.FieldMobsCount, engine.MobSize, engine.MaxMobs
	case engine.FieldTrobs:
		countField, elem, capacity = engine.FieldTrobsCount, engine.TrobSize, engine.MaxTrobs
	default:
		return d.Size, nil
	}

	cd, ok := t.Lookup(countField)
	if !ok {
		return d.Size, nil
	}
	n := int(int16(binary.LittleEndian.Uint16(r[cd.Offset:])))
	if n < 0 || n > capacity {
		return 0, fmt.Errorf("state: %v = %d outside [0,%d]: %w", countField, n, capacity, ErrCorruptRecord)
	}
	return n * elem, nil
}

// Diff lists the fields whose bytes differ between two records.
func (t *Table) Diff(a, b Record) ([]engine.FieldID, error) {
	if err := t.Check(a); err != nil {
		return nil, err
	}
	if err := t.Check(b); err != nil {
		return nil, err
	}

	var out []engine.FieldID
	for _, d := range t.descs {
		end := d.Offset + d.Size
		if string(a[d.Offset:end]) != string(b[d.Offset:end]) {
			out = append(out, d.Field)
		}
	}
	return out, nil
}

// ReadFile loads a record file and validates its size.
func (t *Table) ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("state: cannot read record %s: %w", path, err)
	}
	if err := t.Check(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Record(data), nil
}

// WriteFile stores a record as raw bytes.
func WriteFile(path string, r Record) error {
	if err := os.WriteFile(path, r, 0o644); err != nil {
		return fmt.Errorf("state: cannot write record %s: %w", path, err)
	}
	return nil
}
