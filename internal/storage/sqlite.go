// Package storage provides SQLite-based persistence for playback traces
// and RNG search results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrAmbiguousID is returned when an ID prefix matches more than one trace.
var ErrAmbiguousID = errors.New("storage: ambiguous trace id")

// Store manages the SQLite database connection for trace persistence.
type Store struct {
	db *sql.DB
}

// Trace is a stored playback: the starting save, the move sequence and
// every generated frame record.
type Trace struct {
	ID         string
	Name       string
	Engine     string
	Save       []byte
	Moves      string
	FrameCount int
	FinalHash  uint64
	Bytes      int64 // total size of stored frame records
	CreatedAt  time.Time
	Frames     []TraceFrame // only populated by GetTrace
}

// TraceFrame is one stored frame of a trace.
type TraceFrame struct {
	Step   int
	Record []byte
	Hash   uint64
}

// SearchEntry is a stored RNG search result.
type SearchEntry struct {
	ID         int64
	Initial    uint32
	Target     uint32
	NewTarget  uint32
	Steps      uint64
	NewInitial uint32
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS traces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			engine TEXT NOT NULL,
			save BLOB NOT NULL,
			moves TEXT NOT NULL,
			frame_count INTEGER NOT NULL DEFAULT 0,
			final_hash INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_traces_created ON traces(created_at DESC);

		CREATE TABLE IF NOT EXISTS frames (
			trace_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			record BLOB NOT NULL,
			hash INTEGER NOT NULL,
			PRIMARY KEY (trace_id, step)
		);

		CREATE TABLE IF NOT EXISTS rng_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			initial INTEGER NOT NULL,
			target INTEGER NOT NULL,
			new_target INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			new_initial INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTrace stores a trace with all its frames in one transaction.
// A new ID is assigned when t.ID is empty. Returns the trace ID.
func (s *Store) SaveTrace(t Trace) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	frameCount := t.FrameCount
	if len(t.Frames) > 0 {
		frameCount = len(t.Frames)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO traces (id, name, engine, save, moves, frame_count, final_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Engine, t.Save, t.Moves, frameCount, int64(t.FinalHash),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save trace: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO frames (trace_id, step, record, hash) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range t.Frames {
		// SQLite integers are signed; hashes are stored bit-for-bit.
		if _, err := stmt.Exec(t.ID, f.Step, f.Record, int64(f.Hash)); err != nil {
			return "", fmt.Errorf("storage: cannot save frame %d: %w", f.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit trace: %w", err)
	}
	return t.ID, nil
}

// ListTraces retrieves the most recent traces without their frames.
func (s *Store) ListTraces(limit int) ([]Trace, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT t.id, t.name, t.engine, t.moves, t.frame_count, t.final_hash,
		        COALESCE((SELECT SUM(length(f.record)) FROM frames f WHERE f.trace_id = t.id), 0),
		        t.created_at
		 FROM traces t
		 ORDER BY t.created_at DESC, t.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query traces: %w", err)
	}
	defer rows.Close()

	var traces []Trace
	for rows.Next() {
		var t Trace
		var hash int64
		var createdAt any
		if err := rows.Scan(&t.ID, &t.Name, &t.Engine, &t.Moves, &t.FrameCount, &hash, &t.Bytes, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		t.FinalHash = uint64(hash)
		t.CreatedAt = parseTime(createdAt)
		traces = append(traces, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return traces, nil
}

// ResolveTraceID expands a unique ID prefix to the full trace ID.
// Returns "" if nothing matches.
func (s *Store) ResolveTraceID(prefix string) (string, error) {
	rows, err := s.db.Query("SELECT id FROM traces WHERE substr(id, 1, ?) = ? LIMIT 2", len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("storage: cannot resolve trace id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
	}
}

// GetTrace retrieves a trace and its frames in step order.
// Returns nil if the trace does not exist.
func (s *Store) GetTrace(id string) (*Trace, error) {
	var t Trace
	var hash int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, name, engine, save, moves, frame_count, final_hash, created_at
		 FROM traces
		 WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.Engine, &t.Save, &t.Moves, &t.FrameCount, &hash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query trace: %w", err)
	}
	t.FinalHash = uint64(hash)
	t.CreatedAt = parseTime(createdAt)

	rows, err := s.db.Query(
		"SELECT step, record, hash FROM frames WHERE trace_id = ? ORDER BY step",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f TraceFrame
		var fh int64
		if err := rows.Scan(&f.Step, &f.Record, &fh); err != nil {
			return nil, fmt.Errorf("storage: cannot scan frame: %w", err)
		}
		f.Hash = uint64(fh)
		t.Bytes += int64(len(f.Record))
		t.Frames = append(t.Frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return &t, nil
}

// DeleteTrace removes a trace and its frames. Reports whether it existed.
func (s *Store) DeleteTrace(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM frames WHERE trace_id = ?", id); err != nil {
		return false, fmt.Errorf("storage: cannot delete frames: %w", err)
	}
	res, err := tx.Exec("DELETE FROM traces WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete trace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return n > 0, nil
}

// SaveSearch records an RNG search result.
// Returns the ID of the inserted record.
func (s *Store) SaveSearch(e SearchEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO rng_searches (initial, target, new_target, steps, new_initial)
		 VALUES (?, ?, ?, ?, ?)`,
		int64(e.Initial), int64(e.Target), int64(e.NewTarget), int64(e.Steps), int64(e.NewInitial),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save search: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSearches retrieves the most recent RNG search results.
func (s *Store) RecentSearches(limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, initial, target, new_target, steps, new_initial, created_at
		 FROM rng_searches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query searches: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var e SearchEntry
		var initial, target, newTarget, steps, newInitial int64
		var createdAt any
		if err := rows.Scan(&e.ID, &initial, &target, &newTarget, &steps, &newInitial, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Initial = uint32(initial)
		e.Target = uint32(target)
		e.NewTarget = uint32(newTarget)
		e.Steps = uint64(steps)
		e.NewInitial = uint32(newInitial)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
