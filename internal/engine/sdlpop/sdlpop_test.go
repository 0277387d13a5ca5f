//go:build darwin || linux

package sdlpop

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/registry"
)

// testOptions returns options for the native library named by
// FRAMEFORGE_LIBRARY, skipping the test when it is not available.
func testOptions(t *testing.T) registry.Options {
	t.Helper()
	lib := os.Getenv("FRAMEFORGE_LIBRARY")
	if lib == "" {
		t.Skip("FRAMEFORGE_LIBRARY not set")
	}
	if _, err := os.Stat(lib); err != nil {
		t.Skipf("engine library unavailable: %v", err)
	}
	return registry.Options{
		Library:    lib,
		Root:       os.Getenv("SDLPOP_ROOT"),
		LevelsFile: os.Getenv("SDLPOP_LEVELS_FILE"),
	}
}

func TestNewWithoutLibrary(t *testing.T) {
	if _, err := New(registry.Options{}); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("New() error = %v, want ErrNoLibrary", err)
	}
}

func TestNewMissingLibrary(t *testing.T) {
	_, err := New(registry.Options{Library: filepath.Join(t.TempDir(), "missing.so")})
	if err == nil {
		t.Error("Expected error for missing library file")
	}
}

func TestNewNotALibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.so")
	if err := os.WriteFile(path, []byte("not an elf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(registry.Options{Library: path}); err == nil {
		t.Error("Expected error loading a non-library file")
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists("sdlpop") {
		t.Error("sdlpop backend not registered")
	}
}

func TestInitialState(t *testing.T) {
	e, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer e.Close()

	if got := engine.Word(e, engine.FieldCurrentLevel); got != 1 {
		t.Errorf("current_level = %d, want 1", got)
	}
	if got := engine.Short(e, engine.FieldRemMin); got != startMinutes {
		t.Errorf("rem_min = %d, want %d", got, startMinutes)
	}
	if got := string(e.Field(engine.FieldQuickControl)[:8]); got != "........" {
		t.Errorf("quick_control = %q", got)
	}
	for _, id := range engine.AllFields() {
		if len(e.Field(id)) != id.Size() {
			t.Errorf("field %v has %d bytes, want %d", id, len(e.Field(id)), id.Size())
		}
	}
}

func TestInstancesIsolated(t *testing.T) {
	opts := testOptions(t)
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer a.Close()
	b, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer b.Close()

	a.SetSeed(0x11111111)
	b.SetSeed(0x22222222)
	if engine.Dword(a, engine.FieldRandomSeed) != 0x11111111 {
		t.Error("seed of first instance overwritten by second")
	}
}

func TestDeterministicTicks(t *testing.T) {
	opts := testOptions(t)
	opts.Seed = 0x12345678

	run := func() []byte {
		e, err := New(opts)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		defer e.Close()
		for _, tok := range []string{".", "R", "R", "UR", "S", "."} {
			e.ApplyInput(move.MustDecode(tok))
			e.Timers()
			e.PlayFrame()
		}
		return bytes.Clone(e.Field(engine.FieldKid))
	}

	if a, b := run(), run(); !bytes.Equal(a, b) {
		t.Errorf("Kid state differs between identical runs: %x vs %x", a, b)
	}
}
