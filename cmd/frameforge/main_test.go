package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/config"
	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/engine/refsim"
	"github.com/vovakirdan/frameforge/internal/rng"
	"github.com/vovakirdan/frameforge/internal/state"
)

// setupTest points the global config at a temp trace database and resets
// command flags.
func setupTest(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "traces.db")
	logger = log.New(io.Discard)

	flagReproduce, flagNoStore, flagName = true, false, ""
	flagBindings = 2
	flagLimit, flagTrail, flagNoTrail, flagHistory = 0, 0, false, false
}

func writeInputs(t *testing.T, moves string) (savePath, seqPath string) {
	t.Helper()
	dir := t.TempDir()
	savePath = filepath.Join(dir, "start.sav")
	seqPath = filepath.Join(dir, "moves.txt")

	b := engine.NewBinding("refsim", refsim.New(0xFACE))
	if err := state.WriteFile(savePath, state.New(b, nil).Snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(seqPath, []byte(moves), 0o644); err != nil {
		t.Fatal(err)
	}
	return savePath, seqPath
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestPlayReproduceStoresTrace(t *testing.T) {
	setupTest(t)
	save, seq := writeInputs(t, "R R R .")

	cmd, out := newTestCmd()
	if err := runPlay(cmd, []string{save, seq}); err != nil {
		t.Fatalf("runPlay: %v", err)
	}
	if n := strings.Count(out.String(), "Current Step #:"); n != 4 {
		t.Errorf("printed %d frame reports, want 4", n)
	}
	if !strings.Contains(out.String(), "Current Step #: 3 / 3") {
		t.Errorf("last frame report missing:\n%s", out.String())
	}

	cmd, out = newTestCmd()
	if err := runTraces(cmd, nil); err != nil {
		t.Fatalf("runTraces: %v", err)
	}
	if !strings.Contains(out.String(), "moves") {
		t.Errorf("stored trace not listed:\n%s", out.String())
	}
}

func TestPlayErrorsAreReturned(t *testing.T) {
	setupTest(t)
	save, seq := writeInputs(t, "R bogus R .")

	cmd, _ := newTestCmd()
	if err := runPlay(cmd, []string{filepath.Join(t.TempDir(), "missing.sav"), seq}); err == nil {
		t.Error("missing save accepted")
	}
	if err := runPlay(cmd, []string{save, seq}); err == nil {
		t.Error("undecodable move accepted")
	}

	// Neither failed run reaches the trace store.
	cmd, out := newTestCmd()
	if err := runTraces(cmd, nil); err != nil {
		t.Fatalf("runTraces: %v", err)
	}
	if !strings.Contains(out.String(), "No traces recorded yet.") {
		t.Errorf("failed runs stored a trace:\n%s", out.String())
	}
}

func TestVerifyCommand(t *testing.T) {
	setupTest(t)
	save, seq := writeInputs(t, "R R L L R .")

	cmd, out := newTestCmd()
	if err := runVerify(cmd, []string{save, seq}); err != nil {
		t.Fatalf("runVerify: %v", err)
	}
	if !strings.Contains(out.String(), "deterministic") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	flagBindings = 1
	err := runVerify(cmd, []string{save, seq})
	if err == nil || errors.Is(err, errDiverged) {
		t.Errorf("--bindings 1: error = %v", err)
	}
}

func TestTracesUnknownID(t *testing.T) {
	setupTest(t)

	cmd, _ := newTestCmd()
	err := runTracesShow(cmd, []string{"zzzz"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("show: error = %v, want not found", err)
	}
	err = runTracesDelete(cmd, []string{"zzzz"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("delete: error = %v, want not found", err)
	}
}

func TestRNGCalcSkipsLongTrail(t *testing.T) {
	setupTest(t)
	target := rng.Advance(1, rng.MaxTrail+5)
	flagLimit = 2 * rng.MaxTrail

	cmd, out := newTestCmd()
	args := []string{"1", fmt.Sprintf("0x%X", target), "7"}
	if err := runRNGCalc(cmd, args); err != nil {
		t.Fatalf("runRNGCalc: %v", err)
	}
	if !strings.Contains(out.String(), "Steps:       1,048,581") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "*") {
		t.Errorf("trail listed past the cap:\n%s", out.String())
	}
}

func TestRNGCalcInvalidValue(t *testing.T) {
	setupTest(t)

	cmd, _ := newTestCmd()
	if err := runRNGCalc(cmd, []string{"1", "nope", "3"}); err == nil {
		t.Error("invalid value accepted")
	}
}
