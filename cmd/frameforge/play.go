package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/frameforge/internal/playback"
	"github.com/vovakirdan/frameforge/internal/platform/tui"
	"github.com/vovakirdan/frameforge/internal/state"
)

var (
	flagReproduce bool
	flagName      string
	flagNoStore   bool
)

var playCmd = &cobra.Command{
	Use:   "play <save> <sequence>",
	Short: "Generate frames and open the scrubber",
	Long: `Load the save, play every move of the sequence and open the scrubber
on the generated frames. The run is stored in the trace database.

Controls:
  n/m        - Previous/next frame
  h/j        - 10 frames back/forward
  y/u        - 100 frames back/forward
  Home/End   - First/last frame
  Space      - Play/pause
  s          - Quicksave current frame
  g/w/e/l/1  - Edit seed, HP, max HP, loose sound, level 1 music
  q/Ctrl+C   - Quit

When stdout is not a terminal, or with --reproduce, every frame report is
printed instead.

Examples:
  frameforge play lvl1.sav lvl1.txt
  frameforge play lvl1.sav lvl1.txt --engine sdlpop
  frameforge play lvl1.sav lvl1.txt --reproduce --no-store`,
	Args: cobra.ExactArgs(2),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagReproduce, "reproduce", false, "Print every frame instead of opening the scrubber")
	playCmd.Flags().StringVar(&flagName, "name", "", "Trace name (default: sequence file name)")
	playCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not store the trace")
}

func runPlay(cmd *cobra.Command, args []string) error {
	savePath, seqPath := args[0], args[1]
	save, seq, err := loadInputs(savePath, seqPath)
	if err != nil {
		return err
	}

	newBinding := bindingFactory()
	rec, err := newBinding()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("generating frames", "engine", cfg.Engine.Backend, "moves", seq.Len())
	tl, proto, err := playback.Record(ctx, rec, save, seq, playbackOptions())
	rec.Close()
	if err != nil {
		return err
	}
	if proto.Drifted() {
		logger.Debug("stabilization tick consumed the generator",
			"before", fmt.Sprintf("0x%X", proto.SeedBefore),
			"stabilized", fmt.Sprintf("0x%X", proto.SeedStabilized))
	}

	name := flagName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(seqPath), filepath.Ext(seqPath))
	}
	if !flagNoStore {
		storeTrace(name, save, tl)
	}

	session, err := playback.OpenSession(tl, newBinding)
	if err != nil {
		return err
	}
	defer session.Close()

	if flagReproduce || !term.IsTerminal(int(os.Stdout.Fd())) {
		return reproduce(cmd.OutOrStdout(), session)
	}

	opts := tui.Options{
		Title:          name,
		TicksPerSecond: cfg.Playback.TicksPerSecond,
		Quicksave:      cfg.Playback.Quicksave,
	}
	if err := tui.Run(session, opts); err != nil {
		return fmt.Errorf("running scrubber: %w", err)
	}
	return nil
}

// storeTrace saves the generated run. Failures are reported but do not stop
// playback.
func storeTrace(name string, save state.Record, tl *playback.Timeline) {
	store, err := openTraceStore()
	if err != nil {
		logger.Warn("could not open trace database", "error", err)
		return
	}
	defer store.Close()

	id, err := store.SaveTrace(playback.ToTrace(name, cfg.Engine.Backend, save, tl))
	if err != nil {
		logger.Warn("could not store trace", "error", err)
		return
	}
	logger.Info("trace stored", "id", id, "frames", tl.Len())
}

// reproduce writes the report of every frame in order.
func reproduce(out io.Writer, s *playback.Session) error {
	w := bufio.NewWriter(out)
	for {
		if err := s.Info().Report(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
		if s.Cursor().AtEnd() {
			break
		}
		if err := s.Move(playback.StepSmall); err != nil {
			return err
		}
	}
	return w.Flush()
}
