// frameforge replays recorded move sequences on a frame-stepped platformer
// simulation and lets you scrub, inspect and edit every generated frame.
//
// Usage:
//
//	frameforge play <save> <sequence>            - Generate frames and open the scrubber
//	frameforge verify <save> <sequence>          - Check determinism across bindings
//	frameforge rngcalc <initial> <target> <new>  - Back-solve an RNG seed
//	frameforge traces                            - List stored traces
//	frameforge serve                             - Serve stored traces over SSH
//	frameforge engines                           - List engine backends
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.frameforge/config.yaml, ./configs/frameforge.yaml)
//	--log-level <level> - debug, info, warn, error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/config"

	// Import backends to register them
	_ "github.com/vovakirdan/frameforge/internal/engine/refsim"
	_ "github.com/vovakirdan/frameforge/internal/engine/sdlpop"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagEngine   string

	cfg    config.Config
	logger *log.Logger
)

// errDiverged makes verify exit with status 2.
var errDiverged = errors.New("bindings diverged")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errDiverged) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "frameforge",
	Short: "frameforge - frame-by-frame replay and inspection",
	Long: `frameforge loads a save, plays a move sequence on it one tick at a time
and records every frame, so the run can be scrubbed, inspected, edited,
stored and checked for determinism.

Available commands:
  play     - Generate frames and open the scrubber
  verify   - Replay on several isolated bindings and compare
  rngcalc  - Count RNG steps and back-solve a seed
  traces   - List, show and delete stored traces
  serve    - Serve stored traces over SSH
  engines  - List engine backends

Examples:
  frameforge play lvl1.sav lvl1.txt
  frameforge play lvl1.sav lvl1.txt --reproduce > frames.txt
  frameforge verify lvl1.sav lvl1.txt --bindings 4
  frameforge rngcalc 0x12345678 0x2A7F1E3C 0x00000001
  frameforge traces show 3f2a`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "Engine backend (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(rngcalcCmd)
	rootCmd.AddCommand(tracesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enginesCmd)
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagEngine != "" {
		cfg.Engine.Backend = flagEngine
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "frameforge",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	logger.SetLevel(level)
	return nil
}
