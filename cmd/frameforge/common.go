package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/playback"
	"github.com/vovakirdan/frameforge/internal/registry"
	"github.com/vovakirdan/frameforge/internal/state"
	"github.com/vovakirdan/frameforge/internal/storage"
)

// bindingFactory brings up isolated bindings of the configured backend.
func bindingFactory() playback.BindingFactory {
	backend := cfg.Engine.Backend
	opts := registry.Options{
		Seed:       cfg.Engine.Seed,
		Library:    cfg.Engine.Library,
		Root:       cfg.Engine.Root,
		LevelsFile: cfg.Engine.LevelsFile,
		Logger:     logger.WithPrefix(backend),
	}
	return func() (*engine.Binding, error) {
		return registry.Create(backend, opts)
	}
}

// loadInputs reads the save record and the move sequence.
func loadInputs(savePath, seqPath string) (state.Record, move.Sequence, error) {
	save, err := state.DefaultTable().ReadFile(savePath)
	if err != nil {
		return nil, move.Sequence{}, err
	}
	seq, err := move.LoadSequence(seqPath)
	if err != nil {
		return nil, move.Sequence{}, err
	}
	return save, seq, nil
}

// playbackOptions returns generation options with progress logging.
func playbackOptions() playback.Options {
	return playback.Options{
		CopyprotLevel: cfg.Driver.CopyprotLevel,
		Logger:        logger,
		Progress: func(done, total int) {
			if done%1000 == 0 || done == total {
				logger.Debug("generating frames", "done", humanize.Comma(int64(done)), "total", humanize.Comma(int64(total)))
			}
		},
	}
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openTraceStore() (*storage.Store, error) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}
	return store, nil
}
