package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/rng"
	"github.com/vovakirdan/frameforge/internal/storage"
)

var (
	flagLimit   uint64
	flagTrail   uint64
	flagNoTrail bool
	flagHistory bool
)

var rngcalcCmd = &cobra.Command{
	Use:   "rngcalc <initial> <target> <newTarget>",
	Short: "Count RNG steps and back-solve a seed",
	Long: `Count how many generator steps lead from initial to target, then
find the seed that reaches newTarget after the same number of steps.
Values may be decimal or 0x-prefixed hex.

The search gives up after --limit steps (default from config).

Examples:
  frameforge rngcalc 0x12345678 0x2A7F1E3C 0x00000001
  frameforge rngcalc 1 2 3 --limit 1000000 --no-trail
  frameforge rngcalc --history`,
	Args: func(cmd *cobra.Command, args []string) error {
		if flagHistory {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(3)(cmd, args)
	},
	RunE: runRNGCalc,
}

func init() {
	rngcalcCmd.Flags().Uint64Var(&flagLimit, "limit", 0, "Maximum forward steps (0 = config search.limit)")
	rngcalcCmd.Flags().Uint64Var(&flagTrail, "trail", 0, "Extra rewound seeds to list (0 = config search.trail)")
	rngcalcCmd.Flags().BoolVar(&flagNoTrail, "no-trail", false, "Do not list rewound seeds")
	rngcalcCmd.Flags().BoolVar(&flagHistory, "history", false, "Show recent stored searches")
}

func runRNGCalc(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if flagHistory {
		return showSearchHistory(out)
	}

	vals := make([]uint32, 3)
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", a, err)
		}
		vals[i] = uint32(v)
	}

	limit := flagLimit
	if limit == 0 {
		limit = cfg.Search.Limit
	}

	res, err := rng.Search(vals[0], vals[1], vals[2], limit)
	if errors.Is(err, rng.ErrLimitReached) {
		return fmt.Errorf("%w (raise --limit)", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Steps:       %s\n", humanize.Comma(int64(res.Steps)))
	fmt.Fprintf(out, "New initial: 0x%08X\n", res.NewInitial)

	if store, err := openTraceStore(); err != nil {
		logger.Warn("could not open trace database", "error", err)
	} else {
		if _, err := store.SaveSearch(storage.SearchEntry{
			Initial:    res.Initial,
			Target:     res.Target,
			NewTarget:  res.NewTarget,
			Steps:      res.Steps,
			NewInitial: res.NewInitial,
		}); err != nil {
			logger.Warn("could not store search", "error", err)
		}
		store.Close()
	}

	if flagNoTrail {
		return nil
	}
	extra := flagTrail
	if extra == 0 {
		extra = cfg.Search.Trail
	}
	trail, err := rng.Trail(res.NewTarget, res.Steps, extra)
	if errors.Is(err, rng.ErrTrailTooLong) {
		logger.Info("trail too long to list", "steps", humanize.Comma(int64(res.Steps)), "max", humanize.Comma(rng.MaxTrail))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	for _, e := range trail {
		fmt.Fprintln(out, e)
	}
	return nil
}

func showSearchHistory(out io.Writer) error {
	store, err := openTraceStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.RecentSearches(20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No searches recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-14s  %-10s  %s\n", "Initial", "Target", "NewTarget", "Steps", "NewInitial", "When")
	for _, e := range entries {
		fmt.Fprintf(out, "  0x%08X  0x%08X  0x%08X  %-14s  0x%08X  %s\n",
			e.Initial, e.Target, e.NewTarget, humanize.Comma(int64(e.Steps)), e.NewInitial, humanize.Time(e.CreatedAt))
	}
	return nil
}
