package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/storage"
)

var flagTraceLimit int

var tracesCmd = &cobra.Command{
	Use:   "traces",
	Short: "List stored traces",
	Long: `List the traces stored by 'frameforge play', newest first.
IDs may be abbreviated to any unique prefix.

Examples:
  frameforge traces
  frameforge traces show 3f2a
  frameforge traces delete 3f2a`,
	Args: cobra.NoArgs,
	RunE: runTraces,
}

var tracesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTracesShow,
}

var tracesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTracesDelete,
}

func init() {
	tracesCmd.Flags().IntVar(&flagTraceLimit, "limit", 20, "Maximum traces to list")
	tracesCmd.AddCommand(tracesShowCmd)
	tracesCmd.AddCommand(tracesDeleteCmd)
}

func runTraces(cmd *cobra.Command, _ []string) error {
	store, err := openTraceStore()
	if err != nil {
		return err
	}
	defer store.Close()

	traces, err := store.ListTraces(flagTraceLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(traces) == 0 {
		fmt.Fprintln(out, "No traces recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'frameforge play <save> <sequence>' to record one.")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-8s  %-24s  %-7s  %8s  %9s  %s\n", "ID", "Name", "Engine", "Frames", "Size", "Created")
	fmt.Fprintf(out, "  %-8s  %-24s  %-7s  %8s  %9s  %s\n", "--", "----", "------", "------", "----", "-------")

	for _, t := range traces {
		fmt.Fprintf(out, "  %-8s  %-24s  %-7s  %8s  %9s  %s\n",
			t.ID[:min(8, len(t.ID))], t.Name, t.Engine,
			humanize.Comma(int64(t.FrameCount)), humanize.Bytes(uint64(t.Bytes)), humanize.Time(t.CreatedAt))
	}
	return nil
}

// resolveTrace expands an ID prefix to a full trace ID.
func resolveTrace(store *storage.Store, prefix string) (string, error) {
	id, err := store.ResolveTraceID(prefix)
	if errors.Is(err, storage.ErrAmbiguousID) {
		return "", fmt.Errorf("trace id %q is ambiguous; use more characters", prefix)
	}
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("trace %q not found", prefix)
	}
	return id, nil
}

func runTracesShow(cmd *cobra.Command, args []string) error {
	store, err := openTraceStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveTrace(store, args[0])
	if err != nil {
		return err
	}
	t, err := store.GetTrace(id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("trace %q not found", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:         %s\n", t.ID)
	fmt.Fprintf(out, "Name:       %s\n", t.Name)
	fmt.Fprintf(out, "Engine:     %s\n", t.Engine)
	fmt.Fprintf(out, "Created:    %s (%s)\n", t.CreatedAt.Format("2006-01-02 15:04"), humanize.Time(t.CreatedAt))
	fmt.Fprintf(out, "Frames:     %s\n", humanize.Comma(int64(t.FrameCount)))
	fmt.Fprintf(out, "Size:       %s\n", humanize.Bytes(uint64(t.Bytes)))
	fmt.Fprintf(out, "Final hash: %016x\n", t.FinalHash)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Moves:")
	fmt.Fprintln(out, t.Moves)
	return nil
}

func runTracesDelete(cmd *cobra.Command, args []string) error {
	store, err := openTraceStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveTrace(store, args[0])
	if err != nil {
		return err
	}
	ok, err := store.DeleteTrace(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("trace %q not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted trace %s\n", id)
	return nil
}
