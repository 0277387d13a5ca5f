package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/registry"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List engine backends",
	Long:  `Shows the engine backends compiled into frameforge.`,
	Args:  cobra.NoArgs,
	RunE:  runEngines,
}

func runEngines(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	backends := registry.List()

	if len(backends) == 0 {
		fmt.Fprintln(out, "No engine backends available.")
		return nil
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, b := range backends {
		if len(b.Name) > maxNameLen {
			maxNameLen = len(b.Name)
		}
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxNameLen, "Name", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxNameLen, "----", "-----")

	for _, b := range backends {
		marker := ""
		if b.Name == cfg.Engine.Backend {
			marker = "  (selected)"
		}
		fmt.Fprintf(out, "  %-*s  %s%s\n", maxNameLen, b.Name, b.Title, marker)
	}
	return nil
}
