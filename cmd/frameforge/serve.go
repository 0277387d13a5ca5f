package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameforge/internal/config"
	"github.com/vovakirdan/frameforge/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeTrace  string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored traces over SSH",
	Long: `Start an SSH server that lets users browse stored traces and scrub
them remotely. Remote sessions are read-only: edits change only the
session's copy and quicksave is disabled.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key_path from config, or ~/.frameforge/host_key

Examples:
  frameforge serve                       # Listen on the configured address
  frameforge serve --ssh :2222           # Listen on port 2222
  frameforge serve --trace 3f2a          # Open one trace directly

Users can connect with:
  ssh localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().StringVar(&flagServeTrace, "trace", "", "Serve only this trace (ID or prefix)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := openTraceStore()
	if err != nil {
		return err
	}
	defer store.Close()

	traceID := flagServeTrace
	if traceID != "" {
		if traceID, err = resolveTrace(store, traceID); err != nil {
			return err
		}
	}

	hostKey := flagHostKey
	if hostKey == "" {
		hostKey = cfg.Server.HostKeyPath
	}
	hostKey, err = config.ExpandHome(hostKey)
	if err != nil {
		return err
	}

	srvCfg := tui.DefaultSSHServerConfig()
	if cfg.Server.Addr != "" {
		srvCfg.Address = cfg.Server.Addr
	}
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	srvCfg.HostKeyPath = hostKey
	srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	srvCfg.Store = store
	srvCfg.NewBinding = bindingFactory()
	srvCfg.TraceID = traceID
	srvCfg.Scrubber.TicksPerSecond = cfg.Playback.TicksPerSecond
	srvCfg.Logger = logger.WithPrefix("ssh")

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting frameforge SSH server on %s\n", server.Addr())
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
