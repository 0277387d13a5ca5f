package config

import (
	_ "embed"
)

//go:embed defaults/frameforge.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			Backend:    "refsim",
			Library:    "libsdlPopLib.so",
			Root:       ".",
			LevelsFile: "LEVELS.DAT",
		},
		Driver: DriverConfig{
			CopyprotLevel: 2,
		},
		Search: SearchConfig{
			Limit: 1 << 32,
			Trail: 10,
		},
		Playback: PlaybackConfig{
			TicksPerSecond: 12,
			Quicksave:      "frameforge.sav",
		},
		Storage: StorageConfig{
			DBPath: "~/.frameforge/traces.db",
		},
		Server: ServerConfig{
			Addr:        ":2323",
			HostKeyPath: ".ssh/frameforge_ed25519",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
