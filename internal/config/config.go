// Package config provides YAML-based configuration loading with
// environment overrides for the frameforge tools.
package config

// Config is the complete tool configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Driver   DriverConfig   `yaml:"driver"`
	Search   SearchConfig   `yaml:"search"`
	Playback PlaybackConfig `yaml:"playback"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// EngineConfig selects and locates the simulation backend.
type EngineConfig struct {
	Backend    string `yaml:"backend" env:"FRAMEFORGE_ENGINE"`
	Library    string `yaml:"library" env:"FRAMEFORGE_LIBRARY"`
	Root       string `yaml:"root" env:"SDLPOP_ROOT"`
	LevelsFile string `yaml:"levels_file" env:"SDLPOP_LEVELS_FILE"`
	Seed       uint32 `yaml:"seed"` // initial seed for backends started from scratch
}

// DriverConfig tunes the frame advance driver.
type DriverConfig struct {
	CopyprotLevel uint16 `yaml:"copyprot_level"`
}

// SearchConfig bounds the RNG search tool.
type SearchConfig struct {
	Limit uint64 `yaml:"limit"` // maximum forward steps; must be > 0
	Trail uint64 `yaml:"trail"` // extra rewound seeds printed past the match
}

// PlaybackConfig tunes the scrubber.
type PlaybackConfig struct {
	TicksPerSecond int    `yaml:"ticks_per_second"` // autoplay speed
	Quicksave      string `yaml:"quicksave"`
}

// StorageConfig locates the trace database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"FRAMEFORGE_DB"`
}

// ServerConfig configures the SSH scrubber server.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	HostKeyPath string `yaml:"host_key_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"FRAMEFORGE_LOG_LEVEL"`
}
