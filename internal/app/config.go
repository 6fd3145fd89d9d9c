package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/vk/rulemake/internal/executor"
	"github.com/vk/rulemake/internal/log"
)

const (
	DefaultBuildFile  = "build.hcl"
	DefaultConfigFile = ".rulemake.toml"
	DefaultLockFile   = ".rulemake.lock"
)

// ErrInvalidConfig is returned for settings that fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildFile string `toml:"build_file"`
	Debug     bool   `toml:"debug"`
	Strict    bool   `toml:"strict"`
	MaxDepth  int    `toml:"max_depth"`
	// LockFile is resolved against the description file's directory. Empty
	// disables locking.
	LockFile  string `toml:"lock_file"`
	LogFormat string `toml:"log_format"`

	Watch bool `toml:"-"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		BuildFile: DefaultBuildFile,
		MaxDepth:  executor.DefaultMaxDepth,
		LockFile:  DefaultLockFile,
		LogFormat: string(log.FormatText),
	}
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildFile == "" {
		return nil, fmt.Errorf("%w: build file cannot be empty", ErrInvalidConfig)
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidConfig, cfg.MaxDepth)
	}
	if !slices.Contains(log.AllFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, cfg.LogFormat)
	}
	return &cfg, nil
}

// DecodeConfigFile overlays the TOML file at path onto cfg. Keys the file
// does not set keep their current values; unknown keys are an error.
func DecodeConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("parsing TOML %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, path, undecoded[0].String())
	}
	return nil
}
