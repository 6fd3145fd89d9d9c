package app

import (
	"io"
	"log/slog"

	"github.com/vk/rulemake/internal/log"
)

// newLogger creates a logger for one App. It does not set the global logger,
// allowing for isolated logger instances.
func newLogger(cfg *Config, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler, err := log.NewHandler(w, level, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}
