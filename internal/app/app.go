package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/vk/rulemake/internal/executor"
	"github.com/vk/rulemake/internal/hcl"
)

var (
	// ErrLoad wraps every failure to turn the description file into a registry.
	ErrLoad = errors.New("failed to load description")

	// ErrUnknownTarget is returned in strict mode for a requested target that
	// no rule matches.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrLocked is returned when another run holds the lock file.
	ErrLocked = errors.New("another run holds the lock")
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
	loader *hcl.Loader
}

// NewApp is the constructor for the main application. Build output goes to
// outW; logs and command stderr go to errW.
func NewApp(outW, errW io.Writer, cfg *Config, opts ...hcl.Option) (*App, error) {
	logger, err := newLogger(cfg, errW)
	if err != nil {
		return nil, err
	}
	logger.Debug("Logger configured successfully.")

	opts = append([]hcl.Option{hcl.WithOutput(outW), hcl.WithStderr(errW)}, opts...)
	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
		loader: hcl.NewLoader(opts...),
	}, nil
}

func (a *App) executorOptions() []executor.Option {
	policy := executor.Lenient
	if a.config.Strict {
		policy = executor.Strict
	}
	return []executor.Option{
		executor.WithPolicy(policy),
		executor.WithMaxDepth(a.config.MaxDepth),
	}
}
