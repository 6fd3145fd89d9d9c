package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vk/rulemake/internal/app"
	"github.com/vk/rulemake/internal/config"
)

const (
	cmdName     = "rulemake"
	cmdDesc     = `Declarative rule-based build tool.`
	cmdExamples = `  # build the default target of ./build.hcl
  rulemake

  # build two targets from another description file
  rulemake -b ci/build.hcl lint test

  # rebuild whenever the description changes
  rulemake --watch`
)

// Process exit codes.
const (
	ExitOK = iota
	ExitUsage
	ExitUnsupportedExtension
	ExitLoad
	ExitBuild
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks failures that should print usage and exit with ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute runs the command line. It returns nil on success and an *ExitError
// otherwise.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	slog.Debug("CLI parser started.", "args", args)

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	exitErr := toExitError(err)
	if exitErr.Code == ExitUsage {
		fmt.Fprintf(errW, "Error: %s\n\n%s", exitErr.Message, cmd.UsageString())
	}
	return exitErr
}

// toExitError maps an error from the command to its exit code.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := ExitBuild
	var usage *usageError
	switch {
	case errors.As(err, &usage):
		code = ExitUsage
	case errors.Is(err, config.ErrUnsupportedExtension):
		code = ExitUnsupportedExtension
	case errors.Is(err, app.ErrLoad):
		code = ExitLoad
	}
	return &ExitError{Code: code, Message: err.Error(), Err: err}
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then flags set on the command line. Visit only walks flags that were
// set, so unset flags never clobber file values.
func loadConfig(cmd *cobra.Command, ra *RootArgs) (*app.Config, error) {
	cfg := app.DefaultConfig()

	flags := cmd.Flags()
	if _, err := os.Stat(ra.ConfigFile); err == nil || flags.Changed("config") {
		if err := app.DecodeConfigFile(ra.ConfigFile, &cfg); err != nil {
			return nil, &ExitError{Code: ExitLoad, Message: err.Error(), Err: err}
		}
		slog.Debug("Config file applied.", "path", ra.ConfigFile)
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "build-file":
			cfg.BuildFile = ra.BuildFile
		case "debug-mode":
			cfg.Debug = ra.Debug
		case "strict":
			cfg.Strict = ra.Strict
		case "max-depth":
			cfg.MaxDepth = ra.MaxDepth
		case "log-format":
			cfg.LogFormat = ra.LogFormat
		}
	})
	cfg.Watch = ra.Watch

	c, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return c, nil
}
