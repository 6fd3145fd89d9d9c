package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/rulemake/internal/cli"
)

// main is the entrypoint for the rulemake application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	os.Exit(exitCode(os.Stderr, err))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	return cli.Execute(ctx, args, outW, errW)
}

// exitCode reports err on errW and returns the process exit code for it.
// Usage errors have already been printed by the cli package.
func exitCode(errW io.Writer, err error) int {
	if err == nil {
		return cli.ExitOK
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code != cli.ExitUsage {
			fmt.Fprintln(errW, exitErr.Message)
		}
		return exitErr.Code
	}

	fmt.Fprintln(errW, err)
	return cli.ExitBuild
}
