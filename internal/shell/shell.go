package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/vk/rulemake/internal/ctxlog"
)

var (
	// ErrCommandExecution is returned when a checked command exits non-zero.
	ErrCommandExecution = errors.New("command failed")

	// ErrEmptyCommand is returned when a command has no program to run.
	ErrEmptyCommand = errors.New("empty command")
)

// Command describes one external process.
type Command struct {
	// Args is the program followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Env holds variables added on top of the runner's base environment.
	Env map[string]string
	// CheckExit turns a non-zero exit status into an error.
	CheckExit bool
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Result reports how a command finished.
type Result struct {
	ExitCode int
}

// Runner starts commands with shared output streams and base environment.
type Runner struct {
	stdout  io.Writer
	stderr  io.Writer
	baseEnv []string
}

// NewRunner creates a Runner. baseEnv is usually os.Environ().
func NewRunner(stdout, stderr io.Writer, baseEnv []string) *Runner {
	return &Runner{
		stdout:  stdout,
		stderr:  stderr,
		baseEnv: baseEnv,
	}
}

// Split breaks a command line into words the way a POSIX shell would,
// honoring quotes and backslash escapes. Variables are not expanded.
func Split(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	return args, nil
}

// Run starts cmd and waits for it. Failing to start the program is always an
// error, as is a context cancelled while the program runs. A non-zero exit is
// an error only when cmd.CheckExit is set.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Args) == 0 || cmd.Args[0] == "" {
		return nil, ErrEmptyCommand
	}
	logger := ctxlog.FromContext(ctx).With("command", cmd.String())
	logger.Debug("Running command.", "dir", cmd.Dir)

	//nolint:gosec // G204: commands come from the user's own description file.
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = r.environ(cmd.Env)
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	err := c.Run()
	if err == nil {
		return &Result{}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("start %s: %w", cmd.Args[0], err)
	}

	res := &Result{ExitCode: exitErr.ExitCode()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", cmd.Args[0], ctxErr)
	}
	if cmd.CheckExit {
		return res, fmt.Errorf("%w: %s: exit status %d", ErrCommandExecution, cmd.Args[0], res.ExitCode)
	}
	logger.Warn("Command exited with non-zero status.", "exit_code", res.ExitCode)
	return res, nil
}

// environ merges extra variables over the base environment. Extra keys are
// appended in sorted order so the result is deterministic.
func (r *Runner) environ(extra map[string]string) []string {
	if len(extra) == 0 {
		return r.baseEnv
	}

	env := make([]string, 0, len(r.baseEnv)+len(extra))
	for _, kv := range r.baseEnv {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
