package testutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rulemake/internal/app"
	"github.com/vk/rulemake/internal/cli"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir    string
	Stdout string
	Stderr string
	Err    error
	// Code is the process exit code the run would produce.
	Code int
}

// RunIntegrationTest runs the command line with a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, args...)
}

// RunIntegrationTestWithContext writes files into a temp dir and runs the
// command line against it. The description file defaults to build.hcl in
// that dir and the config file to .rulemake.toml when the test provides one;
// explicit flags in args still win because later flags override earlier ones.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	full := []string{"--build-file", filepath.Join(dir, app.DefaultBuildFile)}
	if _, ok := files[app.DefaultConfigFile]; ok {
		full = append(full, "--config", filepath.Join(dir, app.DefaultConfigFile))
	}
	full = append(full, args...)

	stdout, stderr := &SafeBuffer{}, &SafeBuffer{}
	err := cli.Execute(ctx, full, stdout, stderr)

	if os.Getenv("RULEMAKE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), stderr.String())
	}

	res := &HarnessResult{
		Dir:    dir,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		res.Code = exitErr.Code
	}
	return res
}
