package testutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// AssertOutputLines checks that stdout holds exactly the given lines, in order.
func AssertOutputLines(t *testing.T, result *HarnessResult, lines ...string) {
	t.Helper()

	got := strings.Split(strings.TrimSuffix(result.Stdout, "\n"), "\n")
	if result.Stdout == "" {
		got = nil
	}
	if diff := cmp.Diff(lines, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s\nstderr:\n%s", diff, result.Stderr)
	}
}

// AssertExitCode checks the exit code the run would produce.
func AssertExitCode(t *testing.T, result *HarnessResult, code int) {
	t.Helper()
	require.Equal(t, code, result.Code, "err: %v\nstderr:\n%s", result.Err, result.Stderr)
}
