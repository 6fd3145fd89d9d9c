package testutil

import (
	"testing"

	"github.com/vk/rulemake/internal/app"
)

// RunHCL is a shorthand for running a single description file.
func RunHCL(t *testing.T, src string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTest(t, map[string]string{app.DefaultBuildFile: src}, args...)
}
