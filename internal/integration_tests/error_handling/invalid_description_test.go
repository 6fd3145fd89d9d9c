package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rulemake/internal/cli"
	"github.com/vk/rulemake/internal/config"
	"github.com/vk/rulemake/internal/rule"
	"github.com/vk/rulemake/internal/testutil"
)

// Test for: malformed HCL is rejected before anything runs.
func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	// --- Arrange ---
	hcl := `
rule "build" {
  print {
    message = "never"
`

	// --- Act ---
	res := testutil.RunHCL(t, hcl)

	// --- Assert ---
	testutil.AssertExitCode(t, res, cli.ExitLoad)
	assert.Empty(t, res.Stdout)
}

// Test for: an invalid rule shape aborts loading and names the rule and its
// location.
func TestErrorHandling_ClassificationError(t *testing.T) {
	// --- Arrange ---
	hcl := `
rule "ok" {
  print {
    message = "ok"
  }
}

rule "lopsided" {
  targets = ["a", "b", "c"]
  sources = ["x", "y"]
}
`

	// --- Act ---
	res := testutil.RunHCL(t, hcl, "ok")

	// --- Assert ---
	testutil.AssertExitCode(t, res, cli.ExitLoad)
	require.ErrorIs(t, res.Err, rule.ErrInvalidShape)
	assert.ErrorContains(t, res.Err, `rule "lopsided"`)
	assert.ErrorContains(t, res.Err, "build.hcl:8")
	assert.Empty(t, res.Stdout)
}

// Test for: only the recognized extension is loaded.
func TestErrorHandling_UnrecognizedExtension(t *testing.T) {
	// --- Act ---
	res := testutil.RunIntegrationTest(t, map[string]string{"build.py": "rule('a')"}, "-b", "build.py")

	// --- Assert ---
	testutil.AssertExitCode(t, res, cli.ExitUnsupportedExtension)
	assert.ErrorIs(t, res.Err, config.ErrUnsupportedExtension)
}

// Test for: a missing description file is a load error.
func TestErrorHandling_MissingDescription(t *testing.T) {
	// --- Act ---
	res := testutil.RunIntegrationTest(t, map[string]string{})

	// --- Assert ---
	testutil.AssertExitCode(t, res, cli.ExitLoad)
	assert.ErrorIs(t, res.Err, config.ErrNotFound)
}
