package integration_tests

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rulemake/internal/testutil"
)

// Test for: step expressions see the rule, the environment and the
// function set.
func TestHCLFeatures_Expressions(t *testing.T) {
	// --- Arrange ---
	t.Setenv("RULEMAKE_GREETING", "Hello")
	hcl := `
rule "build" {
  targets = ["bin/app"]
  sources = ["gen", "vet"]

  print {
    message = upper(rule.name)
  }
  print {
    message = "${env.RULEMAKE_GREETING}, ${lower("WORLD")}"
  }
  print {
    message = format("%s has %d sources", rule.targets[0], length(rule.sources))
  }
  print {
    message = replace(join(",", concat(rule.sources, ["lint"])), ",", " ")
  }
  print {
    message = trimspace("  padded  ")
  }
  print {
    message = split("/", rule.targets[0])[1]
  }
}
`

	// --- Act ---
	res := testutil.RunHCL(t, hcl)

	// --- Assert ---
	require.NoError(t, res.Err, res.Stderr)
	testutil.AssertOutputLines(t, res,
		"BUILD",
		"Hello, world",
		"bin/app has 2 sources",
		"gen vet lint",
		"padded",
		"app",
	)
}

// Test for: checksum() digests a file relative to the description file.
func TestHCLFeatures_Checksum(t *testing.T) {
	// --- Arrange ---
	content := "checksum me\n"
	files := map[string]string{
		"build.hcl": `
rule "build" {
  print {
    message = checksum("input.txt")
  }
}
`,
		"input.txt": content,
	}
	sum := sha256.Sum256([]byte(content))

	// --- Act ---
	res := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, res.Err, res.Stderr)
	testutil.AssertOutputLines(t, res, hex.EncodeToString(sum[:]))
}

// Test for: the description file can choose its own default target.
func TestHCLFeatures_DefaultTarget(t *testing.T) {
	// --- Arrange ---
	hcl := `
default = "release"

rule "build" {
  print {
    message = "build"
  }
}

rule "release" {
  print {
    message = "release"
  }
}
`

	// --- Act ---
	res := testutil.RunHCL(t, hcl)

	// --- Assert ---
	require.NoError(t, res.Err)
	testutil.AssertOutputLines(t, res, "release")
}
