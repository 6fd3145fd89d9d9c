package hcl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rulemake/internal/config"
	"github.com/vk/rulemake/internal/rule"
	"github.com/vk/rulemake/internal/shell"
)

// writeFile writes a description into a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestLoader(out *bytes.Buffer, env ...string) *Loader {
	return NewLoader(WithOutput(out), WithStderr(out), WithEnviron(env))
}

func loadModel(t *testing.T, src string, env ...string) (*config.Model, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	model, err := newTestLoader(&out, env...).Load(context.Background(), writeFile(t, "build.hcl", src))
	require.NoError(t, err)
	return model, &out
}

func invoke(t *testing.T, def *config.RuleDefinition, args ...string) {
	t.Helper()
	require.NoError(t, def.Action.Invoke(context.Background(), args...))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "build.yaml", "")
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorIs(t, err, config.ErrUnsupportedExtension)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "build.hcl"))
		assert.ErrorIs(t, err, config.ErrNotFound)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `rule "a" {`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("unknown block", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `step "a" {}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode HCL file")
	})

	t.Run("run step with command and argv", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `
rule "a" {
  run {
    command = "echo hi"
    argv    = ["echo", "hi"]
  }
}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "exactly one of command or argv")
	})

	t.Run("run step with neither", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `
rule "a" {
  run {
    dir = "."
  }
}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "exactly one of command or argv")
	})

	t.Run("targets of the wrong type", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `
rule "a" {
  targets = { x = 1 }
}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "targets")
	})
}

func TestLoad_Model(t *testing.T) {
	model, _ := loadModel(t, `
default = "all"

rule "gen" {
  targets = "gen.go"
}

rule "all" {
  targets = ["app"]
  sources = ["gen", "vet"]
}

rule "clean" {}
`)

	assert.Equal(t, "all", model.Default)
	require.Len(t, model.Rules, 3)

	gen := model.Rules[0]
	assert.Equal(t, "gen", gen.Name)
	assert.Equal(t, []string{"gen.go"}, gen.Targets)
	assert.Empty(t, gen.Sources)
	assert.Regexp(t, `build\.hcl:4$`, gen.Origin)

	all := model.Rules[1]
	assert.Equal(t, []string{"app"}, all.Targets)
	assert.Equal(t, []string{"gen", "vet"}, all.Sources)

	clean := model.Rules[2]
	assert.Empty(t, clean.Targets)
	invoke(t, clean)
}

func TestLoad_DefaultTarget(t *testing.T) {
	model, _ := loadModel(t, `rule "build" {}`)
	assert.Equal(t, config.DefaultTarget, model.Default)
}

func TestAction_PrintSteps(t *testing.T) {
	t.Run("steps run in declaration order", func(t *testing.T) {
		model, out := loadModel(t, `
rule "build" {
  targets = ["app"]
  sources = ["gen"]

  print {
    message = "building ${rule.name}"
  }
  run {
    argv = ["echo", "${upper(rule.targets[0])}"]
  }
  print {
    message = join(",", rule.sources)
  }
}`)
		invoke(t, model.Rules[0])
		assert.Equal(t, "building build\nAPP\ngen\n", out.String())
	})

	t.Run("kbranch pair is visible", func(t *testing.T) {
		model, out := loadModel(t, `
rule "copy" {
  targets = ["t1", "t2"]
  sources = ["s1", "s2"]

  print {
    message = "${source} -> ${target}"
  }
}`)
		invoke(t, model.Rules[0], "t2", "s2")
		assert.Equal(t, "s2 -> t2\n", out.String())
	})

	t.Run("target is unknown outside kbranch", func(t *testing.T) {
		model, _ := loadModel(t, `
rule "a" {
  print {
    message = target
  }
}`)
		err := model.Rules[0].Action.Invoke(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "step 1")
	})

	t.Run("environment", func(t *testing.T) {
		model, out := loadModel(t, `
rule "greet" {
  print {
    message = "${env.GREETING}, ${lower(env.NAME)}"
  }
}`, "GREETING=hello", "NAME=WORLD")
		invoke(t, model.Rules[0])
		assert.Equal(t, "hello, world\n", out.String())
	})

	t.Run("load time environment", func(t *testing.T) {
		model, _ := loadModel(t, `
rule "out" {
  targets = "${env.OUT}/app"
}`, "OUT=bin")
		assert.Equal(t, []string{"bin/app"}, model.Rules[0].Targets)
	})
}

func TestAction_RunSteps(t *testing.T) {
	t.Run("command runs in the description directory", func(t *testing.T) {
		var out bytes.Buffer
		path := writeFile(t, "build.hcl", `
rule "touch" {
  run {
    command = "sh -c 'echo $MODE > made.txt'"
    env     = { MODE = "release" }
  }
}`)
		model, err := newTestLoader(&out).Load(context.Background(), path)
		require.NoError(t, err)
		invoke(t, model.Rules[0])

		data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "made.txt"))
		require.NoError(t, err)
		assert.Equal(t, "release\n", string(data))
	})

	t.Run("non-zero exit is ignored by default", func(t *testing.T) {
		model, _ := loadModel(t, `
rule "fail" {
  run {
    argv = ["false"]
  }
}`)
		invoke(t, model.Rules[0])
	})

	t.Run("check_exit surfaces failures", func(t *testing.T) {
		model, _ := loadModel(t, `
rule "fail" {
  run {
    argv       = ["false"]
    check_exit = true
  }
}`)
		err := model.Rules[0].Action.Invoke(context.Background())
		assert.ErrorIs(t, err, shell.ErrCommandExecution)
	})

	t.Run("missing program is an error", func(t *testing.T) {
		model, _ := loadModel(t, `
rule "missing" {
  run {
    command = "definitely-not-a-real-program-xyz"
  }
}`)
		err := model.Rules[0].Action.Invoke(context.Background())
		assert.ErrorContains(t, err, "start definitely-not-a-real-program-xyz")
	})
}

func TestChecksumFunction(t *testing.T) {
	var out bytes.Buffer
	path := writeFile(t, "build.hcl", `
rule "sum" {
  print {
    message = checksum("data.txt")
  }
}`)
	content := []byte("payload\n")
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "data.txt"), content, 0o600))

	model, err := newTestLoader(&out).Load(context.Background(), path)
	require.NoError(t, err)
	invoke(t, model.Rules[0])

	sum := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(sum[:])+"\n", out.String())
}

func TestLoadRegistry(t *testing.T) {
	t.Run("classifies rules", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `
default = "copy"
rule "copy" {
  targets = ["t1", "t2"]
  sources = ["s1", "s2"]
}`)
		reg, def, err := NewLoader().LoadRegistry(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "copy", def)

		r, err := reg.Lookup("copy")
		require.NoError(t, err)
		assert.Equal(t, rule.KindKBranch, r.Kind())
	})

	t.Run("classification failure aborts", func(t *testing.T) {
		path := writeFile(t, "build.hcl", `
rule "bad" {
  targets = ["a", "b", "c"]
  sources = ["x"]
}`)
		_, _, err := NewLoader().LoadRegistry(context.Background(), path)
		require.ErrorIs(t, err, rule.ErrInvalidShape)
		assert.ErrorContains(t, err, "build.hcl:2")
	})
}
