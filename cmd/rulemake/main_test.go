package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rulemake/internal/cli"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
	require.Equal(t, cli.ExitOK, exitCode(&bytes.Buffer{}, err))
}

func TestRun_LoadFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "build.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`rule "a" {`), 0o600))

	errW := &bytes.Buffer{}
	err := run(context.Background(), &bytes.Buffer{}, errW, []string{"-b", path})
	require.Error(t, err)

	require.Equal(t, cli.ExitLoad, exitCode(errW, err))
	require.Contains(t, errW.String(), "failed to parse HCL file")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	t.Run("usage errors are not printed twice", func(t *testing.T) {
		errW := &bytes.Buffer{}
		code := exitCode(errW, &cli.ExitError{Code: cli.ExitUsage, Message: "bad flag"})
		require.Equal(t, cli.ExitUsage, code)
		require.Empty(t, errW.String())
	})

	t.Run("plain errors are build failures", func(t *testing.T) {
		errW := &bytes.Buffer{}
		require.Equal(t, cli.ExitBuild, exitCode(errW, errors.New("boom")))
		require.Equal(t, "boom\n", errW.String())
	})
}
