package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		errMsg string
	}{
		"defaults are valid":  {mutate: func(*Config) {}},
		"empty build file":    {mutate: func(c *Config) { c.BuildFile = "" }, errMsg: "build file"},
		"zero max depth":      {mutate: func(c *Config) { c.MaxDepth = 0 }, errMsg: "max depth"},
		"unknown log format":  {mutate: func(c *Config) { c.LogFormat = "xml" }, errMsg: "log format"},
		"logfmt is supported": {mutate: func(c *Config) { c.LogFormat = "logfmt" }},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if tc.errMsg != "" {
				require.ErrorIs(t, err, ErrInvalidConfig)
				assert.ErrorContains(t, err, tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestDecodeConfigFile(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("overlays set keys only", func(t *testing.T) {
		cfg := DefaultConfig()
		err := DecodeConfigFile(write(t, "strict = true\nmax_depth = 32\nlock_file = \"\"\n"), &cfg)
		require.NoError(t, err)

		assert.True(t, cfg.Strict)
		assert.Equal(t, 32, cfg.MaxDepth)
		assert.Empty(t, cfg.LockFile)
		assert.Equal(t, DefaultBuildFile, cfg.BuildFile)
	})

	t.Run("unknown key", func(t *testing.T) {
		cfg := DefaultConfig()
		err := DecodeConfigFile(write(t, "workers = 4\n"), &cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, "workers")
	})

	t.Run("invalid toml", func(t *testing.T) {
		cfg := DefaultConfig()
		err := DecodeConfigFile(write(t, "strict = \n"), &cfg)
		assert.ErrorContains(t, err, "parsing TOML")
	})
}
