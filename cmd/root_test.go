package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogDestination(t *testing.T) { //nolint:paralleltest // sets env and package state
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Cleanup(func() { logger, logCloser = nil, nil })

	// Subcommands log to stderr.
	require.NoError(t, setup(indexCmd))
	assert.Nil(t, logCloser)
	assert.Equal(t, filepath.Join(dir, "cache", "hyprdash", "apps.db"), dbPath())

	// The TUI owns the terminal and logs to the cache dir.
	require.NoError(t, setup(rootCmd))
	require.NotNil(t, logCloser)
	require.NoError(t, logCloser.Close())
	_, err := os.Stat(filepath.Join(dir, "cache", "hyprdash", "hyprdash.log"))
	assert.NoError(t, err)
}

func TestBareFallbackFlagUsage(t *testing.T) {
	t.Parallel()

	f := rootCmd.PersistentFlags().Lookup("bare-fallback")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "<datadir>/<name>.<ext>")
	assert.Equal(t, "false", f.DefValue)
}
