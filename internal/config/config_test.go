package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := load("", env.Options{Environment: map[string]string{"HOME": home}})
	require.NoError(t, err)

	assert.Equal(t, home, cfg.Home)
	assert.Empty(t, cfg.IconTheme)
	assert.False(t, cfg.BareFallback)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, filepath.Join(home, ".cache", AppName, "apps.db"), cfg.DefaultDBPath())
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfgHome := filepath.Join(home, "cfg")
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, AppName), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgHome, AppName, "config.yaml"),
		[]byte("icon_theme: Papirus\nbare_fallback: true\nworkers: 3\n"),
		0o644,
	))

	cfg, err := load("", env.Options{Environment: map[string]string{
		"HOME":                home,
		"XDG_CONFIG_HOME":     cfgHome,
		"XDG_DATA_DIRS":       "/opt/share:/usr/share",
		"HYPRDASH_LOG_LEVEL":  "debug",
		"HYPRDASH_ICON_THEME": "Adwaita",
	}})
	require.NoError(t, err)

	assert.Equal(t, "Adwaita", cfg.IconTheme, "environment overrides the file")
	assert.True(t, cfg.BareFallback)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/opt/share", "/usr/share"}, cfg.DataDirs)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("icon_theme: [unterminated"), 0o644))

	_, err := load(path, env.Options{Environment: map[string]string{"HOME": t.TempDir()}})
	assert.Error(t, err)
}
