package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// AppName names the config, cache and data subdirectories.
const AppName = "hyprdash"

// Config is the merged result of the config file and the environment.
type Config struct {
	// Settings readable from config.yaml.
	IconTheme    string `yaml:"icon_theme"    env:"HYPRDASH_ICON_THEME"`
	BareFallback bool   `yaml:"bare_fallback" env:"HYPRDASH_BARE_FALLBACK"`
	LogLevel     string `yaml:"log_level"     env:"HYPRDASH_LOG_LEVEL"`
	Workers      int    `yaml:"workers"       env:"HYPRDASH_WORKERS"`

	// XDG environment. Never read from the file.
	Home       string   `yaml:"-" env:"HOME"`
	DataHome   string   `yaml:"-" env:"XDG_DATA_HOME"`
	DataDirs   []string `yaml:"-" env:"XDG_DATA_DIRS" envSeparator:":"`
	ConfigHome string   `yaml:"-" env:"XDG_CONFIG_HOME"`
	CacheHome  string   `yaml:"-" env:"XDG_CACHE_HOME"`
}

// Load reads the config file (if any) and applies environment overrides on top.
// An empty path selects the default location under the config home.
func Load(path string) (Config, error) {
	return load(path, env.Options{})
}

func load(path string, opts env.Options) (Config, error) {
	var cfg Config

	// The environment decides where the default file lives, so parse it first.
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if path == "" {
		path = filepath.Join(cfg.configHome(), AppName, "config.yaml")
	}

	var file Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment wins over the file.
	merged := file
	merged.Home, merged.DataHome, merged.DataDirs = cfg.Home, cfg.DataHome, cfg.DataDirs
	merged.ConfigHome, merged.CacheHome = cfg.ConfigHome, cfg.CacheHome
	if err := env.ParseWithOptions(&merged, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if merged.LogLevel == "" {
		merged.LogLevel = "info"
	}
	if merged.Workers <= 0 {
		merged.Workers = runtime.NumCPU()
	}
	return merged, nil
}

func (c Config) configHome() string {
	if c.ConfigHome != "" {
		return c.ConfigHome
	}
	return filepath.Join(c.Home, ".config")
}

// CacheDir is where the application index and the TUI log file live.
func (c Config) CacheDir() string {
	if c.CacheHome != "" {
		return filepath.Join(c.CacheHome, AppName)
	}
	return filepath.Join(c.Home, ".cache", AppName)
}

// DefaultDBPath is the index location used when --db is not given.
func (c Config) DefaultDBPath() string {
	return filepath.Join(c.CacheDir(), "apps.db")
}
