package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"hyprdash/internal/config"
	"hyprdash/internal/icons"
	"hyprdash/internal/index"
	"hyprdash/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagDB           string
	flagTheme        string
	flagBareFallback bool
	flagLogLevel     string
	flagConfig       string
)

// cfg is loaded once per invocation, before any command runs.
var (
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "hyprdash",
	Short: "Application launcher with freedesktop icon theme lookup",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default $XDG_CACHE_HOME/hyprdash/apps.db)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "preferred icon theme (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagBareFallback, "bare-fallback", false, "probe <datadir>/<name>.<ext> as a last resort")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/hyprdash/config.yaml)")
}

// setup merges the config file, the environment and the command line, then
// installs the logger. The TUI owns the terminal, so it logs to a file.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("theme") {
		loaded.IconTheme = flagTheme
	}
	if flags.Changed("bare-fallback") {
		loaded.BareFallback = flagBareFallback
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = flagLogLevel
	}
	cfg = loaded

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	if !cmd.HasParent() {
		l, closer, err := logging.SetupFile(filepath.Join(cfg.CacheDir(), "hyprdash.log"), level)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		return nil
	}
	logger = logging.Setup(os.Stderr, level)
	return nil
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return cfg.DefaultDBPath()
}

func searchEnv() icons.Env {
	return icons.Env{
		Home:     cfg.Home,
		DataHome: cfg.DataHome,
		DataDirs: cfg.DataDirs,
	}
}

func indexConfig() index.Config {
	return index.Config{
		DBPath:       dbPath(),
		Workers:      cfg.Workers,
		IconTheme:    cfg.IconTheme,
		BareFallback: cfg.BareFallback,
		Env:          searchEnv(),
		Logger:       logger,
	}
}

// newResolver builds a standalone resolver for commands that do not touch the index.
func newResolver() *icons.Resolver {
	return icons.NewResolver(icons.NewSearchPath(searchEnv()),
		icons.WithBareFallback(cfg.BareFallback),
		icons.WithLogger(logger),
	)
}

// ensureDBDir creates the directory holding the index database.
func ensureDBDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
