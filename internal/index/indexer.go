package index

import (
	"context"
	"fmt"
	"log/slog"

	"hyprdash/internal/desktop"
	"hyprdash/internal/icons"
	"hyprdash/internal/store"
)

// Config holds the indexer configuration.
type Config struct {
	DBPath       string
	Workers      int
	IconTheme    string
	BareFallback bool
	Env          icons.Env
	Logger       *slog.Logger
	OnProgress   ProgressFunc
}

// Indexer scans desktop entries, resolves their icons and keeps the app index.
type Indexer struct {
	store    *store.SQLiteStore
	resolver *icons.Resolver
	path     icons.SearchPath
	log      *slog.Logger
	config   Config
}

// New opens the index database and builds the resolver shared by all scans.
func New(cfg Config) (*Indexer, error) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := icons.NewSearchPath(cfg.Env)

	return &Indexer{
		store: s,
		resolver: icons.NewResolver(path,
			icons.WithBareFallback(cfg.BareFallback),
			icons.WithLogger(logger),
		),
		path:   path,
		log:    logger,
		config: cfg,
	}, nil
}

// Index rescans all application directories. Apps whose desktop file is gone are
// removed from the index.
func (idx *Indexer) Index(ctx context.Context) (*Stats, error) {
	generation, err := idx.store.NextGeneration()
	if err != nil {
		return nil, fmt.Errorf("next generation: %w", err)
	}

	dirs := desktop.Dirs(idx.path.BaseDirs())
	idx.log.Info("index: scanning", "dirs", dirs, "theme", idx.config.IconTheme)

	p := &pipeline{
		store:      idx.store,
		resolver:   idx.resolver,
		theme:      idx.config.IconTheme,
		generation: generation,
		workers:    idx.config.Workers,
		log:        idx.log,
		onProgress: idx.config.OnProgress,
	}
	stats, err := p.run(ctx, dirs)
	if err != nil {
		return stats, err
	}

	pruned, err := idx.store.PruneApps(generation)
	if err != nil {
		return stats, fmt.Errorf("prune apps: %w", err)
	}
	stats.AppsPruned = int(pruned)

	if err := idx.store.SetMeta(store.MetaIconTheme, idx.config.IconTheme); err != nil {
		return stats, fmt.Errorf("set meta: %w", err)
	}

	idx.log.Info("index: done",
		"apps", stats.AppsIndexed,
		"skipped", stats.EntriesSkipped,
		"icons", stats.IconsResolved,
		"missing", stats.IconsMissing,
		"pruned", stats.AppsPruned,
	)
	return stats, nil
}

// ResolveIcon resolves one icon name with the indexer's resolver and cache.
func (idx *Indexer) ResolveIcon(name, theme string) (string, bool, error) {
	return idx.resolver.Resolve(name, theme)
}

// Resolver returns the shared resolver.
func (idx *Indexer) Resolver() *icons.Resolver {
	return idx.resolver
}

// Store returns the underlying app index.
func (idx *Indexer) Store() store.Store {
	return idx.store
}

// Close releases resources.
func (idx *Indexer) Close() error {
	return idx.store.Close()
}
