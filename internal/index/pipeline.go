package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"hyprdash/internal/desktop"
	"hyprdash/internal/icons"
	"hyprdash/internal/store"

	"github.com/hashicorp/go-multierror"
)

// Stats reports indexing results.
type Stats struct {
	EntriesTotal   int
	AppsIndexed    int
	EntriesSkipped int
	IconsResolved  int
	IconsMissing   int
	AppsPruned     int
}

// ProgressFunc receives progress updates from the store stage.
type ProgressFunc func(phase string, processed, total int)

type pipeline struct {
	store      store.Store
	resolver   *icons.Resolver
	theme      string
	generation int64
	workers    int
	log        *slog.Logger
	onProgress ProgressFunc
}

func (p *pipeline) run(ctx context.Context, dirs []string) (*Stats, error) {
	numWorkers := p.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	var (
		stats         Stats
		entriesTotal  atomic.Int64
		skipped       atomic.Int64
		iconsResolved atomic.Int64
		iconsMissing  atomic.Int64
	)

	// Stage 1: Walk
	fileCh, walkErrCh := desktop.Walk(dirs)

	// Stage 2: Parse (N workers)
	entryCh := make(chan desktop.Entry, numWorkers)
	var parseWg sync.WaitGroup
	for range numWorkers {
		parseWg.Add(1)
		go func() {
			defer parseWg.Done()
			for f := range fileCh {
				entriesTotal.Add(1)
				if ctx.Err() != nil {
					skipped.Add(1)
					continue
				}
				e, err := desktop.ParseFile(f)
				if err != nil {
					p.log.Warn("index: unreadable desktop entry", "path", f.Path, "err", err)
					skipped.Add(1)
					continue
				}
				if !e.Valid() || !e.Visible() {
					skipped.Add(1)
					continue
				}
				entryCh <- e
			}
		}()
	}
	go func() {
		parseWg.Wait()
		close(entryCh)
	}()

	// Stage 3: Resolve icons (N workers sharing one resolver and cache)
	appCh := make(chan store.App, numWorkers)
	var resolveWg sync.WaitGroup
	for range numWorkers {
		resolveWg.Add(1)
		go func() {
			defer resolveWg.Done()
			for e := range entryCh {
				app := store.App{
					DesktopID: e.ID,
					Path:      e.Path,
					Name:      e.Name,
					Comment:   e.Comment,
					Exec:      e.Exec,
					IconName:  e.Icon,
					Terminal:  e.Terminal,
				}
				if e.Icon != "" && ctx.Err() == nil {
					path, ok, err := p.resolver.Resolve(e.Icon, p.theme)
					switch {
					case err != nil:
						p.log.Warn("index: icon lookup failed", "app", e.Name, "err", err)
					case ok:
						app.IconPath = path
						iconsResolved.Add(1)
						p.log.Debug("index: icon found", "icon", e.Icon, "path", path)
					default:
						iconsMissing.Add(1)
						p.log.Warn("index: icon not found in any theme", "icon", e.Icon, "theme", p.theme)
					}
				}
				appCh <- app
			}
		}()
	}
	go func() {
		resolveWg.Wait()
		close(appCh)
	}()

	// Stage 4: Store (1 worker)
	var storeErr *multierror.Error
	for app := range appCh {
		if ctx.Err() != nil {
			continue
		}
		if err := p.store.UpsertApp(app, p.generation); err != nil {
			storeErr = multierror.Append(storeErr, err)
			continue
		}
		stats.AppsIndexed++
		if p.onProgress != nil {
			p.onProgress("Indexing applications...", stats.AppsIndexed, int(entriesTotal.Load()))
		}
	}

	if err := <-walkErrCh; err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	stats.EntriesTotal = int(entriesTotal.Load())
	stats.EntriesSkipped = int(skipped.Load())
	stats.IconsResolved = int(iconsResolved.Load())
	stats.IconsMissing = int(iconsMissing.Load())

	if err := ctx.Err(); err != nil {
		return &stats, err
	}
	if err := storeErr.ErrorOrNil(); err != nil {
		return &stats, fmt.Errorf("storage failed: %w", err)
	}
	return &stats, nil
}
