// Package icons resolves freedesktop icon names to image files by walking icon
// theme inheritance, in the spirit of the Icon Theme Specification lookup.
//
// Only directory enumeration, extension preference and inheritance are honored;
// per-directory Size, Scale and Threshold matching is not.
package icons

import (
	"errors"
	"log/slog"
	"path/filepath"
	"slices"

	"golang.org/x/sync/singleflight"
)

// HiColor is the theme every lookup ends in.
const HiColor = "hicolor"

// ScalableApps is probed in every theme even when index.theme does not declare it.
const ScalableApps = "scalable/apps"

// Extensions in preference order.
var Extensions = []string{"png", "svg", "xpm"}

// ErrEmptyName is returned for an empty icon name.
var ErrEmptyName = errors.New("icons: empty icon name")

// Resolver turns icon names into file paths. It is safe for concurrent use.
type Resolver struct {
	fsys         FS
	path         SearchPath
	cache        *Cache
	bareFallback bool
	log          *slog.Logger

	inflight singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFS replaces the real filesystem.
func WithFS(fsys FS) Option {
	return func(r *Resolver) { r.fsys = fsys }
}

// WithCache shares a cache between resolvers. By default each resolver owns one.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithBareFallback enables probing <base>/<name>.<ext> directly under each data
// directory after every other tier has missed. It is off by default because it can
// match unrelated files.
func WithBareFallback(enabled bool) Option {
	return func(r *Resolver) { r.bareFallback = enabled }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver returns a resolver over path.
func NewResolver(path SearchPath, opts ...Option) *Resolver {
	r := &Resolver{
		fsys: OSFS{},
		path: path,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	return r
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the file for icon name, searching themeHint (may be empty) and
// its ancestors before hicolor and the fallback directories. ok is false when no
// file exists anywhere; that result is cached like a hit.
func (r *Resolver) Resolve(name, themeHint string) (path string, ok bool, err error) {
	if name == "" {
		return "", false, ErrEmptyName
	}
	if filepath.IsAbs(name) && isFile(r.fsys, name) {
		return name, true, nil
	}

	key := Key{Name: name, Theme: themeHint}
	if e, ok := r.cache.Get(key); ok {
		return e.Path, e.Found, nil
	}

	v, _, _ := r.inflight.Do(key.String(), func() (any, error) {
		if e, ok := r.cache.Get(key); ok {
			return e, nil
		}
		e := r.lookup(name, themeHint)
		if e.Found {
			r.log.Debug("icons: resolved", "icon", name, "theme", themeHint, "path", e.Path)
		} else {
			r.log.Debug("icons: not found", "icon", name, "theme", themeHint)
		}
		return r.cache.Put(key, e), nil
	})
	e := v.(Entry)
	return e.Path, e.Found, nil
}

// Chain returns the order in which themes are searched for themeHint.
func (r *Resolver) Chain(themeHint string) []string {
	var chain []string
	walkThemes(themeHint, func(theme string) ([]string, bool) {
		chain = append(chain, theme)
		_, inherits := r.themeDirs(theme)
		return inherits, false
	})
	return chain
}

// Describe returns the first index.theme found for theme across the icon roots.
func (r *Resolver) Describe(theme string) (ThemeDescriptor, string, bool) {
	for _, root := range r.path.IconRoots() {
		path := filepath.Join(root, theme, IndexFile)
		if d, ok := LoadIndex(r.fsys, path); ok {
			return d, path, true
		}
	}
	return ThemeDescriptor{}, "", false
}

func (r *Resolver) lookup(name, themeHint string) Entry {
	// A missing absolute path is not a theme icon name.
	if filepath.IsAbs(name) {
		return Entry{}
	}

	var found string
	walkThemes(themeHint, func(theme string) ([]string, bool) {
		path, inherits := r.searchTheme(theme, name)
		if path != "" {
			found = path
			return nil, true
		}
		return inherits, false
	})
	if found != "" {
		return Entry{Path: found, Found: true}
	}

	for _, dir := range r.path.PixmapDirs() {
		if p, ok := r.probe(dir, name); ok {
			return Entry{Path: p, Found: true}
		}
	}

	if r.bareFallback {
		for _, dir := range r.path.BaseDirs() {
			if p, ok := r.probe(dir, name); ok {
				return Entry{Path: p, Found: true}
			}
		}
	}
	return Entry{}
}

// walkThemes visits themeHint and its ancestors depth-first, nearest ancestors
// first, each theme at most once, and hicolor last. visit returns the theme's
// parents and whether to stop.
func walkThemes(themeHint string, visit func(theme string) (inherits []string, done bool)) {
	visited := make(map[string]bool)
	var worklist []string
	if themeHint != "" && themeHint != HiColor {
		worklist = append(worklist, themeHint)
	}

	for len(worklist) > 0 {
		theme := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if visited[theme] {
			continue
		}
		visited[theme] = true

		inherits, done := visit(theme)
		if done {
			return
		}
		// Pushed in reverse so the first declared parent is popped first.
		for i := len(inherits) - 1; i >= 0; i-- {
			parent := inherits[i]
			if parent == HiColor || visited[parent] {
				continue
			}
			worklist = append(worklist, parent)
		}
	}

	if !visited[HiColor] {
		visit(HiColor)
	}
}

// themeRoot is one icon root's view of a theme.
type themeRoot struct {
	dir         string
	directories []string
}

// themeDirs collects the theme's directories per icon root and its parents.
// Roots without the theme directory are left out. A root that has the theme but no
// index.theme of its own borrows the directories of the first root that has one.
func (r *Resolver) themeDirs(theme string) ([]themeRoot, []string) {
	var (
		roots     []themeRoot
		indexed   []bool
		canonical []string
		haveIndex bool
		inherits  []string
	)
	for _, root := range r.path.IconRoots() {
		dir := filepath.Join(root, theme)
		if !isDir(r.fsys, dir) {
			continue
		}
		d, ok := LoadIndex(r.fsys, filepath.Join(dir, IndexFile))
		if ok && !haveIndex {
			canonical, haveIndex = d.Directories, true
		}
		for _, parent := range d.Inherits {
			if !slices.Contains(inherits, parent) {
				inherits = append(inherits, parent)
			}
		}
		roots = append(roots, themeRoot{dir: dir, directories: d.Directories})
		indexed = append(indexed, ok)
	}
	for i := range roots {
		if !indexed[i] {
			roots[i].directories = canonical
		}
	}
	return roots, inherits
}

// searchTheme probes every declared directory of theme in every root, then the
// root's scalable/apps.
func (r *Resolver) searchTheme(theme, name string) (string, []string) {
	roots, inherits := r.themeDirs(theme)
	for _, root := range roots {
		for _, sub := range root.directories {
			if p, ok := r.probe(filepath.Join(root.dir, sub), name); ok {
				return p, nil
			}
		}
		if !slices.Contains(root.directories, ScalableApps) {
			if p, ok := r.probe(filepath.Join(root.dir, ScalableApps), name); ok {
				return p, nil
			}
		}
	}
	return "", inherits
}

// probe checks dir/name.<ext> for each extension in preference order.
func (r *Resolver) probe(dir, name string) (string, bool) {
	for _, ext := range Extensions {
		candidate := filepath.Join(dir, name+"."+ext)
		if isFile(r.fsys, candidate) {
			return candidate, true
		}
	}
	return "", false
}
