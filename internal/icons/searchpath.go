package icons

import "path/filepath"

var (
	defaultDataDirs   = []string{"/usr/local/share", "/usr/share"}
	defaultPixmapDirs = []string{"/usr/share/pixmaps"}
)

// Env is the part of the process environment the search path depends on.
type Env struct {
	Home     string
	DataHome string   // $XDG_DATA_HOME
	DataDirs []string // $XDG_DATA_DIRS, already split
	// PixmapDirs replaces the flat fallback directories when set.
	PixmapDirs []string
}

// SearchPath holds the ordered base directories, highest priority first.
// It is computed once and never touches the filesystem.
type SearchPath struct {
	home       string
	baseDirs   []string
	pixmapDirs []string
}

// NewSearchPath applies the XDG defaults to env.
func NewSearchPath(env Env) SearchPath {
	dataHome := env.DataHome
	if dataHome == "" && env.Home != "" {
		dataHome = filepath.Join(env.Home, ".local", "share")
	}
	dataDirs := env.DataDirs
	if len(compact(dataDirs)) == 0 {
		dataDirs = defaultDataDirs
	}

	pixmapDirs := compact(env.PixmapDirs)
	if len(pixmapDirs) == 0 {
		pixmapDirs = defaultPixmapDirs
	}

	return SearchPath{
		home:       env.Home,
		baseDirs:   compact(append([]string{dataHome}, dataDirs...)),
		pixmapDirs: pixmapDirs,
	}
}

// BaseDirs returns the data directories: data home first, then the system dirs.
func (p SearchPath) BaseDirs() []string {
	return p.baseDirs
}

// IconRoots returns the directories themes live in: ~/.icons, then <base>/icons.
func (p SearchPath) IconRoots() []string {
	roots := make([]string, 0, len(p.baseDirs)+1)
	if p.home != "" {
		roots = append(roots, filepath.Join(p.home, ".icons"))
	}
	for _, base := range p.baseDirs {
		roots = append(roots, filepath.Join(base, "icons"))
	}
	return compact(roots)
}

// PixmapDirs returns the flat fallback directories.
func (p SearchPath) PixmapDirs() []string {
	return p.pixmapDirs
}

// compact drops empty and repeated entries, keeping the first occurrence.
func compact(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
