package desktop

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// File is a discovered .desktop file.
type File struct {
	// ID is the desktop file ID: the path relative to the applications
	// directory with "/" replaced by "-".
	ID   string
	Path string
}

// Dirs returns <base>/applications for each data directory, in priority order.
func Dirs(baseDirs []string) []string {
	dirs := make([]string, 0, len(baseDirs))
	for _, base := range baseDirs {
		dirs = append(dirs, filepath.Join(base, "applications"))
	}
	return dirs
}

// Walk traverses dirs in order and sends discovered .desktop files on the
// returned channel. A desktop file ID seen in an earlier directory shadows the
// same ID in later ones. Unreadable or missing directories are skipped.
func Walk(dirs []string) (<-chan File, <-chan error) {
	files := make(chan File, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		seen := make(map[string]bool)
		for _, dir := range dirs {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				errs <- err
				return
			}

			err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil // skip errors, keep walking
				}
				if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
					return nil
				}

				rel, err := filepath.Rel(absDir, path)
				if err != nil {
					return nil
				}
				id := strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
				if seen[id] {
					return nil
				}
				seen[id] = true

				files <- File{ID: id, Path: path}
				return nil
			})
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	return files, errs
}
