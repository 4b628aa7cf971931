package icons

import (
	"io/fs"
	"os"
)

// FS is the read-only filesystem view the resolver probes. All paths are absolute.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (fs.File, error)
}

// OSFS is the real filesystem.
type OSFS struct{}

func (OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFS) Open(name string) (fs.File, error) { return os.Open(name) }

func isFile(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
