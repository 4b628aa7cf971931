// Package desktop discovers and reads freedesktop .desktop launcher files.
package desktop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const desktopEntrySection = "Desktop Entry"

// Entry holds the keys of a [Desktop Entry] group the launcher cares about.
type Entry struct {
	ID        string
	Path      string
	Type      string
	Name      string
	Comment   string
	Exec      string
	Icon      string // raw value: a theme icon name or an absolute path
	Terminal  bool
	NoDisplay bool
	Hidden    bool
}

// Valid reports whether the entry can be launched.
func (e Entry) Valid() bool {
	return e.Name != "" && e.Exec != ""
}

// Visible reports whether the entry should be listed.
func (e Entry) Visible() bool {
	if e.NoDisplay || e.Hidden {
		return false
	}
	return e.Type == "" || e.Type == "Application"
}

// ParseFile reads the entry at f.Path.
func ParseFile(f File) (Entry, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return Entry{}, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	e, err := Parse(file)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", f.Path, err)
	}
	e.ID, e.Path = f.ID, f.Path
	return e, nil
}

// Parse reads the [Desktop Entry] group. The first value of a key wins and
// localized keys such as Name[de] are ignored.
func Parse(r io.Reader) (Entry, error) {
	var e Entry

	inEntry := false
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			inEntry = line == "["+desktopEntrySection+"]"
			continue
		}
		if !inEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "Type":
			e.Type = value
		case "Name":
			e.Name = value
		case "Comment":
			e.Comment = value
		case "Exec":
			e.Exec = value
		case "Icon":
			e.Icon = value
		case "Terminal":
			e.Terminal = value == "true"
		case "NoDisplay":
			e.NoDisplay = value == "true"
		case "Hidden":
			e.Hidden = value == "true"
		}
	}
	return e, scanner.Err()
}
