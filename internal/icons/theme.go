package icons

import (
	"bufio"
	"io"
	"strings"
)

// IndexFile is the per-theme descriptor file name.
const IndexFile = "index.theme"

const iconThemeSection = "Icon Theme"

// ThemeDescriptor is the subset of an index.theme the resolver needs.
type ThemeDescriptor struct {
	Name    string
	Comment string
	// Directories are relative subdirectories in declaration order, which is search order.
	Directories []string
	// Inherits are parent theme names, nearest first.
	Inherits []string
}

// LoadIndex parses the descriptor at path. A missing or unreadable file yields an
// empty descriptor and false; it is never an error.
func LoadIndex(fsys FS, path string) (ThemeDescriptor, bool) {
	f, err := fsys.Open(path)
	if err != nil {
		return ThemeDescriptor{}, false
	}
	defer f.Close()
	return Parse(f), true
}

// Parse reads an index.theme. Parsing is best-effort: unknown keys, other sections
// and malformed lines are skipped.
func Parse(r io.Reader) ThemeDescriptor {
	var d ThemeDescriptor

	// Keys before the first header belong to the theme.
	section, seenHeader := "", false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			section = strings.TrimSpace(line[1 : len(line)-1])
			seenHeader = true
			continue
		}
		if seenHeader && section != iconThemeSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch key {
		case "Directories":
			d.Directories = append(d.Directories, splitList(value)...)
		case "Inherits":
			d.Inherits = append(d.Inherits, splitList(value)...)
		case "Name":
			if d.Name == "" {
				d.Name = value
			}
		case "Comment":
			if d.Comment == "" {
				d.Comment = value
			}
		}
	}
	// A read error mid-file keeps whatever was parsed so far.
	return d
}

func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
