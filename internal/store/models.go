package store

import "time"

// App is an indexed application launcher.
type App struct {
	ID        int64
	DesktopID string
	Path      string // the .desktop file
	Name      string
	Comment   string
	Exec      string
	IconName  string // raw Icon= value
	IconPath  string // resolved file, "" when no icon was found
	Terminal  bool
	IndexedAt time.Time
}

// HasIcon reports whether the icon resolved to a file.
func (a App) HasIcon() bool {
	return a.IconPath != ""
}
