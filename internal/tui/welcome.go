package tui

import (
	"fmt"
	"os"

	"hyprdash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type indexStatus int

const (
	indexNotFound indexStatus = iota
	indexReady
	indexStale
)

type welcomeModel struct {
	status      indexStatus
	staleReason string
	apps        int
	ready       bool // true once the check has completed
}

// checkIndexMsg is sent after checking the index status.
type checkIndexMsg struct {
	status      indexStatus
	staleReason string
	apps        int
	err         error
}

func checkIndex(cfg Config) tea.Cmd {
	return func() tea.Msg {
		dbPath := cfg.Index.DBPath
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return checkIndexMsg{status: indexNotFound}
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return checkIndexMsg{status: indexNotFound, err: err}
		}
		defer st.Close()

		generation, err := st.GetMeta(store.MetaGeneration)
		if err != nil || generation == "" {
			return checkIndexMsg{status: indexNotFound}
		}

		apps, err := st.ListApps()
		if err != nil {
			return checkIndexMsg{status: indexNotFound, err: err}
		}

		lastTheme, err := st.GetMeta(store.MetaIconTheme)
		if err != nil {
			return checkIndexMsg{status: indexNotFound, err: err}
		}
		if lastTheme != cfg.Index.IconTheme {
			return checkIndexMsg{
				status:      indexStale,
				staleReason: fmt.Sprintf("icon theme changed: %s → %s", themeLabel(lastTheme), themeLabel(cfg.Index.IconTheme)),
				apps:        len(apps),
			}
		}

		return checkIndexMsg{status: indexReady, apps: len(apps)}
	}
}

func themeLabel(theme string) string {
	if theme == "" {
		return "(none)"
	}
	return theme
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case checkIndexMsg:
		m.status = msg.status
		m.staleReason = msg.staleReason
		m.apps = msg.apps
		m.ready = true
	}
	return m, nil
}

func (m welcomeModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  ◆ hyprdash") + "\n"
	s += subtitleStyle.Render("  Application launcher") + "\n\n"

	if !m.ready {
		s += dimStyle.Render("  Checking index...") + "\n"
		return s
	}

	switch m.status {
	case indexReady:
		s += successStyle.Render(fmt.Sprintf("  ✓ Index ready (%d applications)", m.apps)) + "\n"
	case indexNotFound:
		s += warnStyle.Render("  ✗ No index found") + "\n"
	case indexStale:
		s += warnStyle.Render("  ⚠ Index stale") + "\n"
		s += dimStyle.Render("    "+m.staleReason) + "\n"
	}

	s += "\n"
	if m.status == indexReady {
		s += dimStyle.Render("  Press Enter to continue") + "\n"
	} else {
		s += dimStyle.Render("  Press Enter to scan applications") + "\n"
	}
	return s
}
