package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"hyprdash/internal/index"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type indexingModel struct {
	spinner       spinner.Model
	phase         string
	appsProcessed int
	entriesTotal  int
	done          bool
	stats         *index.Stats
	err           error
}

func newIndexingModel() indexingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return indexingModel{
		spinner: sp,
		phase:   "Scanning applications...",
	}
}

// indexDoneMsg is sent when indexing completes.
type indexDoneMsg struct {
	stats *index.Stats
	err   error
}

// indexProgressMsg is sent periodically during indexing.
type indexProgressMsg struct {
	phase         string
	appsProcessed int
	entriesTotal  int
}

func runIndex(cfg Config) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(filepath.Dir(cfg.Index.DBPath), 0o755); err != nil {
			return indexDoneMsg{err: fmt.Errorf("create db directory: %w", err)}
		}

		icfg := cfg.Index
		icfg.OnProgress = func(phase string, processed, total int) {
			if cfg.program != nil && cfg.program.p != nil {
				cfg.program.p.Send(indexProgressMsg{
					phase:         phase,
					appsProcessed: processed,
					entriesTotal:  total,
				})
			}
		}

		idx, err := index.New(icfg)
		if err != nil {
			return indexDoneMsg{err: err}
		}
		defer idx.Close()

		stats, err := idx.Index(context.Background())
		return indexDoneMsg{stats: stats, err: err}
	}
}

func (m indexingModel) Update(msg tea.Msg) (indexingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case indexDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		return m, nil
	case indexProgressMsg:
		m.phase = msg.phase
		m.appsProcessed = msg.appsProcessed
		m.entriesTotal = msg.entriesTotal
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m indexingModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  Indexing") + "\n\n"

	if m.done {
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
			s += dimStyle.Render("  Press Enter to continue anyway, or q to quit.") + "\n"
			return s
		}
		s += successStyle.Render("  ✓ Indexing complete!") + "\n\n"
		if m.stats != nil {
			s += fmt.Sprintf("  Entries: %d total, %d indexed, %d skipped\n",
				m.stats.EntriesTotal, m.stats.AppsIndexed, m.stats.EntriesSkipped)
			s += fmt.Sprintf("  Icons:   %d resolved, %d missing\n",
				m.stats.IconsResolved, m.stats.IconsMissing)
		}
		s += "\n"
		s += dimStyle.Render("  Press Enter to open the launcher") + "\n"
		return s
	}

	s += fmt.Sprintf("  %s %s\n", m.spinner.View(), m.phase)
	if m.entriesTotal > 0 {
		s += fmt.Sprintf("  %d / %d entries processed\n", m.appsProcessed, m.entriesTotal)
	}
	return s
}
