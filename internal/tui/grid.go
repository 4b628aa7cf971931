package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"hyprdash/internal/launcher"
	"hyprdash/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumns = 4
	cellWidth  = 24
	cellHeight = 2
	// header and status bar lines around the grid
	gridChrome = 5
)

type gridModel struct {
	apps     []store.App
	filtered []store.App
	cursor   int
	offset   int // first visible row
	width    int
	height   int

	filter    textinput.Model
	filtering bool
	status    string
	statusErr bool
}

// launchedMsg reports the outcome of starting an application.
type launchedMsg struct {
	name string
	err  error
}

func newGridModel(apps []store.App) gridModel {
	ti := textinput.New()
	ti.Placeholder = "Filter applications..."
	ti.Prompt = "/ "
	ti.CharLimit = 128
	return gridModel{
		apps:     apps,
		filtered: apps,
		filter:   ti,
	}
}

// columns returns how many cells fit in one row, at most maxColumns.
func columns(width int) int {
	if width <= 0 {
		return maxColumns
	}
	n := width / cellWidth
	if n < 1 {
		return 1
	}
	if n > maxColumns {
		return maxColumns
	}
	return n
}

func (m gridModel) visibleRows() int {
	if m.height <= 0 {
		return 1 << 16
	}
	rows := (m.height - gridChrome) / cellHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (m gridModel) resize(width, height int) gridModel {
	m.width = width
	m.height = height
	m.filter.Width = width - 4
	return m.scroll()
}

func (m gridModel) selected() (store.App, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return store.App{}, false
	}
	return m.filtered[m.cursor], true
}

// move shifts the cursor by dx columns and dy rows, clamped to the grid.
func (m gridModel) move(dx, dy int) gridModel {
	if len(m.filtered) == 0 {
		return m
	}
	cols := columns(m.width)
	row, col := m.cursor/cols, m.cursor%cols

	col += dx
	if col < 0 || col >= cols {
		return m
	}
	row += dy
	if row < 0 {
		return m
	}

	next := row*cols + col
	if next >= len(m.filtered) {
		if dy <= 0 {
			return m
		}
		// Moving down into a short last row lands on its last cell.
		next = len(m.filtered) - 1
		if next/cols != row {
			return m
		}
	}
	m.cursor = next
	return m.scroll()
}

func (m gridModel) scroll() gridModel {
	row := m.cursor / columns(m.width)
	visible := m.visibleRows()
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+visible {
		m.offset = row - visible + 1
	}
	return m
}

func (m gridModel) applyFilter() gridModel {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		m.filtered = m.apps
	} else {
		m.filtered = nil
		for _, a := range m.apps {
			if strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Comment), q) {
				m.filtered = append(m.filtered, a)
			}
		}
	}
	m.cursor = 0
	m.offset = 0
	return m
}

func launchApp(app store.App) tea.Cmd {
	return func() tea.Msg {
		return launchedMsg{name: app.Name, err: launcher.Launch(app.Exec)}
	}
}

func (m gridModel) Update(msg tea.Msg) (gridModel, tea.Cmd) {
	switch msg := msg.(type) {
	case launchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to launch %s: %v", msg.name, msg.err)
			m.statusErr = true
			return m, nil
		}
		m.status = "Launched " + msg.name
		m.statusErr = false
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEsc:
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				return m.applyFilter(), nil
			case tea.KeyEnter:
				m.filtering = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m.applyFilter(), cmd
		}

		switch msg.String() {
		case "left", "h":
			return m.move(-1, 0), nil
		case "right", "l":
			return m.move(1, 0), nil
		case "up", "k":
			return m.move(0, -1), nil
		case "down", "j":
			return m.move(0, 1), nil
		case "/":
			m.filtering = true
			return m, m.filter.Focus()
		case "esc":
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				return m.applyFilter(), nil
			}
		case "enter":
			if app, ok := m.selected(); ok {
				m.status = "Launching " + app.Name + "..."
				m.statusErr = false
				return m, launchApp(app)
			}
		}
	}
	return m, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func (m gridModel) renderCell(i int) string {
	app := m.filtered[i]
	inner := cellWidth - 2

	glyph := dimStyle.Render(noIconGlyph)
	detail := "no icon"
	if app.HasIcon() {
		glyph = iconStyle.Render(iconGlyph)
		detail = filepath.Base(app.IconPath)
	}

	name := glyph + " " + truncate(app.Name, inner-2)
	body := name + "\n" + dimStyle.Render(truncate(detail, inner))

	if i == m.cursor {
		return selectedCellStyle.Width(cellWidth).Height(cellHeight).Render(body)
	}
	return cellStyle.Width(cellWidth).Height(cellHeight).Render(body)
}

func (m gridModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" ◆ hyprdash"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d apps", len(m.filtered), len(m.apps))))
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
	}
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No applications match.") + "\n")
	} else {
		cols := columns(m.width)
		last := (len(m.filtered) - 1) / cols
		end := m.offset + m.visibleRows() - 1
		if end > last {
			end = last
		}
		for row := m.offset; row <= end; row++ {
			var cells []string
			for col := 0; col < cols; col++ {
				i := row*cols + col
				if i >= len(m.filtered) {
					break
				}
				cells = append(cells, m.renderCell(i))
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	status := ""
	if app, ok := m.selected(); ok {
		status = app.Exec
		if app.HasIcon() {
			status += "  " + app.IconPath
		}
	}
	if m.status != "" {
		if m.statusErr {
			status = errorStyle.Render(m.status)
		} else {
			status = successStyle.Render(m.status)
		}
	}
	bar := statusBarStyle
	if m.width > 0 {
		bar = bar.Width(m.width)
	}
	b.WriteString(bar.Render(status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ←↓↑→/hjkl move • enter launch • / filter • r rescan • q quit"))
	return b.String()
}
