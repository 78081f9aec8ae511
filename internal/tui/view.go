package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/berrythewa/clipqr/internal/history"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/pkg/format"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	handleStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// layout records where the panel sits on screen. The handle is pinned to the
// bottom row while closed; an open panel pushes it up by its row count.
type layout struct {
	open      bool
	handleRow int
	items     []history.ItemView
	firstItem int
}

func (m Model) layout() layout {
	l := layout{open: m.app.Panel().State() == panel.Open}
	l.handleRow = max(m.height-1, 0)
	if !l.open {
		return l
	}

	view := m.app.Store().Render()
	rows := 1
	if !view.Empty {
		l.items = view.Items
		rows = len(view.Items)
	}
	if rows > maxPanelRows {
		rows = maxPanelRows
	}
	l.handleRow = m.height - 1 - rows
	if l.handleRow < 0 {
		l.handleRow = 0
	}

	// Scroll so the cursor stays visible
	if len(l.items) > rows {
		if m.cursor >= rows {
			l.firstItem = m.cursor - rows + 1
		}
		l.items = l.items[l.firstItem : l.firstItem+rows]
	}
	return l
}

// itemAt returns the id of the history row drawn at screen row y
func (l layout) itemAt(y int) (string, bool) {
	i := y - l.handleRow - 1
	if i < 0 || i >= len(l.items) {
		return "", false
	}
	return l.items[i].ID, true
}

// View implements tea.Model
func (m Model) View() string {
	st := m.app.Snapshot()
	l := m.layout()

	var lines []string
	lines = append(lines, titleStyle.Render("clipqr"))
	lines = append(lines, promptStyle.Render("> ")+st.Input)
	lines = append(lines, "")

	switch {
	case st.QR.OK && st.QR.Symbol != nil:
		lines = append(lines, strings.Split(strings.TrimRight(st.QR.Symbol.Text, "\n"), "\n")...)
	case st.QR.Message != "":
		lines = append(lines, errorStyle.Render(st.QR.Message))
	}

	if st.Preview != nil {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s  %s", st.Preview.Name, st.Preview.TypeSize)))
	}
	switch {
	case m.busy || st.Uploading:
		lines = append(lines, noticeStyle.Render("Uploading..."))
	case st.Notice != "":
		lines = append(lines, noticeStyle.Render(st.Notice))
	case m.status != "":
		lines = append(lines, errorStyle.Render(m.status))
	}

	// Pad or cut the body so the handle lands on its row
	if len(lines) > l.handleRow {
		lines = lines[:l.handleRow]
	}
	for len(lines) < l.handleRow {
		lines = append(lines, "")
	}

	lines = append(lines, m.renderHandle(l, st.History))
	if l.open {
		lines = append(lines, m.renderPanel(l, st.History)...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHandle(l layout, view history.View) string {
	count := len(view.Items)
	label := fmt.Sprintf("▲ Recent (%d)  tab: open  enter: save  ctrl+l: clear", count)
	if l.open {
		label = "▼ Recent  enter: select  ctrl+d: remove  esc: close"
	}
	return handleStyle.Width(m.width).Render(format.TruncateText(label, m.width))
}

func (m Model) renderPanel(l layout, view history.View) []string {
	if view.Empty {
		return []string{dimStyle.Render(view.Placeholder)}
	}
	lines := make([]string, 0, len(l.items))
	for i, item := range l.items {
		row := item.Label
		if item.TypeSize != "" {
			row += "  " + dimStyle.Render(item.TypeSize)
		}
		if l.firstItem+i == m.cursor {
			lines = append(lines, selectedStyle.Render("› "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	return lines
}
