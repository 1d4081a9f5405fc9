package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.editor.View() + "\n" + m.statusView()
}

// statusView renders the one-line status bar: file name and dirty flag on
// the left, pass errors in the middle, cursor position on the right.
func (m Model) statusView() string {
	name := m.path
	if name == "" {
		name = "[no file]"
	}
	if m.dirty {
		name += " *"
	}

	note := m.status
	sty := statusSty
	if m.passErr != nil {
		note = m.passErr.Error()
		sty = m.warnSty
	}

	c := m.editor.Cursor()
	pos := fmt.Sprintf("Ln %d, Col %d", c.Line+1, c.Ch+1)

	left := " " + name
	right := pos + " "
	mid := ""
	if note != "" {
		mid = note
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 2 {
		mid = ""
		gap = m.width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if gap < 0 {
		gap = 0
	}
	lpad := gap / 2
	rpad := gap - lpad
	line := left + strings.Repeat(" ", lpad) + mid + strings.Repeat(" ", rpad) + right
	return sty.Render(line)
}
