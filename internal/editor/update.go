package editor

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focus {
			break
		}
		prevRow, prevCol := m.row, m.col
		handled := true
		switch msg.String() {
		// Navigation
		case "up":
			m.row--
			m.clampCursor()
		case "down":
			m.row++
			m.clampCursor()
		case "left":
			if m.col > 0 {
				m.col--
			} else if m.row > 0 {
				m.row--
				m.col = len(m.currentLine())
			}
		case "right":
			if m.col < len(m.currentLine()) {
				m.col++
			} else if m.row < len(m.lines)-1 {
				m.row++
				m.col = 0
			}
		case "home", "ctrl+a":
			m.col = 0
		case "end", "ctrl+e":
			m.col = len(m.currentLine())
		case "pgup":
			m.row -= m.height
			m.clampCursor()
		case "pgdown":
			m.row += m.height
			m.clampCursor()
		case "ctrl+home":
			m.row = 0
			m.col = 0
		case "ctrl+end":
			m.row = len(m.lines) - 1
			m.col = len(m.currentLine())
		case "esc":
			m.clearSelection()

		// Editing
		case "backspace", "ctrl+h":
			m.deleteSelectionOr((&m).deleteBack)
		case "delete", "ctrl+d":
			m.deleteSelectionOr((&m).deleteForward)
		case "enter":
			m.deleteSelectionOr(nil)
			m.insertNewline()
		case "tab":
			m.tabIndent()

		// Clipboard
		case "ctrl+c":
			if text := m.selectedText(); text != "" {
				cmds = append(cmds, func() tea.Msg {
					_ = clipboard.WriteAll(text)
					return nil
				})
			}
		case "ctrl+v":
			if !m.readOnly {
				if text, err := clipboard.ReadAll(); err == nil {
					m.deleteSelectionOr(nil)
					for _, r := range text {
						if r == '\n' {
							m.insertNewline()
						} else {
							m.insertRune(r)
						}
					}
				}
			}

		default:
			handled = false
			// Insert printable runes
			if !m.readOnly && len(msg.Runes) > 0 {
				m.deleteSelectionOr(nil)
				for _, r := range msg.Runes {
					m.insertRune(r)
				}
				handled = true
			}
		}

		if handled {
			m.clampCursor()
			if m.row != prevRow || m.col != prevCol {
				if msg.String() != "esc" {
					m.clearSelection()
				}
				m.fireCursorMoved()
			}
			m.clampScroll()
			m.cursor.Blink = false
			cmds = append(cmds, m.cursor.BlinkCmd())
		}

	case tea.MouseMsg:
		if !m.focus {
			break
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.handleLeftMouse(msg, &cmds)
		case tea.MouseButtonWheelUp:
			m.scroll -= 3
			m.clampWheel()
		case tea.MouseButtonWheelDown:
			m.scroll += 3
			m.clampWheel()
		case tea.MouseButtonNone:
			if msg.Action == tea.MouseActionMotion {
				m.setHover(msg.Y)
			}
		}
	}

	// Forward to cursor for blink handling
	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// deleteSelectionOr removes the selected range, or calls fallback when there
// is no selection.
func (m *Model) deleteSelectionOr(fallback func()) {
	if m.readOnly {
		return
	}
	if m.hasSelection() {
		s, e := m.selectionOrdered()
		m.ReplaceRange(
			posToDeco(s), posToDeco(e), "")
		return
	}
	if fallback != nil {
		fallback()
	}
}

// setHover records which decoration the pointer is over. Text rows and
// out-of-range positions clear the hover.
func (m *Model) setHover(y int) {
	ri := m.scroll + y
	rows := m.visualRows()
	if ri >= 0 && ri < len(rows) && rows[ri].kind != rowText {
		m.hoverRow = ri
		return
	}
	m.hoverRow = -1
}

// handleLeftMouse routes a left-button event either to a decoration handler
// or to cursor placement and drag selection.
func (m *Model) handleLeftMouse(msg tea.MouseMsg, cmds *[]tea.Cmd) {
	rows := m.visualRows()
	ri := m.scroll + msg.Y
	if ri < 0 {
		ri = 0
	}
	if ri >= len(rows) {
		ri = len(rows) - 1
	}
	if ri < 0 {
		return
	}
	vr := rows[ri]

	if msg.Action == tea.MouseActionPress && vr.kind != rowText {
		m.dispatchDecoClick(vr)
		return
	}

	p := m.screenToPos(rows, msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		m.selecting = true
		m.selectStart = p
		m.selectEnd = p
		m.row = p.row
		m.col = p.col
		m.clampCursor()
		m.fireCursorMoved()
	case tea.MouseActionMotion:
		if m.selecting {
			m.selectEnd = p
		}
	case tea.MouseActionRelease:
		m.selecting = false
		if m.hasSelection() {
			if text := m.selectedText(); text != "" {
				*cmds = append(*cmds, func() tea.Msg {
					_ = clipboard.WriteAll(text)
					return nil
				})
			}
			m.fireCursorMoved()
		}
	}
}

// dispatchDecoClick invokes the handler wired to the clicked decoration row.
// Widget rows carry a dedicated edit row; everything else falls back to the
// element's click handler.
func (m *Model) dispatchDecoClick(vr visualRow) {
	switch vr.kind {
	case rowMarker:
		if vr.marker == nil {
			return
		}
		if onClick := vr.marker.Content().OnClick; onClick != nil {
			onClick()
			m.version++
		}
	case rowWidget:
		if vr.widget == nil {
			return
		}
		c := vr.widget.Content()
		switch {
		case c.EditRow >= 0 && vr.idx == c.EditRow && c.OnEdit != nil:
			c.OnEdit()
			m.version++
		case c.OnClick != nil:
			c.OnClick()
			m.version++
		}
	}
}

// screenToPos converts screen-relative x,y to a buffer row,col through the
// visual row list. Clicks below the last row land on the last buffer line.
func (m *Model) screenToPos(rows []visualRow, x, y int) pos {
	ri := m.scroll + y
	if ri < 0 {
		ri = 0
	}
	row := len(m.lines) - 1
	if ri < len(rows) {
		row = rows[ri].line
	}
	col := x - m.gutterWidth
	if col < 0 {
		col = 0
	}
	lineLen := len(m.lines[row])
	if col > lineLen {
		col = lineLen
	}
	return pos{row: row, col: col}
}

// clampWheel bounds wheel scrolling without chasing the cursor.
func (m *Model) clampWheel() {
	maxScroll := len(m.visualRows()) - m.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}
