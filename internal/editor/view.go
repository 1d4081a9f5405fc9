package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/highlight"
)

// ---------------------------------------------------------------------------
// Visual rows
// ---------------------------------------------------------------------------

// The screen is a flat list of visual rows: plain buffer lines, marker
// content rows drawn in place of the buffer lines the marker covers, and
// widget rows drawn below their anchor line. Scroll and mouse coordinates
// live in visual-row space; the cursor lives in buffer space.

type rowKind int

const (
	rowText rowKind = iota
	rowMarker
	rowWidget
)

type visualRow struct {
	kind   rowKind
	line   int // first buffer line this row stands for
	last   int // last buffer line consumed (marker rows span several)
	idx    int // row index within the decoration content
	text   string
	marker *deco.Marker
	widget *deco.Widget
}

// visualRows flattens the buffer and its decorations into screen rows.
func (m *Model) visualRows() []visualRow {
	rows := make([]visualRow, 0, len(m.lines))
	for i := 0; i < len(m.lines); i++ {
		if m.store != nil {
			if mk := m.store.MarkerCovering(i); mk != nil {
				if from, to, ok := mk.Find(); ok && from.Line == i {
					for ri, txt := range mk.Content().Lines {
						rows = append(rows, visualRow{
							kind: rowMarker, line: from.Line, last: to.Line,
							idx: ri, text: txt, marker: mk,
						})
					}
					m.appendWidgetRows(&rows, to.Line)
					i = to.Line
					continue
				}
			}
		}
		rows = append(rows, visualRow{kind: rowText, line: i, last: i})
		m.appendWidgetRows(&rows, i)
	}
	return rows
}

func (m *Model) appendWidgetRows(rows *[]visualRow, line int) {
	if m.store == nil {
		return
	}
	for _, w := range m.store.WidgetsAt(line, "") {
		for ri, txt := range w.Content().Lines {
			*rows = append(*rows, visualRow{
				kind: rowWidget, line: line, last: line, idx: ri, text: txt, widget: w,
			})
		}
	}
}

// cursorVisualRow returns the visual index of the row holding bufRow, or of
// the decoration row covering it.
func cursorVisualRow(rows []visualRow, bufRow int) int {
	for i, vr := range rows {
		if vr.kind == rowText && vr.line == bufRow {
			return i
		}
	}
	for i, vr := range rows {
		if vr.line <= bufRow && bufRow <= vr.last {
			return i
		}
	}
	return 0
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	tw := m.textWidth()
	bg := m.bgForRender()
	lineNumSty := m.LineNumStyle.Background(bg.GetBackground())
	markSty := m.MarkStyle.Background(bg.GetBackground())

	rows := m.visualRows()

	// Hovered decoration, if any. hoverRow may be stale after an edit;
	// recheck it against the current rows.
	var hov visualRow
	hovOK := m.hoverRow >= 0 && m.hoverRow < len(rows) && rows[m.hoverRow].kind != rowText
	if hovOK {
		hov = rows[m.hoverRow]
	}

	var b strings.Builder
	for vi := 0; vi < m.height; vi++ {
		ri := m.scroll + vi
		if vi > 0 {
			b.WriteByte('\n')
		}

		if ri >= len(rows) {
			// End-of-buffer: fill entire row with bg
			b.WriteString(bg.Render(strings.Repeat(" ", m.width)))
			continue
		}
		vr := rows[ri]

		// -- Gutter ----------------------------------------------------------
		if m.ShowLineNumbers {
			digits := m.gutterWidth - 1
			switch {
			case vr.kind != rowText:
				if hovOK && vr.marker == hov.marker && vr.widget == hov.widget {
					b.WriteString(markSty.Render(fmt.Sprintf("%*s ", digits, "▎")))
				} else {
					b.WriteString(bg.Render(strings.Repeat(" ", m.gutterWidth)))
				}
			case m.marks[vr.line] != "":
				b.WriteString(markSty.Render(fmt.Sprintf("%*s ", digits, m.marks[vr.line])))
			default:
				b.WriteString(lineNumSty.Render(fmt.Sprintf("%*d ", digits, vr.line+1)))
			}
		}

		// -- Row content -----------------------------------------------------
		var rendered string
		switch vr.kind {
		case rowText:
			rendered = m.renderTextRow(vr.line, bg)
		default:
			// Decoration rows arrive pre-rendered.
			rendered = vr.text
		}

		rw := lipgloss.Width(rendered)
		if rw > tw {
			rendered = ansi.Truncate(rendered, tw, "")
			rw = lipgloss.Width(rendered)
		}
		b.WriteString(rendered)
		if rw < tw {
			b.WriteString(bg.Render(strings.Repeat(" ", tw-rw)))
		}
	}

	return b.String()
}

func (m Model) renderTextRow(row int, bg lipgloss.Style) string {
	lineStr := expandTabs(string(m.lines[row]))

	if s, e := m.selectionOrdered(); m.hasSelection() && s.row <= row && row <= e.row {
		return m.renderSelectedRow(row, lineStr, s, e, bg)
	}
	if m.focus && row == m.row {
		return m.renderCursorLine(lineStr)
	}
	if m.Language != "" && m.SyntaxTheme != "" {
		return m.highlightLine(lineStr)
	}
	return bg.Render(lineStr)
}

// renderSelectedRow draws the selected segment with the selection background.
// Selected rows skip syntax highlight so the segment boundary stays exact.
func (m Model) renderSelectedRow(row int, lineStr string, s, e pos, bg lipgloss.Style) string {
	runes := []rune(lineStr)
	sc := 0
	if row == s.row {
		sc = clampMax(s.col, len(runes))
	}
	ec := len(runes)
	if row == e.row {
		ec = clampMax(e.col, len(runes))
	}
	selSty := lipgloss.NewStyle().Reverse(true)
	return bg.Render(string(runes[:sc])) +
		selSty.Render(string(runes[sc:ec])) +
		bg.Render(string(runes[ec:]))
}

// highlightLine runs one line through the shared highlighter, keeping the
// theme background alive across resets.
func (m Model) highlightLine(s string) string {
	return highlight.Cached(s, m.Language, m.SyntaxTheme, highlight.ThemeBg(m.SyntaxTheme))
}

// renderCursorLine renders the cursor row with the cursor character visible.
func (m Model) renderCursorLine(lineStr string) string {
	bg := m.bgForRender()
	runes := []rune(lineStr)

	col := m.col
	if col > len(runes) {
		col = len(runes)
	}

	before := string(runes[:col])
	after := ""
	cursorChar := " "
	if col < len(runes) {
		cursorChar = string(runes[col])
		after = string(runes[col+1:])
	}

	hasSyntax := m.Language != "" && m.SyntaxTheme != ""
	if hasSyntax {
		if before != "" {
			before = m.highlightLine(before)
		}
		if after != "" {
			after = m.highlightLine(after)
		}
	} else {
		before = bg.Render(before)
		after = bg.Render(after)
	}

	m.cursor.SetChar(cursorChar)
	m.cursor.TextStyle = bg
	cursorView := m.cursor.View()

	return before + cursorView + after
}
