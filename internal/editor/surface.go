package editor

import (
	"math"
	"strings"

	"github.com/xonecas/livemark/internal/deco"
)

// The editor is the host surface for block reconciliation: it exposes the
// buffer, viewport, cursor and selection, and accepts cursor and range
// mutations from decoration handlers.

func posToDeco(p pos) deco.Pos { return deco.Pos{Line: p.row, Ch: p.col} }

// Line returns the text of buffer line i, or "" out of range.
func (m *Model) Line(i int) string {
	if i < 0 || i >= len(m.lines) {
		return ""
	}
	return string(m.lines[i])
}

// LineCount returns the number of buffer lines.
func (m *Model) LineCount() int { return len(m.lines) }

// Viewport returns the half-open buffer line range currently on screen.
// Decoration rows consume screen height, so the range covers only the
// buffer lines that actually fit.
func (m *Model) Viewport() (from, to int) {
	if m.height <= 0 {
		return 0, len(m.lines)
	}
	rows := m.visualRows()
	if len(rows) == 0 {
		return 0, 0
	}
	lo := m.scroll
	if lo >= len(rows) {
		lo = len(rows) - 1
	}
	hi := m.scroll + m.height
	if hi > len(rows) {
		hi = len(rows)
	}
	from = rows[lo].line
	to = from
	for _, vr := range rows[lo:hi] {
		if vr.last >= to {
			to = vr.last + 1
		}
	}
	return from, to
}

// Cursor returns the cursor position.
func (m *Model) Cursor() deco.Pos { return deco.Pos{Line: m.row, Ch: m.col} }

// Selection returns the ordered selection endpoints, if any.
func (m *Model) Selection() (start, end deco.Pos, ok bool) {
	if !m.hasSelection() {
		return deco.Pos{}, deco.Pos{}, false
	}
	s, e := m.selectionOrdered()
	return deco.Pos{Line: s.row, Ch: s.col}, deco.Pos{Line: e.row, Ch: e.col}, true
}

// ReadOnly reports whether the buffer rejects edits.
func (m *Model) ReadOnly() bool { return m.readOnly }

// SetCursor places the cursor, clears any selection, and notifies the
// decoration store of the movement.
func (m *Model) SetCursor(p deco.Pos) {
	m.clearSelection()
	m.row = p.Line
	m.col = p.Ch
	m.clampCursor()
	m.clampScroll()
	m.fireCursorMoved()
}

// Select sets the selection to [start, end] and places the cursor at end.
func (m *Model) Select(start, end deco.Pos) {
	m.row = end.Line
	m.col = end.Ch
	m.clampCursor()
	m.selectStart = pos{row: start.Line, col: start.Ch}
	m.selectEnd = pos{row: m.row, col: m.col}
	m.clampScroll()
	m.fireCursorMoved()
}

// clearDecorationsIn drops every decoration anchored in the buffer lines
// [fromLine, toLine]. An edit invalidates the text a decoration was derived
// from; positional lookups on the old span must come back empty afterwards.
// The next reconciliation pass rebuilds whatever still applies.
func (m *Model) clearDecorationsIn(fromLine, toLine int) {
	if m.store == nil {
		return
	}
	from := deco.Pos{Line: fromLine}
	to := deco.Pos{Line: toLine, Ch: math.MaxInt}
	for _, mk := range m.store.FindMarkers(from, to, "") {
		mk.Clear()
	}
	for _, w := range m.store.WidgetsIn(fromLine, toLine, "") {
		w.Clear()
	}
}

// ReplaceRange splices text over the half-open range [from, to) and leaves
// the cursor at the end of the inserted text. No-op when read only.
func (m *Model) ReplaceRange(from, to deco.Pos, text string) {
	if m.readOnly {
		return
	}
	if to.Before(from) {
		from, to = to, from
	}
	fl := clampMax(from.Line, len(m.lines)-1)
	tl := clampMax(to.Line, len(m.lines)-1)
	fc := clampMax(from.Ch, len(m.lines[fl]))
	tc := clampMax(to.Ch, len(m.lines[tl]))

	m.clearDecorationsIn(fl, tl)

	prefix := append([]rune{}, m.lines[fl][:fc]...)
	suffix := append([]rune{}, m.lines[tl][tc:]...)

	repl := strings.Split(text, "\n")
	spliced := make([][]rune, 0, len(m.lines)-(tl-fl+1)+len(repl))
	spliced = append(spliced, m.lines[:fl]...)
	for i, seg := range repl {
		row := []rune(seg)
		if i == 0 {
			row = append(append([]rune{}, prefix...), row...)
		}
		if i == len(repl)-1 {
			endCol := len(row)
			row = append(row, suffix...)
			m.row = fl + i
			m.col = endCol
		}
		spliced = append(spliced, row)
	}
	spliced = append(spliced, m.lines[tl+1:]...)
	m.lines = spliced

	m.clearSelection()
	m.clampCursor()
	m.clampScroll()
	m.edited()
}
