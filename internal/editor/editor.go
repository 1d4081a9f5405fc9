// Package editor provides a decoration-aware text editor component for
// bubbletea. Supports optional line numbers, gutter marks, Chroma syntax
// highlighting, mouse cursor placement, drag-to-select, and live block
// decorations: marker content drawn in place of covered lines and widget
// rows drawn below their anchor line.
package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/highlight"
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is a decoration-aware text editor component. The zero value is not
// usable; call New.
type Model struct {
	// Public configuration: set before first Update/View.
	ShowLineNumbers bool
	Language        string // Chroma lexer name (empty = no highlighting)
	SyntaxTheme     string // Chroma style name (empty = no highlighting)

	// Styles set by the parent.
	CursorStyle  lipgloss.Style // Foreground for the cursor character
	LineNumStyle lipgloss.Style // Line number gutter
	MarkStyle    lipgloss.Style // Gutter marks
	BgColor      lipgloss.Color // Fallback bg when no syntax theme

	// Decorations. Nil disables decoration rendering entirely.
	store *deco.Store

	// Internal state
	lines  [][]rune // Backing store, one entry per line
	row    int      // Cursor row (0-indexed into lines)
	col    int      // Cursor column (0-indexed into line runes)
	scroll int      // First visible visual row

	width  int // Viewport width (cells)
	height int // Viewport height (rows)

	focus    bool
	readOnly bool
	cursor   cursor.Model

	// Selection. Persistent until the next cursor placement.
	selecting   bool
	selectStart pos
	selectEnd   pos

	// Gutter marks by buffer line, drawn in place of the line number.
	marks map[int]string

	// Visual row the pointer hovers over, -1 when none. Cosmetic only:
	// hovered decorations get a gutter accent, the store is untouched.
	hoverRow int

	// version increments on every edit or cursor movement; revision only
	// on buffer mutation. Parents poll them to schedule reconciliation
	// and to track dirtiness.
	version  uint64
	revision uint64

	gutterWidth int // Width of line number gutter (0 if disabled)
}

type pos struct{ row, col int }

// New creates a new editor backed by the given decoration store. The store
// may be nil for a plain editor.
func New(store *deco.Store) Model {
	c := cursor.New()
	c.SetMode(cursor.CursorBlink)
	return Model{
		store:    store,
		lines:    [][]rune{{}},
		marks:    map[int]string{},
		cursor:   c,
		hoverRow: -1,
	}
}

// ---------------------------------------------------------------------------
// Public methods called by parent
// ---------------------------------------------------------------------------

func (m *Model) SetWidth(w int)  { m.width = w; m.clampScroll() }
func (m *Model) SetHeight(h int) { m.height = h; m.clampScroll() }

func (m *Model) Focus() {
	m.focus = true
	m.cursor.Focus()
}

func (m *Model) Blur() {
	m.focus = false
	m.cursor.Blur()
}

func (m Model) Focused() bool { return m.focus }

// SetReadOnly toggles whether the buffer rejects edits.
func (m *Model) SetReadOnly(ro bool) { m.readOnly = ro }

// Store returns the decoration store backing this editor.
func (m Model) Store() *deco.Store { return m.store }

// Version increments whenever the buffer or cursor changes. Equal values
// mean no reconciliation is needed.
func (m Model) Version() uint64 { return m.version }

// Revision increments whenever the buffer text changes.
func (m Model) Revision() uint64 { return m.revision }

func (m *Model) SetValue(s string) {
	raw := strings.Split(s, "\n")
	m.lines = make([][]rune, len(raw))
	for i, l := range raw {
		m.lines[i] = []rune(l)
	}
	if len(m.lines) == 0 {
		m.lines = [][]rune{{}}
	}
	m.row = 0
	m.col = 0
	m.scroll = 0
	m.version++
}

func (m Model) Value() string {
	var sb strings.Builder
	for i, line := range m.lines {
		sb.WriteString(string(line))
		if i < len(m.lines)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetMarks replaces the gutter mark set. Keys are buffer lines.
func (m *Model) SetMarks(marks map[int]string) {
	if marks == nil {
		marks = map[int]string{}
	}
	m.marks = marks
}

// Blink returns the initial cursor blink message. Call from Init().
func Blink() tea.Msg { return cursor.Blink() }

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (m *Model) currentLine() []rune { return m.lines[m.row] }

func (m *Model) clampCursor() {
	if m.row < 0 {
		m.row = 0
	}
	if m.row >= len(m.lines) {
		m.row = len(m.lines) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if m.col > len(m.currentLine()) {
		m.col = len(m.currentLine())
	}
}

// clampScroll keeps the cursor's visual row on screen and the scroll within
// the visual row count.
func (m *Model) clampScroll() {
	if m.height <= 0 {
		return
	}
	rows := m.visualRows()
	cv := cursorVisualRow(rows, m.row)
	if cv < m.scroll {
		m.scroll = cv
	}
	if cv >= m.scroll+m.height {
		m.scroll = cv - m.height + 1
	}
	maxScroll := len(rows) - m.height
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

// edited records a buffer mutation. Both counters move so parents can
// distinguish text changes from plain cursor movement.
func (m *Model) edited() {
	m.version++
	m.revision++
}

// fireCursorMoved notifies the decoration store of cursor movement so that
// clear-on-enter markers covering the new position are released.
func (m *Model) fireCursorMoved() {
	m.version++
	if m.store != nil {
		m.store.CursorMoved(deco.Pos{Line: m.row, Ch: m.col})
	}
}

const tabWidth = 4

// expandTabs replaces tabs with spaces (tabWidth-aligned).
func expandTabs(s string) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		} else {
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// textWidth returns the width available for text content.
func (m *Model) textWidth() int {
	m.gutterWidth = 0
	if m.ShowLineNumbers {
		digits := len(fmt.Sprintf("%d", len(m.lines)))
		if digits < 2 {
			digits = 2
		}
		m.gutterWidth = digits + 1 // digits + 1 space
	}
	w := m.width - m.gutterWidth
	if w < 1 {
		w = 1
	}
	return w
}

// bgForRender returns the background style. Extracts from syntax theme if
// available, falls back to BgColor.
func (m *Model) bgForRender() lipgloss.Style {
	if m.Language != "" && m.SyntaxTheme != "" {
		if hex := highlight.ThemeBg(m.SyntaxTheme); hex != "" {
			return lipgloss.NewStyle().Background(lipgloss.Color(hex))
		}
	}
	return lipgloss.NewStyle().Background(m.BgColor)
}

// ---------------------------------------------------------------------------
// Editing operations
// ---------------------------------------------------------------------------

func (m *Model) insertRune(r rune) {
	if m.readOnly {
		return
	}
	m.clearDecorationsIn(m.row, m.row)
	line := m.currentLine()
	newLine := make([]rune, 0, len(line)+1)
	newLine = append(newLine, line[:m.col]...)
	newLine = append(newLine, r)
	newLine = append(newLine, line[m.col:]...)
	m.lines[m.row] = newLine
	m.col++
	m.edited()
}

func (m *Model) insertNewline() {
	if m.readOnly {
		return
	}
	m.clearDecorationsIn(m.row, m.row)
	line := m.currentLine()
	after := make([]rune, len(line[m.col:]))
	copy(after, line[m.col:])
	m.lines[m.row] = line[:m.col]
	newLines := make([][]rune, 0, len(m.lines)+1)
	newLines = append(newLines, m.lines[:m.row+1]...)
	newLines = append(newLines, after)
	newLines = append(newLines, m.lines[m.row+1:]...)
	m.lines = newLines
	m.row++
	m.col = 0
	m.edited()
}

func (m *Model) deleteBack() {
	if m.readOnly {
		return
	}
	if m.col > 0 {
		m.clearDecorationsIn(m.row, m.row)
		line := m.currentLine()
		m.lines[m.row] = append(line[:m.col-1], line[m.col:]...)
		m.col--
		m.edited()
	} else if m.row > 0 {
		m.clearDecorationsIn(m.row-1, m.row)
		prev := m.lines[m.row-1]
		m.col = len(prev)
		m.lines[m.row-1] = append(prev, m.currentLine()...)
		m.lines = append(m.lines[:m.row], m.lines[m.row+1:]...)
		m.row--
		m.edited()
	}
}

func (m *Model) deleteForward() {
	if m.readOnly {
		return
	}
	line := m.currentLine()
	if m.col < len(line) {
		m.clearDecorationsIn(m.row, m.row)
		m.lines[m.row] = append(line[:m.col], line[m.col+1:]...)
		m.edited()
	} else if m.row < len(m.lines)-1 {
		m.clearDecorationsIn(m.row, m.row+1)
		m.lines[m.row] = append(line, m.lines[m.row+1]...)
		m.lines = append(m.lines[:m.row+1], m.lines[m.row+2:]...)
		m.edited()
	}
}

func (m *Model) tabIndent() {
	if m.readOnly {
		return
	}
	// Indent to match the leading whitespace of the line above.
	indent := "\t"
	if m.row > 0 {
		above := m.lines[m.row-1]
		indent = ""
		for _, r := range above {
			if r == ' ' || r == '\t' {
				indent += string(r)
			} else {
				break
			}
		}
		if indent == "" {
			indent = "\t"
		}
	}
	for _, r := range indent {
		m.insertRune(r)
	}
}

// ---------------------------------------------------------------------------
// Selection helpers
// ---------------------------------------------------------------------------

func (m *Model) selectionOrdered() (start, end pos) {
	s, e := m.selectStart, m.selectEnd
	if s.row > e.row || (s.row == e.row && s.col > e.col) {
		s, e = e, s
	}
	return s, e
}

func (m *Model) hasSelection() bool {
	return m.selectStart != m.selectEnd
}

func (m *Model) clearSelection() {
	m.selecting = false
	m.selectStart = pos{}
	m.selectEnd = pos{}
}

func (m *Model) selectedText() string {
	if !m.hasSelection() {
		return ""
	}
	s, e := m.selectionOrdered()
	if s.row == e.row {
		line := m.lines[s.row]
		sc := clampMax(s.col, len(line))
		ec := clampMax(e.col, len(line))
		return string(line[sc:ec])
	}
	var sb strings.Builder
	first := m.lines[s.row]
	sb.WriteString(string(first[clampMax(s.col, len(first)):]))
	for r := s.row + 1; r < e.row; r++ {
		sb.WriteByte('\n')
		sb.WriteString(string(m.lines[r]))
	}
	sb.WriteByte('\n')
	last := m.lines[e.row]
	sb.WriteString(string(last[:clampMax(e.col, len(last))]))
	return sb.String()
}

func clampMax(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
