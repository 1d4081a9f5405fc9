package tui

import (
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/rs/zerolog"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/deco"
)

// stripANSI removes ANSI escape codes for golden file comparison
func stripANSI(s string) string {
	ansiRe := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRe.ReplaceAllString(s, "")
}

const testDoc = "# Notes\n\n```go\nx := 1\n```\n\n- [ ] ship it"

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(config.Default(), nil, "notes.md", testDoc, zerolog.Nop())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	return updated.(Model)
}

func TestLayout(t *testing.T) {
	m := newTestModel(t)
	golden.RequireEqual(t, []byte(stripANSI(m.View())))
}

func TestInitialPassDecorates(t *testing.T) {
	m := newTestModel(t)
	st := m.editor.Store()
	if st.MarkerCount() != 1 {
		t.Errorf("MarkerCount = %d, want 1", st.MarkerCount())
	}
	if st.WidgetCount() != 1 {
		t.Errorf("WidgetCount = %d, want 1", st.WidgetCount())
	}
}

func TestEditSchedulesDebouncedPass(t *testing.T) {
	m := newTestModel(t)
	gen := m.passGen

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("edit produced no command")
	}
	if m.passGen == gen {
		t.Fatal("edit did not advance the pass generation")
	}
	if !m.dirty {
		t.Error("edit did not mark the buffer dirty")
	}

	// A stale generation is dropped; the current one runs a pass.
	updated, _ = m.Update(reconcileMsg{gen: m.passGen - 1})
	m = updated.(Model)
	updated, _ = m.Update(reconcileMsg{gen: m.passGen})
	m = updated.(Model)
	if m.editor.Store().MarkerCount() != 1 {
		t.Errorf("MarkerCount after pass = %d, want 1", m.editor.Store().MarkerCount())
	}
}

func TestCheckboxToggleKey(t *testing.T) {
	m := newTestModel(t)
	m.editor.SetCursor(deco.Pos{Line: 6})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if got := m.editor.Line(6); got != "- [x] ship it" {
		t.Errorf("line after toggle = %q", got)
	}
	if !m.dirty {
		t.Error("toggle did not mark the buffer dirty")
	}
}

func TestMarkerRevealOnCursorEntry(t *testing.T) {
	m := newTestModel(t)
	ed := m.editor
	if ed.Store().MarkerCount() != 1 {
		t.Fatalf("MarkerCount = %d, want 1", ed.Store().MarkerCount())
	}

	// Moving into the block clears the marker immediately, without
	// waiting for a pass.
	ed.SetCursor(deco.Pos{Line: 3})
	if ed.Store().MarkerCount() != 0 {
		t.Errorf("MarkerCount after entry = %d, want 0", ed.Store().MarkerCount())
	}
}
