package editor

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/liveblock"
)

func newTestEditor(content string) Model {
	ed := New(deco.NewStore())
	ed.SetWidth(40)
	ed.SetHeight(8)
	ed.SetValue(content)
	ed.Focus()
	return ed
}

func viewLines(ed Model) []string {
	lines := strings.Split(ed.View(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(ansi.Strip(l), " ")
	}
	return lines
}

func TestSurfaceAccessors(t *testing.T) {
	ed := newTestEditor("alpha\nbeta\ngamma")
	if got := ed.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}
	if got := ed.Line(1); got != "beta" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := ed.Line(7); got != "" {
		t.Errorf("Line(7) = %q, want empty", got)
	}

	ed.SetCursor(deco.Pos{Line: 2, Ch: 3})
	if c := ed.Cursor(); c.Line != 2 || c.Ch != 3 {
		t.Errorf("Cursor = %+v", c)
	}

	ed.Select(deco.Pos{Line: 0, Ch: 1}, deco.Pos{Line: 1, Ch: 2})
	s, e, ok := ed.Selection()
	if !ok || s != (deco.Pos{Line: 0, Ch: 1}) || e != (deco.Pos{Line: 1, Ch: 2}) {
		t.Errorf("Selection = %+v %+v %v", s, e, ok)
	}

	ed.SetCursor(deco.Pos{Line: 0})
	if _, _, ok := ed.Selection(); ok {
		t.Error("SetCursor should clear the selection")
	}
}

func TestReplaceRangeSingleLine(t *testing.T) {
	ed := newTestEditor("hello world")
	ed.ReplaceRange(deco.Pos{Line: 0, Ch: 6}, deco.Pos{Line: 0, Ch: 11}, "there")
	if got := ed.Value(); got != "hello there" {
		t.Errorf("Value = %q", got)
	}
	if c := ed.Cursor(); c != (deco.Pos{Line: 0, Ch: 11}) {
		t.Errorf("cursor after replace = %+v", c)
	}
}

func TestReplaceRangeMultiLine(t *testing.T) {
	ed := newTestEditor("one\ntwo\nthree\nfour")
	ed.ReplaceRange(deco.Pos{Line: 1, Ch: 1}, deco.Pos{Line: 2, Ch: 3}, "X\nY")
	if got := ed.Value(); got != "one\ntX\nYee\nfour" {
		t.Errorf("Value = %q", got)
	}
	if c := ed.Cursor(); c != (deco.Pos{Line: 2, Ch: 1}) {
		t.Errorf("cursor after replace = %+v", c)
	}
}

func TestReplaceRangeReadOnly(t *testing.T) {
	ed := newTestEditor("keep")
	ed.SetReadOnly(true)
	ed.ReplaceRange(deco.Pos{Line: 0, Ch: 0}, deco.Pos{Line: 0, Ch: 4}, "gone")
	if got := ed.Value(); got != "keep" {
		t.Errorf("Value = %q", got)
	}
}

func TestMarkerReplacesCoveredLines(t *testing.T) {
	ed := newTestEditor("pre\n```go\na\n```\npost")
	st := ed.Store()
	st.AddMarker(deco.Pos{Line: 1}, deco.Pos{Line: 3, Ch: 3}, "code",
		deco.Content{Lines: []string{"[collapsed]"}, EditRow: -1}, deco.MarkerOptions{})
	st.AddWidget(3, "code", deco.Content{Lines: []string{"wa", "wb"}, EditRow: -1})

	lines := viewLines(ed)
	want := []string{"pre", "[collapsed]", "wa", "wb", "post"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("row %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestViewportSkipsDecorationRows(t *testing.T) {
	var doc []string
	for i := 0; i < 20; i++ {
		doc = append(doc, "line")
	}
	ed := newTestEditor(strings.Join(doc, "\n"))
	ed.Store().AddWidget(1, "code",
		deco.Content{Lines: []string{"w1", "w2", "w3"}, EditRow: -1})

	from, to := ed.Viewport()
	if from != 0 {
		t.Errorf("from = %d", from)
	}
	// Height 8 minus three widget rows leaves five buffer lines.
	if to != 5 {
		t.Errorf("to = %d, want 5", to)
	}
}

func TestClickOnMarkerDispatchesHandler(t *testing.T) {
	ed := newTestEditor("pre\n```go\na\n```\npost")
	clicked := false
	ed.Store().AddMarker(deco.Pos{Line: 1}, deco.Pos{Line: 3, Ch: 3}, "code",
		deco.Content{Lines: []string{"[collapsed]"}, OnClick: func() { clicked = true }, EditRow: -1},
		deco.MarkerOptions{})

	ed, _ = ed.Update(tea.MouseMsg{
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, X: 2, Y: 1,
	})
	if !clicked {
		t.Error("marker click handler not invoked")
	}
}

func TestClickOnWidgetEditRow(t *testing.T) {
	ed := newTestEditor("pre\n```go\na\n```\npost")
	var edited, clicked bool
	ed.Store().AddWidget(3, "code", deco.Content{
		Lines:   []string{"body", "[edit]"},
		OnClick: func() { clicked = true },
		OnEdit:  func() { edited = true },
		EditRow: 1,
	})

	// Widget rows follow buffer line 3, so body is row 4 and the edit
	// affordance row 5.
	ed, _ = ed.Update(tea.MouseMsg{
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, X: 0, Y: 5,
	})
	if !edited {
		t.Error("edit handler not invoked")
	}
	if clicked {
		t.Error("click handler should not fire on the edit row")
	}

	ed, _ = ed.Update(tea.MouseMsg{
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, X: 0, Y: 4,
	})
	if !clicked {
		t.Error("click handler not invoked on body row")
	}
}

func TestTokenDeletionDropsLivePreview(t *testing.T) {
	ed := newTestEditor("pre\n```go\nx := 1\n```\npost")
	cfg := liveblock.Config{
		Tag:   "code",
		Begin: regexp.MustCompile("^```(\\w+)\\s*$"),
		End:   regexp.MustCompile("^```\\s*$"),
		RenderInline: func(liveblock.RenderContext) (deco.Content, error) {
			return deco.Content{Lines: []string{"[code]"}, EditRow: -1}, nil
		},
		RenderBlock: func(liveblock.RenderContext) (deco.Content, error) {
			return deco.Content{Lines: []string{"preview"}, EditRow: -1}, nil
		},
		RenderWhenEditing: true,
	}
	eng, err := liveblock.New(&ed, ed.Store(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Process(true); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Cursor entry hides the marker; the live preview stays.
	ed.SetCursor(deco.Pos{Line: 2})
	if got := ed.Store().WidgetCount(); got != 1 {
		t.Fatalf("widgets after cursor entry = %d, want 1", got)
	}

	// Deleting the closing token kills the block. Every scan from here on
	// is empty, so the host must drop the preview itself.
	ed.ReplaceRange(deco.Pos{Line: 3, Ch: 0}, deco.Pos{Line: 3, Ch: 3}, "")
	if err := eng.Process(true); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := ed.Store().WidgetCount(); got != 0 {
		t.Errorf("widgets after token deletion = %d, want 0", got)
	}
	if got := ed.Store().MarkerCount(); got != 0 {
		t.Errorf("markers after token deletion = %d, want 0", got)
	}
}

func TestEditOnDecoratedLineClearsDecoration(t *testing.T) {
	ed := newTestEditor("pre\n```go\nx\n```\npost")
	ed.Store().AddWidget(3, "code", deco.Content{Lines: []string{"w"}, EditRow: -1})

	// A keystroke on the anchor line rewrites the text the decoration was
	// derived from.
	ed.SetCursor(deco.Pos{Line: 3, Ch: 3})
	ed, _ = ed.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if got := ed.Store().WidgetCount(); got != 0 {
		t.Errorf("widgets after keystroke on anchor line = %d, want 0", got)
	}

	// Edits on other lines leave it alone.
	ed.Store().AddWidget(3, "code", deco.Content{Lines: []string{"w"}, EditRow: -1})
	ed.SetCursor(deco.Pos{Line: 0})
	ed, _ = ed.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if got := ed.Store().WidgetCount(); got != 1 {
		t.Errorf("widgets after unrelated keystroke = %d, want 1", got)
	}
}

func TestHoverAccentsDecorationRows(t *testing.T) {
	ed := newTestEditor("pre\n```go\na\n```\npost")
	ed.ShowLineNumbers = true
	ed.Store().AddWidget(3, "code", deco.Content{
		Lines:   []string{"body", "[edit]"},
		EditRow: 1,
	})

	ed, _ = ed.Update(tea.MouseMsg{
		Button: tea.MouseButtonNone, Action: tea.MouseActionMotion, X: 0, Y: 4,
	})
	lines := viewLines(ed)
	if !strings.Contains(lines[4], "▎") || !strings.Contains(lines[5], "▎") {
		t.Errorf("widget rows missing hover accent: %q / %q", lines[4], lines[5])
	}
	if strings.Contains(lines[0], "▎") {
		t.Errorf("text row accented: %q", lines[0])
	}

	ed, _ = ed.Update(tea.MouseMsg{
		Button: tea.MouseButtonNone, Action: tea.MouseActionMotion, X: 0, Y: 0,
	})
	if out := ed.View(); strings.Contains(ansi.Strip(out), "▎") {
		t.Error("hover accent not cleared on text row")
	}
}

func TestCursorEntryClearsMarker(t *testing.T) {
	ed := newTestEditor("pre\n```go\na\n```\npost")
	hidden := false
	ed.Store().AddMarker(deco.Pos{Line: 1}, deco.Pos{Line: 3, Ch: 3}, "code",
		deco.Content{Lines: []string{"[collapsed]"}, EditRow: -1},
		deco.MarkerOptions{ClearOnEnter: true, OnHide: func() { hidden = true }})

	ed.SetCursor(deco.Pos{Line: 2, Ch: 0})
	if !hidden {
		t.Error("marker hide callback not fired")
	}
	if n := ed.Store().MarkerCount(); n != 0 {
		t.Errorf("MarkerCount = %d, want 0", n)
	}
}

func TestTypingBumpsVersion(t *testing.T) {
	ed := newTestEditor("abc")
	before := ed.Version()
	ed, _ = ed.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if ed.Version() == before {
		t.Error("version unchanged after edit")
	}
	if got := ed.Value(); got != "xabc" {
		t.Errorf("Value = %q", got)
	}
}

func TestBackspaceDeletesSelection(t *testing.T) {
	ed := newTestEditor("hello world")
	ed.Select(deco.Pos{Line: 0, Ch: 5}, deco.Pos{Line: 0, Ch: 11})
	ed, _ = ed.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := ed.Value(); got != "hello" {
		t.Errorf("Value = %q", got)
	}
}

func TestLineWidthStaysConstant(t *testing.T) {
	ed := newTestEditor("short\n\tindented line that is rather long for forty cells\nend")
	ed.ShowLineNumbers = true
	ed.Language = "markdown"
	ed.SyntaxTheme = "github-dark"
	ed.BgColor = lipgloss.Color("#000000")

	for i, line := range strings.Split(ed.View(), "\n") {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d: width=%d (want 40)", i, w)
		}
	}
}

func TestExpandTabs(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"\thello", 4 + 5},
		{"\t\thello", 4 + 4 + 5},
		{"ab\tc", 2 + 2 + 1},
		{"no tabs", 7},
	}
	for _, tc := range cases {
		got := expandTabs(tc.in)
		if w := len([]rune(got)); w != tc.want {
			t.Errorf("expandTabs(%q) width=%d, want %d (got %q)", tc.in, w, tc.want, got)
		}
	}
}
