package highlight

import (
	"strings"
	"testing"
)

func TestNormalizeFence(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"go", "go"},
		{"golang", "go"},
		{"GO", "go"},
		{"sh", "bash"},
		{"shell", "bash"},
		{"go linenums", "go"},
		{"text", ""},
		{"", ""},
		{"rust", "rust"},
	}
	for _, tc := range cases {
		if got := NormalizeFence(tc.in); got != tc.want {
			t.Errorf("NormalizeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsShell(t *testing.T) {
	for _, lang := range []string{"sh", "bash", "zsh", "shell"} {
		if !IsShell(lang) {
			t.Errorf("IsShell(%q) = false", lang)
		}
	}
	if IsShell("go") {
		t.Error("IsShell(go) = true")
	}
}

func TestHighlightUnknownLanguagePassesThrough(t *testing.T) {
	in := "some plain text"
	if got := Highlight(in, "nosuchlang", "monokai", "#000000"); got != in {
		t.Errorf("Highlight = %q, want passthrough", got)
	}
}

func TestHighlightInjectsBackground(t *testing.T) {
	out := Highlight("package main", "go", "monokai", "#272822")
	if !strings.Contains(out, "\x1b[48;2;39;40;34m") {
		t.Errorf("background sequence missing from %q", out)
	}
}

func TestSplitLinesPropagatesStyle(t *testing.T) {
	red := "\x1b[31m"
	block := red + "one\ntwo\x1b[0m\nthree"
	lines := SplitLines(block)
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], red) {
		t.Errorf("active style not carried to line 2: %q", lines[1])
	}
	if strings.HasPrefix(lines[2], red) {
		t.Errorf("reset style leaked into line 3: %q", lines[2])
	}
}

func TestThemePaletteDeterministic(t *testing.T) {
	a := ThemePalette("monokai")
	b := ThemePalette("monokai")
	if a != b {
		t.Errorf("palette not deterministic: %+v vs %+v", a, b)
	}
	if a.Bg == "" || a.Accent == "" || a.Gutter == "" || a.Error == "" {
		t.Errorf("palette has empty entries: %+v", a)
	}
}

func TestThemePaletteUnknownThemeFallsBack(t *testing.T) {
	p := ThemePalette("definitely-not-a-theme")
	if p.Bg == "" || p.Fg == "" {
		t.Errorf("fallback palette incomplete: %+v", p)
	}
}
