package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Blocks) == 0 {
		t.Fatal("defaults carry no block kinds")
	}
	if cfg.UI.SyntaxThemeOrDefault() != "github-dark" {
		t.Errorf("default theme = %q", cfg.UI.SyntaxThemeOrDefault())
	}

	cfg, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if len(cfg.Blocks) == 0 {
		t.Fatal("missing file should fall back to defaults")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[ui]
syntax_theme = "monokai"
line_numbers = true

[cache]
path = "/tmp/lm-cache.db"
ttl_hours = 48

[[block]]
tag = "quote"
begin = '^>>>\s*$'
end = '^<<<\s*$'
renderer = "markdown"
render_when_editing = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.SyntaxTheme != "monokai" {
		t.Errorf("syntax_theme = %q", cfg.UI.SyntaxTheme)
	}
	if cfg.Cache.CacheTTLOrDefault() != 48 {
		t.Errorf("ttl = %d", cfg.Cache.CacheTTLOrDefault())
	}
	if cfg.Cache.Path != "/tmp/lm-cache.db" {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
	if len(cfg.Blocks) != 1 || cfg.Blocks[0].Tag != "quote" {
		t.Fatalf("blocks = %+v", cfg.Blocks)
	}
	if !cfg.Blocks[0].RenderWhenEditing {
		t.Error("render_when_editing not decoded")
	}
}

func TestValidateRejectsBadBlocks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing tag",
			body: "[[block]]\nbegin = 'a'\nend = 'b'\nrenderer = 'code'\n",
			want: "tag is required",
		},
		{
			name: "bad regexp",
			body: "[[block]]\ntag = 'x'\nbegin = '('\nend = 'b'\nrenderer = 'code'\n",
			want: "begin",
		},
		{
			name: "unknown renderer",
			body: "[[block]]\ntag = 'x'\nbegin = 'a'\nend = 'b'\nrenderer = 'webgl'\n",
			want: "renderer",
		},
		{
			name: "duplicate tag",
			body: "[[block]]\ntag = 'x'\nbegin = 'a'\nend = 'b'\nrenderer = 'code'\n" +
				"[[block]]\ntag = 'x'\nbegin = 'c'\nend = 'd'\nrenderer = 'code'\n",
			want: "duplicated",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LIVEMARK_SYNTAX_THEME", "dracula")
	path := writeConfig(t, "[ui]\nsyntax_theme = 'monokai'\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.SyntaxTheme != "dracula" {
		t.Errorf("env override ignored: %q", cfg.UI.SyntaxTheme)
	}
}
