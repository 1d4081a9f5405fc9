// Package tui is the terminal frontend: a decoration-aware markdown editor
// with a status line. It owns the event loop; reconciliation passes run
// synchronously inside Update, debounced behind rapid edits.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/editor"
	"github.com/xonecas/livemark/internal/highlight"
	"github.com/xonecas/livemark/internal/liveblock"
	"github.com/xonecas/livemark/internal/rcache"
)

// Model is the application model
type Model struct {
	width  int
	height int
	ready  bool

	cfg   *config.Config
	cache *rcache.Cache
	path  string

	// The editor sits behind a stable pointer: decoration handlers close
	// over the engine's surface, and those closures must keep acting on
	// the live editor even as bubbletea copies the outer model.
	editor *editor.Model

	// blocks holds one engine configuration per decorated block kind.
	// Engines themselves are rebuilt per pass; they carry no state.
	blocks []liveblock.Config

	lastVersion uint64
	passGen     int
	passErr     error

	dirty  bool
	status string

	// Status line style for failed passes, colored from the theme's
	// error token.
	warnSty lipgloss.Style

	log zerolog.Logger
}

// New creates the application model for one file.
func New(cfg *config.Config, cache *rcache.Cache, path, content string, log zerolog.Logger) Model {
	pal := highlight.ThemePalette(cfg.UI.SyntaxThemeOrDefault())

	ed := editor.New(deco.NewStore())
	ed.ShowLineNumbers = cfg.UI.LineNumbers
	ed.Language = "markdown"
	ed.SyntaxTheme = cfg.UI.SyntaxThemeOrDefault()
	ed.BgColor = lipgloss.Color(pal.Bg)
	ed.CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Accent))
	ed.LineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Gutter))
	ed.MarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Accent))
	ed.SetReadOnly(cfg.UI.ReadOnly)
	ed.SetValue(content)
	ed.Focus()

	m := Model{
		cfg:     cfg,
		cache:   cache,
		path:    path,
		editor:  &ed,
		blocks:  buildBlocks(cfg, cache),
		warnSty: statusSty.Foreground(lipgloss.Color(pal.Error)),
		log:     log,
	}
	m.lastVersion = ed.Version()
	return m
}

// Editor exposes the editor for startup wiring (cursor restore).
func (m Model) Editor() *editor.Model { return m.editor }

// Init initializes the TUI (required by BubbleTea)
func (m Model) Init() tea.Cmd {
	return editor.Blink
}
