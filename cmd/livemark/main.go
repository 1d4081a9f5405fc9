package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/rcache"
	"github.com/xonecas/livemark/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml (default: ~/.config/livemark/config.toml)")
		readOnly   = flag.Bool("readonly", false, "open the file read-only")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: livemark [flags] <file.md>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *configPath == "" {
		if dir, err := config.DataDir(); err == nil {
			*configPath = filepath.Join(dir, "config.toml")
		}
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "livemark: %v\n", err)
		os.Exit(1)
	}
	if *readOnly {
		cfg.UI.ReadOnly = true
	}

	log := newLogger(cfg)

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "livemark: %v\n", err)
		os.Exit(1)
	}

	cache := openCache(cfg, log)
	defer cache.Close()

	m := tui.New(cfg, cache, path, string(content), log)
	restoreCursor(&m, path)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Click, drag and hover tracking
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "livemark: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the file logger. The terminal belongs to the TUI, so
// logging stays off unless a file is configured.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Log.File == "" {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop()
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger()
}

// openCache opens the render cache. A broken cache degrades to uncached
// rendering rather than blocking startup.
func openCache(cfg *config.Config, log zerolog.Logger) *rcache.Cache {
	if cfg.Cache.Disabled {
		return nil
	}
	dbPath := cfg.Cache.Path
	if dbPath == "" {
		dir, err := config.EnsureDataDir()
		if err != nil {
			log.Warn().Err(err).Msg("render cache unavailable")
			return nil
		}
		dbPath = filepath.Join(dir, "render_cache.db")
	}
	ttl := time.Duration(cfg.Cache.CacheTTLOrDefault()) * time.Hour
	cache, err := rcache.Open(dbPath, ttl)
	if err != nil {
		log.Warn().Err(err).Msg("render cache unavailable")
		return nil
	}
	return cache
}

func restoreCursor(m *tui.Model, path string) {
	state, err := config.LoadState()
	if err != nil {
		return
	}
	fs := state.FileState(path)
	m.Editor().SetCursor(deco.Pos{Line: fs.CursorLine, Ch: fs.CursorCh})
}
