package tui

import (
	"regexp"
	"time"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/linedeco"
	"github.com/xonecas/livemark/internal/liveblock"
	"github.com/xonecas/livemark/internal/rcache"
	"github.com/xonecas/livemark/internal/render"
)

// buildBlocks turns the block sections of the configuration into engine
// configurations. Patterns were validated at load time; a compile failure
// here means the config changed underneath us, so the block is skipped.
func buildBlocks(cfg *config.Config, cache *rcache.Cache) []liveblock.Config {
	theme := cfg.UI.SyntaxThemeOrDefault()
	blocks := make([]liveblock.Config, 0, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		begin, err := regexp.Compile(b.Begin)
		if err != nil {
			continue
		}
		end, err := regexp.Compile(b.End)
		if err != nil {
			continue
		}

		lc := liveblock.Config{
			Tag:               b.Tag,
			Begin:             begin,
			End:               end,
			EditLabel:         b.EditLabel,
			ClearOnClick:      b.ClearOnClick,
			RenderWhenEditing: b.RenderWhenEditing,
		}
		switch b.Renderer {
		case "markdown":
			lc.RenderInline = render.NoteInline()
			lc.RenderBlock = render.NoteBlock(render.NoteOptions{Cache: cache})
		default:
			lc.RenderInline = render.CodeInline()
			lc.RenderBlock = render.CodeBlock(render.CodeOptions{Theme: theme, Cache: cache})
		}
		blocks = append(blocks, lc)
	}
	return blocks
}

// runPasses runs one reconciliation pass for every block kind and refreshes
// the gutter marks. Engines are constructed against the current editor
// value; they hold no state between passes.
func (m *Model) runPasses(fullDoc bool) {
	start := time.Now()
	m.passErr = nil
	for _, bc := range m.blocks {
		eng, err := liveblock.New(m.editor, m.editor.Store(), bc)
		if err != nil {
			m.passErr = err
			m.log.Error().Err(err).Str("tag", bc.Tag).Msg("engine setup failed")
			continue
		}
		if err := eng.Process(fullDoc); err != nil {
			m.passErr = err
			m.log.Warn().Err(err).Str("tag", bc.Tag).Msg("reconcile pass failed")
		}
	}
	m.editor.SetMarks(linedeco.Marks(m.editor))
	m.lastVersion = m.editor.Version()
	m.log.Debug().Bool("full", fullDoc).Dur("took", time.Since(start)).Msg("reconcile pass")
}
