package render

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/liveblock"
	"github.com/xonecas/livemark/internal/rcache"
)

// NoteOptions configures the admonition renderer.
type NoteOptions struct {
	// Style is the glamour style name, "dark" when empty.
	Style string
	// Width bounds the rendered output. Zero means glamour's default.
	Width int
	// Cache short-circuits repeated markdown rendering. Nil disables caching.
	Cache *rcache.Cache
}

// NoteInline returns the collapsed renderer for admonition blocks. The
// admonition kind from the begin token (note, warning, tip) becomes the label.
func NoteInline() liveblock.RenderFunc {
	return func(ctx liveblock.RenderContext) (deco.Content, error) {
		return inlineSummary(noteKind(ctx), ctx), nil
	}
}

// NoteBlock returns the expanded renderer for admonition blocks. The
// interior is rendered as markdown via glamour under a kind header.
func NoteBlock(opts NoteOptions) liveblock.RenderFunc {
	style := opts.Style
	if style == "" {
		style = "dark"
	}
	return func(ctx liveblock.RenderContext) (deco.Content, error) {
		kind := noteKind(ctx)
		key := rcache.Key("note:"+kind, style, ctx.Interior)
		out, ok := opts.Cache.Get(key)
		if !ok {
			rendered, err := renderMarkdown(ctx.Interior, style, opts.Width)
			if err != nil {
				return deco.Content{}, err
			}
			out = rendered
			opts.Cache.Put(key, out)
		}

		lines := []string{labelSty.Render("── " + kind + " ──")}
		lines = append(lines, splitLines(out)...)
		return deco.Content{Lines: lines}, nil
	}
}

func noteKind(ctx liveblock.RenderContext) string {
	if len(ctx.BeginMatch) > 1 {
		if kind := strings.TrimSpace(ctx.BeginMatch[1]); kind != "" {
			return kind
		}
	}
	return "note"
}

func renderMarkdown(src, style string, width int) (string, error) {
	gopts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		gopts = append(gopts, glamour.WithWordWrap(width))
	}
	tr, err := glamour.NewTermRenderer(gopts...)
	if err != nil {
		return "", err
	}
	out, err := tr.Render(src)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
