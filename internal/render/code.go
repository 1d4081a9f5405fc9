package render

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/highlight"
	"github.com/xonecas/livemark/internal/liveblock"
	"github.com/xonecas/livemark/internal/rcache"
)

// CodeOptions configures the code-block renderer.
type CodeOptions struct {
	// Theme is the chroma style name.
	Theme string
	// Cache short-circuits repeated highlighting. Nil disables caching.
	Cache *rcache.Cache
}

// CodeInline returns the collapsed renderer for fenced code blocks. The
// language capture from the begin token becomes the label.
func CodeInline() liveblock.RenderFunc {
	return func(ctx liveblock.RenderContext) (deco.Content, error) {
		return inlineSummary(codeLabel(ctx), ctx), nil
	}
}

// CodeBlock returns the expanded renderer for fenced code blocks:
// chroma-highlighted interior under a language header, with a syntax
// warning badge for shell scripts that do not parse.
func CodeBlock(opts CodeOptions) liveblock.RenderFunc {
	return func(ctx liveblock.RenderContext) (deco.Content, error) {
		lang := codeLang(ctx)

		lines := []string{labelSty.Render("── " + codeLabel(ctx) + " ──")}
		lines = append(lines, highlightLines(opts, ctx.Interior, lang)...)

		if highlight.IsShell(lang) {
			if err := checkShellSyntax(ctx.Interior); err != nil {
				lines = append(lines, warnSty.Render("⚠ "+err.Error()))
			}
		}
		return deco.Content{Lines: lines}, nil
	}
}

func codeLang(ctx liveblock.RenderContext) string {
	if len(ctx.BeginMatch) > 1 {
		return highlight.NormalizeFence(ctx.BeginMatch[1])
	}
	return ""
}

func codeLabel(ctx liveblock.RenderContext) string {
	if lang := codeLang(ctx); lang != "" {
		return lang
	}
	return "code"
}

// highlightLines renders the interior through the highlighter, splitting
// the block into widget rows with style state carried across lines. The
// SQLite cache sits in front of the in-process memo so highlights survive
// restarts.
func highlightLines(opts CodeOptions, text, lang string) []string {
	if text == "" {
		return nil
	}
	key := rcache.Key("code:"+lang, opts.Theme, text)
	out, ok := opts.Cache.Get(key)
	if !ok {
		out = highlight.Cached(text, lang, opts.Theme, highlight.ThemeBg(opts.Theme))
		opts.Cache.Put(key, out)
	}
	return highlight.SplitLines(out)
}

// checkShellSyntax parses the script with mvdan/sh and reports the first
// syntax error, so a broken script is flagged right in the preview.
func checkShellSyntax(src string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(src), ""); err != nil {
		return fmt.Errorf("shell syntax: %v", err)
	}
	return nil
}
