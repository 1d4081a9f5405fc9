// Package render provides the built-in renderer callbacks for live blocks:
// a chroma-highlighted code renderer and a glamour markdown renderer for
// admonition blocks. Both are pure functions of the render context; the
// shared SQLite cache only short-circuits recomputation.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xonecas/livemark/internal/deco"
	"github.com/xonecas/livemark/internal/liveblock"
)

var (
	summarySty = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")).Italic(true)
	labelSty   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	warnSty    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d78700"))
)

// inlineSummary builds the collapsed one-line element shown in place of the
// raw block: a disclosure arrow, the block label, and the interior size.
func inlineSummary(label string, ctx liveblock.RenderContext) deco.Content {
	n := 0
	if ctx.Interior != "" {
		n = strings.Count(ctx.Interior, "\n") + 1
	}
	noun := "lines"
	if n == 1 {
		noun = "line"
	}
	line := fmt.Sprintf("%s %s",
		labelSty.Render("▸ "+label),
		summarySty.Render(fmt.Sprintf("· %d %s", n, noun)))
	return deco.Content{Lines: []string{line}}
}

// splitLines splits rendered output into rows, trimming the trailing blank
// rows renderers tend to leave behind.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
