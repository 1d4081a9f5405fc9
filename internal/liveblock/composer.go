package liveblock

import (
	"strings"

	"github.com/xonecas/livemark/internal/deco"
)

// compose renders both elements for a block. Nothing is committed here;
// the reconciler only applies the result once both renderers succeed.
func (e *Engine) compose(r BlockRange) (inline, block deco.Content, err error) {
	ctx := e.renderContext(r)
	inline, err = e.cfg.RenderInline(ctx)
	if err != nil {
		return deco.Content{}, deco.Content{}, err
	}
	block, err = e.cfg.RenderBlock(ctx)
	if err != nil {
		return deco.Content{}, deco.Content{}, err
	}
	inline.EditRow = -1
	block.EditRow = -1
	return inline, block, nil
}

// composeBlock renders only the widget element (live preview while editing).
func (e *Engine) composeBlock(r BlockRange) (deco.Content, error) {
	block, err := e.cfg.RenderBlock(e.renderContext(r))
	if err != nil {
		return deco.Content{}, err
	}
	block.EditRow = -1
	return block, nil
}

func (e *Engine) renderContext(r BlockRange) RenderContext {
	return RenderContext{
		BeginMatch: r.BeginMatch,
		EndMatch:   r.EndMatch,
		Interior:   e.interior(r),
		FromLine:   r.FromLine,
		ToLine:     r.ToLine,
	}
}

// interior joins the lines between the token lines.
func (e *Engine) interior(r BlockRange) string {
	if r.ToLine-r.FromLine < 2 {
		return ""
	}
	var sb strings.Builder
	for i := r.FromLine + 1; i < r.ToLine; i++ {
		if i > r.FromLine+1 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.surface.Line(i))
	}
	return sb.String()
}

// wire attaches the interaction handlers for the collapsed state. Handlers
// resolve the current decoration pair through h at click time, so they stay
// correct when the reconciler reassigns the pair. On a read-only surface
// the elements render but do not mutate anything.
func (e *Engine) wire(r BlockRange, h *handles, inline, block *deco.Content) {
	if e.surface.ReadOnly() {
		return
	}

	if e.cfg.ClearOnClick {
		inline.OnClick = func() {
			clearPair(*h)
			h.marker = nil
			h.widget = nil
			e.surface.SetCursor(e.rawCursorPos(r))
		}
	}
	e.wireBlock(r, h, block)
}

// wireBlock appends the edit affordance row and attaches its handler:
// reveal the raw lines and select the interior content so the user can
// retype it. Read-only surfaces get no affordance at all.
func (e *Engine) wireBlock(r BlockRange, h *handles, block *deco.Content) {
	if e.surface.ReadOnly() {
		return
	}

	label := e.cfg.EditLabel
	if label == "" {
		label = "[edit]"
	}
	block.Lines = append(block.Lines, label)
	block.EditRow = len(block.Lines) - 1

	block.OnEdit = func() {
		if h.marker != nil {
			h.marker.Clear()
			h.marker = nil
		}
		if r.ToLine-r.FromLine < 2 {
			e.surface.SetCursor(deco.Pos{Line: r.FromLine, Ch: e.lineLen(r.FromLine)})
			return
		}
		last := r.ToLine - 1
		e.surface.Select(
			deco.Pos{Line: r.FromLine + 1, Ch: 0},
			deco.Pos{Line: last, Ch: e.lineLen(last)},
		)
	}
}

// rawCursorPos is where the cursor lands after click-to-clear: on the first
// interior line when there is one, else on the begin-token line.
func (e *Engine) rawCursorPos(r BlockRange) deco.Pos {
	if r.ToLine-r.FromLine >= 2 {
		return deco.Pos{Line: r.FromLine + 1, Ch: 0}
	}
	return deco.Pos{Line: r.FromLine, Ch: 0}
}
