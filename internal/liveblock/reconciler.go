package liveblock

import (
	"unicode/utf8"

	"github.com/xonecas/livemark/internal/deco"
)

// handles is the current decoration pair for one block. The composer's
// interaction closures read through it, so reassigning a field is enough to
// retarget them; nothing ever polls its own liveness.
type handles struct {
	marker *deco.Marker
	widget *deco.Widget
}

// reconcile drives one block range to exactly one of four visual states:
// raw text, collapsed (marker + widget), editing with live preview (widget
// only), or fully raw while editing. The sequence per range is fixed: heal
// stale state, decide, apply. Running it again with nothing changed
// mutates nothing.
func (e *Engine) reconcile(r BlockRange) error {
	from := deco.Pos{Line: r.FromLine, Ch: 0}
	to := deco.Pos{Line: r.ToLine, Ch: e.lineLen(r.ToLine)}

	h := e.heal(r, from, to)

	cur := e.surface.Cursor()
	cursorInside := cur.Line >= r.FromLine && cur.Line <= r.ToLine
	selected := e.selectionOverlaps(r)

	switch {
	case selected && !cursorInside:
		// An active selection spanning the block must see raw source to
		// select correctly; an existing collapsed pair is force-cleared.
		clearPair(h)
		return nil

	case !cursorInside && h.marker != nil:
		// Collapsed and already correct. Touching the store here would
		// churn the surface on every pass.
		return nil

	case !cursorInside:
		return e.collapse(r, from, to, &h)

	default:
		return e.edit(r, &h)
	}
}

// heal clears partial or stale decoration state for the range and returns
// the surviving pair. After heal, h.marker is non-nil only for a marker
// whose span matches [from, to] exactly and whose paired widget sits at the
// terminal line; h.widget may be non-nil on its own (live-preview editing
// state from an earlier pass).
func (e *Engine) heal(r BlockRange, from, to deco.Pos) handles {
	var h handles

	for _, m := range e.store.FindMarkers(from, to, e.cfg.Tag) {
		mf, mt, ok := m.Find()
		if !ok {
			continue
		}
		paired := firstWidget(e.store.WidgetsAt(mt.Line, e.cfg.Tag))
		if paired == nil {
			// Tagged marker without its widget: orphaned partial state.
			m.Clear()
			continue
		}
		if mf != from || mt != to {
			// The block moved under edits; the old pair is unusable.
			m.Clear()
			paired.Clear()
			continue
		}
		h.marker = m
		h.widget = paired
	}

	// Widgets are only ever valid at the terminal line.
	for _, w := range e.store.WidgetsIn(r.FromLine, r.ToLine-1, e.cfg.Tag) {
		w.Clear()
	}

	if h.widget == nil {
		h.widget = firstWidget(e.store.WidgetsAt(r.ToLine, e.cfg.Tag))
	}
	return h
}

// collapse enters the collapsed state: an inline marker replacing the whole
// span plus a block widget at the terminal line. Both elements are rendered
// before anything is committed, so a renderer failure leaves the block
// untouched.
func (e *Engine) collapse(r BlockRange, from, to deco.Pos, h *handles) error {
	inline, block, err := e.compose(r)
	if err != nil {
		return err
	}

	if h.widget != nil {
		h.widget.Clear()
		h.widget = nil
	}

	e.wire(r, h, &inline, &block)

	h.marker = e.store.AddMarker(from, to, e.cfg.Tag, inline, deco.MarkerOptions{
		ClearOnEnter: true,
		OnHide:       e.onMarkerHidden(h),
	})
	h.widget = e.store.AddWidget(r.ToLine, e.cfg.Tag, block)
	return nil
}

// edit enters one of the two editing states. The marker goes away so the
// raw lines show again; the widget stays as a live preview only when the
// caller asked for it.
func (e *Engine) edit(r BlockRange, h *handles) error {
	if h.marker != nil {
		h.marker.Clear()
		h.marker = nil
	}

	if !e.cfg.RenderWhenEditing {
		clearPair(*h)
		h.widget = nil
		return nil
	}

	block, err := e.composeBlock(r)
	if err != nil {
		return err
	}
	e.wireBlock(r, h, &block)

	if h.widget != nil {
		h.widget.SetContent(block)
	} else {
		h.widget = e.store.AddWidget(r.ToLine, e.cfg.Tag, block)
	}
	return nil
}

// onMarkerHidden handles the surface's "marker became hidden" notification
// (cursor typed into the span before the next pass ran). Without live
// preview the paired widget must not outlive the marker.
func (e *Engine) onMarkerHidden(h *handles) func() {
	return func() {
		h.marker = nil
		if !e.cfg.RenderWhenEditing && h.widget != nil {
			h.widget.Clear()
			h.widget = nil
		}
	}
}

// lineLen is the rune length of line i; Ch positions index runes, not
// bytes.
func (e *Engine) lineLen(i int) int {
	return utf8.RuneCountInString(e.surface.Line(i))
}

func (e *Engine) selectionOverlaps(r BlockRange) bool {
	start, end, ok := e.surface.Selection()
	if !ok {
		return false
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start.Line <= r.ToLine && end.Line >= r.FromLine
}

func clearPair(h handles) {
	if h.marker != nil {
		h.marker.Clear()
	}
	if h.widget != nil {
		h.widget.Clear()
	}
}

func firstWidget(ws []*deco.Widget) *deco.Widget {
	if len(ws) == 0 {
		return nil
	}
	return ws[0]
}
