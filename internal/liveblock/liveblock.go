// Package liveblock renders live decorations over delimited blocks of text.
// It scans a window of lines for begin/end token pairs and, per discovered
// range, decides whether the surface shows raw text, a collapsed inline
// element, or a rendered block widget — keeping that choice consistent as
// the cursor, selection, and document change, without re-rendering the
// whole document.
//
// The engine performs one synchronous pass per Process call and keeps no
// state between passes: block ranges are re-derived from the document and
// decoration state is re-derived from the store every time. Passes are
// idempotent, so callers may invoke Process as often as they like; rapid
// triggers should be debounced by the caller, never here.
package liveblock

import (
	"errors"
	"regexp"

	"github.com/xonecas/livemark/internal/deco"
)

// Surface is the capability set the engine consumes from the host editing
// surface. All calls are synchronous; the engine never retains results
// across passes.
type Surface interface {
	// Line returns the content of line i without its trailing newline.
	Line(i int) string
	// LineCount returns the total number of lines.
	LineCount() int
	// Viewport returns the visible line window [from, to).
	Viewport() (from, to int)
	// Cursor returns the current cursor position.
	Cursor() deco.Pos
	// Selection returns the current selection; ok is false when nothing
	// is selected.
	Selection() (start, end deco.Pos, ok bool)
	// ReadOnly reports whether the document rejects mutation.
	ReadOnly() bool
	// SetCursor moves the cursor.
	SetCursor(p deco.Pos)
	// Select sets the selection range.
	Select(start, end deco.Pos)
	// ReplaceRange replaces the text in the half-open range [from, to)
	// with text.
	ReplaceRange(from, to deco.Pos, text string)
}

// Store is the decoration store the engine reconciles against. It is owned
// by the surface; the engine only ever touches decorations carrying its own
// class tag. *deco.Store satisfies it.
type Store interface {
	AddMarker(from, to deco.Pos, tag string, c deco.Content, opts deco.MarkerOptions) *deco.Marker
	FindMarkers(from, to deco.Pos, tag string) []*deco.Marker
	AddWidget(line int, tag string, c deco.Content) *deco.Widget
	WidgetsAt(line int, tag string) []*deco.Widget
	WidgetsIn(fromLine, toLine int, tag string) []*deco.Widget
}

// RenderContext carries everything a renderer callback sees for one block.
type RenderContext struct {
	// BeginMatch and EndMatch are the token pattern submatches.
	BeginMatch []string
	EndMatch   []string
	// Interior is the block content between the token lines, joined by
	// newlines. Empty when the tokens are adjacent.
	Interior string
	// FromLine and ToLine are the block's closed line interval.
	FromLine int
	ToLine   int
}

// RenderFunc turns a matched block into a visual element. Implementations
// must be pure: same context, same output. A returned error aborts the pass
// with no partial decoration committed for the block.
type RenderFunc func(ctx RenderContext) (deco.Content, error)

// Config is the caller-facing configuration surface of one engine.
type Config struct {
	// Tag distinguishes this engine's decorations from other engines
	// sharing the store.
	Tag string

	// Begin and End match the block's opening and closing token lines.
	Begin *regexp.Regexp
	End   *regexp.Regexp

	// Block describes the full block including delimiters. The engine
	// never evaluates it; it exists for callers that document or
	// externally validate their block grammar.
	Block *regexp.Regexp

	// RenderInline produces the collapsed element shown in place of the
	// raw lines; RenderBlock produces the expanded widget content.
	RenderInline RenderFunc
	RenderBlock  RenderFunc

	// EditLabel is the text of the edit affordance row appended to the
	// block widget. Empty means "[edit]". Callers may style it.
	EditLabel string

	// ClearOnClick makes clicking the collapsed element reveal the raw
	// text and place the cursor inside it.
	ClearOnClick bool

	// RenderWhenEditing keeps a live-updating block widget visible while
	// the cursor is inside the block.
	RenderWhenEditing bool
}

// Engine discovers blocks and reconciles their decorations.
type Engine struct {
	surface Surface
	store   Store
	cfg     Config
}

// New validates cfg and returns an engine bound to surface and store.
func New(surface Surface, store Store, cfg Config) (*Engine, error) {
	switch {
	case surface == nil:
		return nil, errors.New("liveblock: nil surface")
	case store == nil:
		return nil, errors.New("liveblock: nil store")
	case cfg.Tag == "":
		return nil, errors.New("liveblock: empty tag")
	case cfg.Begin == nil || cfg.End == nil:
		return nil, errors.New("liveblock: begin and end patterns are required")
	case cfg.RenderInline == nil || cfg.RenderBlock == nil:
		return nil, errors.New("liveblock: both renderers are required")
	}
	return &Engine{surface: surface, store: store, cfg: cfg}, nil
}

// Process runs one discovery and reconciliation pass over the viewport, or
// over the whole document when fullDoc is set (document load/replace).
// An empty scan touches nothing. A renderer error aborts the pass; ranges
// reconciled before the failing one keep their committed state.
func (e *Engine) Process(fullDoc bool) error {
	from, to := e.surface.Viewport()
	if fullDoc {
		from, to = 0, e.surface.LineCount()
	}

	ranges := scanRanges(e.surface, from, to, e.cfg.Begin, e.cfg.End)
	if len(ranges) == 0 {
		return nil
	}

	for _, r := range ranges {
		if err := e.reconcile(r); err != nil {
			return err
		}
	}
	return nil
}
