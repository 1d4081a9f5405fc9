// Package deco provides the decoration store for an editing surface: inline
// markers that visually replace a span of lines, and block widgets anchored
// below a line. Decorations carry a class tag so multiple engines can share
// one store without touching each other's decorations.
package deco

// Pos is a line/character position in the document. Lines and characters are
// both 0-indexed.
type Pos struct {
	Line int
	Ch   int
}

// Before reports whether p sorts strictly before q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Ch < q.Ch)
}

// Content is a composed visual element: pre-rendered rows plus the
// interaction handlers the composer attached. Handlers may be nil.
type Content struct {
	// Lines are the styled rows shown in place of (marker) or below
	// (widget) the decorated text.
	Lines []string

	// OnClick fires when the element body is clicked.
	OnClick func()

	// OnEdit fires when the edit affordance row is clicked.
	OnEdit func()

	// EditRow is the index within Lines of the edit affordance, or -1
	// when the element has none.
	EditRow int
}

// MarkerOptions configures marker behavior at creation time.
type MarkerOptions struct {
	// ClearOnEnter clears the marker automatically when the cursor moves
	// into its span. The surface reports cursor motion via CursorMoved.
	ClearOnEnter bool

	// InclusiveLeft and InclusiveRight control whether a cursor sitting
	// exactly on the span boundary counts as inside for ClearOnEnter.
	InclusiveLeft  bool
	InclusiveRight bool

	// OnHide is called after the marker is cleared by the surface
	// (ClearOnEnter). It is not called for explicit Clear.
	OnHide func()
}
