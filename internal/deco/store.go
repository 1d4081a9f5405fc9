package deco

import (
	"fmt"
	"sort"
	"strings"
)

// Store holds the live decorations for one document. It is owned by the
// surface's event loop and is not safe for concurrent use; every query and
// mutation completes synchronously.
type Store struct {
	markers []*Marker
	widgets []*Widget
}

// NewStore returns an empty decoration store.
func NewStore() *Store {
	return &Store{}
}

// ---------------------------------------------------------------------------
// Marker
// ---------------------------------------------------------------------------

// Marker is an inline-replacement decoration covering [from, to]. While
// attached, the surface renders its Content instead of the raw span.
type Marker struct {
	from, to Pos
	tag      string
	content  Content
	opts     MarkerOptions

	store   *Store // nil once cleared
	cleared bool
}

// Find returns the marker's span. ok is false once the marker has been
// cleared; callers treat that as "decoration absent".
func (m *Marker) Find() (from, to Pos, ok bool) {
	if m.cleared {
		return Pos{}, Pos{}, false
	}
	return m.from, m.to, true
}

// Tag returns the marker's class tag.
func (m *Marker) Tag() string { return m.tag }

// Content returns the composed element the marker displays.
func (m *Marker) Content() Content { return m.content }

// Clear detaches the marker from the store. Safe to call more than once.
func (m *Marker) Clear() {
	if m.cleared {
		return
	}
	m.cleared = true
	m.store.removeMarker(m)
	m.store = nil
}

// contains reports whether p is inside the marker span for ClearOnEnter
// purposes, honoring the inclusivity flags at the boundaries.
func (m *Marker) contains(p Pos) bool {
	if p.Before(m.from) || m.to.Before(p) {
		return false
	}
	if p == m.from && !m.opts.InclusiveLeft {
		return false
	}
	if p == m.to && !m.opts.InclusiveRight {
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Widget
// ---------------------------------------------------------------------------

// Widget is a block decoration anchored at a line; its Content is rendered
// below that line, independent of any marker.
type Widget struct {
	line    int
	tag     string
	content Content

	store   *Store
	cleared bool
}

// Line returns the widget's anchor line and ok=false once cleared.
func (w *Widget) Line() (int, bool) {
	if w.cleared {
		return 0, false
	}
	return w.line, true
}

// Tag returns the widget's class tag.
func (w *Widget) Tag() string { return w.tag }

// Content returns the widget's composed element.
func (w *Widget) Content() Content { return w.content }

// SetContent replaces the widget's element in place.
func (w *Widget) SetContent(c Content) { w.content = c }

// Clear detaches the widget from the store. Safe to call more than once.
func (w *Widget) Clear() {
	if w.cleared {
		return
	}
	w.cleared = true
	w.store.removeWidget(w)
	w.store = nil
}

// ---------------------------------------------------------------------------
// Store operations
// ---------------------------------------------------------------------------

// AddMarker attaches an inline marker over [from, to] with the given class
// tag and element.
func (s *Store) AddMarker(from, to Pos, tag string, c Content, opts MarkerOptions) *Marker {
	m := &Marker{from: from, to: to, tag: tag, content: c, opts: opts, store: s}
	s.markers = append(s.markers, m)
	return m
}

// AddWidget attaches a block widget at line with the given class tag and
// element.
func (s *Store) AddWidget(line int, tag string, c Content) *Widget {
	w := &Widget{line: line, tag: tag, content: c, store: s}
	s.widgets = append(s.widgets, w)
	return w
}

// FindMarkers returns markers overlapping [from, to] that carry the given
// tag. An empty tag matches any marker (surface-side rendering only; engines
// always pass their own tag).
func (s *Store) FindMarkers(from, to Pos, tag string) []*Marker {
	var out []*Marker
	for _, m := range s.markers {
		if tag != "" && m.tag != tag {
			continue
		}
		if m.to.Before(from) || to.Before(m.from) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// MarkerCovering returns the marker whose span contains line, or nil.
// Used by the surface to decide how to render a row.
func (s *Store) MarkerCovering(line int) *Marker {
	for _, m := range s.markers {
		if line >= m.from.Line && line <= m.to.Line {
			return m
		}
	}
	return nil
}

// WidgetsAt returns widgets anchored exactly at line with the given tag.
// An empty tag matches any widget.
func (s *Store) WidgetsAt(line int, tag string) []*Widget {
	var out []*Widget
	for _, w := range s.widgets {
		if tag != "" && w.tag != tag {
			continue
		}
		if w.line == line {
			out = append(out, w)
		}
	}
	return out
}

// WidgetsIn returns widgets anchored in [fromLine, toLine] with the given
// tag. An empty tag matches any widget.
func (s *Store) WidgetsIn(fromLine, toLine int, tag string) []*Widget {
	var out []*Widget
	for _, w := range s.widgets {
		if tag != "" && w.tag != tag {
			continue
		}
		if w.line >= fromLine && w.line <= toLine {
			out = append(out, w)
		}
	}
	return out
}

// CursorMoved clears every ClearOnEnter marker whose span now contains p,
// firing each marker's OnHide notification. The surface calls this after
// every cursor motion.
func (s *Store) CursorMoved(p Pos) {
	// Collect first: OnHide may clear other decorations.
	var hidden []*Marker
	for _, m := range s.markers {
		if m.opts.ClearOnEnter && m.contains(p) {
			hidden = append(hidden, m)
		}
	}
	for _, m := range hidden {
		onHide := m.opts.OnHide
		m.Clear()
		if onHide != nil {
			onHide()
		}
	}
}

// MarkerCount returns the number of attached markers.
func (s *Store) MarkerCount() int { return len(s.markers) }

// WidgetCount returns the number of attached widgets.
func (s *Store) WidgetCount() int { return len(s.widgets) }

// Dump returns a deterministic textual snapshot of the store, one decoration
// per line, sorted by position then tag. Intended for tests.
func (s *Store) Dump() string {
	lines := make([]string, 0, len(s.markers)+len(s.widgets))
	for _, m := range s.markers {
		lines = append(lines, fmt.Sprintf("marker %s [%d:%d-%d:%d] rows=%d",
			m.tag, m.from.Line, m.from.Ch, m.to.Line, m.to.Ch, len(m.content.Lines)))
	}
	for _, w := range s.widgets {
		lines = append(lines, fmt.Sprintf("widget %s @%d rows=%d",
			w.tag, w.line, len(w.content.Lines)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func (s *Store) removeMarker(m *Marker) {
	for i, cand := range s.markers {
		if cand == m {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return
		}
	}
}

func (s *Store) removeWidget(w *Widget) {
	for i, cand := range s.widgets {
		if cand == w {
			s.widgets = append(s.widgets[:i], s.widgets[i+1:]...)
			return
		}
	}
}
