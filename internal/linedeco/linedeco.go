// Package linedeco derives per-line decorations from document text:
// gutter marks for markdown headings and toggleable task-list checkboxes.
// Unlike block decorations these have no begin/end pair; each line stands
// alone, so a single scan per pass is enough.
package linedeco

import (
	"regexp"

	"github.com/xonecas/livemark/internal/deco"
)

// Surface is the slice of the host editor line decorations need.
type Surface interface {
	Line(i int) string
	LineCount() int
	ReadOnly() bool
	ReplaceRange(from, to deco.Pos, text string)
}

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+\S`)
	checkboxRe = regexp.MustCompile(`^(\s*(?:[-*+]|\d+\.)\s+\[)([ xX])(\])`)
)

const (
	checkboxEmpty = "☐"
	checkboxDone  = "☑"
)

// Marks scans the document and returns the gutter mark for each decorated
// line: H1 through H6 for headings, a checkbox glyph for task-list items.
func Marks(doc Surface) map[int]string {
	marks := map[int]string{}
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		if m := headingRe.FindStringSubmatch(line); m != nil {
			marks[i] = "H" + string(rune('0'+len(m[1])))
			continue
		}
		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			if m[2] == " " {
				marks[i] = checkboxEmpty
			} else {
				marks[i] = checkboxDone
			}
		}
	}
	return marks
}

// ToggleCheckbox flips the task-list checkbox on the given line and reports
// whether one was found. The replacement touches only the single character
// between the brackets, so surrounding text and other decorations keep
// their positions.
func ToggleCheckbox(doc Surface, line int) bool {
	if doc.ReadOnly() || line < 0 || line >= doc.LineCount() {
		return false
	}
	m := checkboxRe.FindStringSubmatch(doc.Line(line))
	if m == nil {
		return false
	}
	state := "x"
	if m[2] != " " {
		state = " "
	}
	ch := len([]rune(m[1]))
	doc.ReplaceRange(deco.Pos{Line: line, Ch: ch}, deco.Pos{Line: line, Ch: ch + 1}, state)
	return true
}
