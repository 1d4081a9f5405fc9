package liveblock

import "regexp"

// lineSource is the read side of a Surface, enough for scanning.
type lineSource interface {
	Line(i int) string
	LineCount() int
}

// BlockRange identifies a discovered block by its closed line interval
// [FromLine, ToLine]. BeginMatch and EndMatch are the token submatches,
// passed through to the renderer callbacks. Ranges are recomputed on every
// pass and never persisted.
type BlockRange struct {
	FromLine   int
	ToLine     int
	BeginMatch []string
	EndMatch   []string
}

// matchLine evaluates pattern against line with no carried-over state.
// regexp.Regexp keeps no search cursor between calls, so a fresh
// FindStringSubmatch per line is exactly the stateless match the scanner
// needs.
func matchLine(pattern *regexp.Regexp, line string) []string {
	return pattern.FindStringSubmatch(line)
}

// scanRanges streams once through the document and pairs begin/end tokens
// into BlockRanges whose end line is at or past winFrom. The scan always
// starts at line 0 regardless of the window: a block can open above the
// visible window, and only re-deriving the open/closed state from the top
// gets that right without persisted scanner state.
//
// Blocks that close entirely above the window are dropped (they were
// decorated by an earlier pass over that window). If the bounded scan ends
// with a block still open, scanning continues line by line past winTo until
// the end token or end of document: a block whose opening is visible but
// whose closing is scrolled off below must still be discovered.
//
// Tokens do not nest: while inside a block only the end pattern is tested,
// and a line consumed as a begin token is never also treated as an end
// token in the same pass.
func scanRanges(doc lineSource, winFrom, winTo int, begin, end *regexp.Regexp) []BlockRange {
	total := doc.LineCount()
	if winTo > total {
		winTo = total
	}

	var (
		ranges     []BlockRange
		inside     bool
		openLine   int
		beginMatch []string
	)

	for i := 0; i < winTo; i++ {
		line := doc.Line(i)
		if !inside {
			if m := matchLine(begin, line); m != nil {
				inside = true
				openLine = i
				beginMatch = m
			}
			continue
		}
		if m := matchLine(end, line); m != nil {
			if i >= winFrom {
				ranges = append(ranges, BlockRange{
					FromLine:   openLine,
					ToLine:     i,
					BeginMatch: beginMatch,
					EndMatch:   m,
				})
			}
			inside = false
		}
	}

	if inside {
		// Back-off: the open block may close below the window.
		for i := winTo; i < total; i++ {
			if m := matchLine(end, doc.Line(i)); m != nil {
				ranges = append(ranges, BlockRange{
					FromLine:   openLine,
					ToLine:     i,
					BeginMatch: beginMatch,
					EndMatch:   m,
				})
				break
			}
		}
	}

	return ranges
}
