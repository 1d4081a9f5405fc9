// Package highlight wraps Chroma for the two places livemark colors source
// text: the editor pane and the code-block renderer. It also derives the
// editor chrome colors from the active syntax theme, so the gutter, cursor
// and status line follow whatever theme the configuration names.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight renders text as ANSI-colored source using the named Chroma
// lexer and theme. An unknown language or a tokenise failure returns the
// raw text. bgHex ("#rrggbb") is re-asserted after every SGR reset: the
// surface pads decoration rows to full width, and the theme background has
// to survive past the last token of each row.
func Highlight(text, language, theme, bgHex string) string {
	lex := lexers.Get(language)
	if lex == nil {
		return text
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	fmtr := formatters.Get("terminal16m")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return text
	}
	raw := strings.TrimRight(buf.String(), "\n")

	bg := bgEscape(bgHex)
	return bg + strings.ReplaceAll(raw, "\x1b[0m", "\x1b[0m"+bg)
}

// bgEscape converts "#rrggbb" to a 24-bit background SGR sequence.
func bgEscape(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return ""
	}
	r := hexChannel(hex[1], hex[2])
	g := hexChannel(hex[3], hex[4])
	b := hexChannel(hex[5], hex[6])
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

func hexChannel(hi, lo byte) int {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// SplitLines cuts a highlighted block into the per-row strings the
// decoration store wants, re-opening the SGR state active at each line
// break. Every row must render standalone because the surface interleaves
// them with its own gutter and padding.
func SplitLines(block string) []string {
	lines := strings.Split(block, "\n")
	if len(lines) <= 1 {
		return lines
	}
	var active []string
	for i, line := range lines {
		if i > 0 && len(active) > 0 {
			lines[i] = strings.Join(active, "") + line
		}
		active = carrySGR(line, active)
	}
	return lines
}

// carrySGR folds a line's SGR sequences into the active set: a reset
// empties it, anything else accumulates.
func carrySGR(line string, active []string) []string {
	for j := 0; j < len(line); j++ {
		if line[j] != '\x1b' || j+1 >= len(line) || line[j+1] != '[' {
			continue
		}
		k := j + 2
		for k < len(line) && line[k] != 'm' && line[k] != '\x1b' {
			k++
		}
		if k >= len(line) || line[k] != 'm' {
			continue
		}
		params := line[j+2 : k]
		if params == "" || params == "0" {
			active = active[:0]
		} else {
			active = append(active, line[j:k+1])
		}
		j = k
	}
	return active
}

// ThemeBg returns the theme's background as "#rrggbb", or "" when the
// theme does not set one.
func ThemeBg(theme string) string {
	sty := styles.Get(theme)
	if sty == nil {
		return ""
	}
	bg := sty.Get(chroma.Background).Background
	if !bg.IsSet() {
		return ""
	}
	return bg.String()
}

// Palette is the editor chrome derived from a Chroma theme. Each field has
// exactly one job in the UI; derivation is deterministic, so the same theme
// name always yields the same chrome.
type Palette struct {
	Bg     string // editor background
	Fg     string // primary text
	Gutter string // line numbers, bg blended 25% toward fg
	Accent string // cursor and gutter marks, most saturated token color
	Error  string // failed-pass notes on the status line
}

// ThemePalette derives the chrome colors from a Chroma theme name. Missing
// themes and missing entries fall back to a plain dark palette.
func ThemePalette(theme string) Palette {
	sty := styles.Get(theme)
	if sty == nil {
		return defaultPalette()
	}
	entry := sty.Get(chroma.Background)
	bg := "#000000"
	fg := "#c8c8c8"
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}

	return Palette{
		Bg:     bg,
		Fg:     fg,
		Gutter: blendHex(bg, fg, 0.25),
		Accent: accentColor(sty, fg),
		Error:  errorColor(sty, bg, fg),
	}
}

func defaultPalette() Palette {
	return Palette{
		Bg: "#000000", Fg: "#c8c8c8",
		Gutter: "#323232", Accent: "#00dfff", Error: "#932e2e",
	}
}

// accentColor returns the most saturated token foreground in the theme.
func accentColor(sty *chroma.Style, fallback string) string {
	best := fallback
	bestSat := 0.0
	for tt := chroma.TokenType(0); tt < 2000; tt++ {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		hex := e.Colour.String()
		r, g, b := rgbf(hex)
		mx := max(r, g, b)
		if mx == 0 {
			continue
		}
		sat := (mx - min(r, g, b)) / mx
		if sat > bestSat {
			bestSat = sat
			best = hex
		}
	}
	return best
}

// errorColor pulls the Error token color, blended toward fg so it stays
// readable on the theme background.
func errorColor(sty *chroma.Style, bg, fg string) string {
	e := sty.Get(chroma.Error)
	if !e.Colour.IsSet() {
		return blendHex(bg, fg, 0.45)
	}
	return blendHex(bg, e.Colour.String(), 0.45)
}

// blendHex interpolates between two hex colors at fraction t.
func blendHex(a, b string, t float64) string {
	ar, ag, ab := rgbf(a)
	br, bgc, bb := rgbf(b)
	return fmt.Sprintf("#%02x%02x%02x",
		roundByte(ar+(br-ar)*t),
		roundByte(ag+(bgc-ag)*t),
		roundByte(ab+(bb-ab)*t),
	)
}

func rgbf(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	return float64(hexChannel(hex[1], hex[2])),
		float64(hexChannel(hex[3], hex[4])),
		float64(hexChannel(hex[5], hex[6]))
}

func roundByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v + 0.5)
}
