package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// visibleWidth is the terminal cell width of s, escapes excluded.
func visibleWidth(s string) int { return ansi.StringWidth(s) }

// Fit truncates s to width terminal cells, ending in "..." when cut, and
// pads it with spaces to exactly width.
func Fit(s string, width int) string {
	s = ansi.Truncate(s, width, "...")
	if vw := ansi.StringWidth(s); vw < width {
		s += strings.Repeat(" ", width-vw)
	}
	return s
}

// ShareBar renders part's share of total as a bar with percentage.
func ShareBar(part, total float64, width int) string {
	t := Current()
	if width < 5 {
		width = 5
	}
	var frac float64
	if total > 0 {
		frac = part / total
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	bar := strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, int(frac*100))
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := visibleWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
