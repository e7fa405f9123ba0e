package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rect is a cell area of the screen.
type Rect struct {
	X, Y, W, H int
}

// rowInside maps a cell to the content row of a bordered rect. Cells on the
// border or outside the rect are no hit.
func rowInside(r Rect, x, y int) (int, bool) {
	if x <= r.X || x >= r.X+r.W-1 {
		return 0, false
	}
	if y <= r.Y || y >= r.Y+r.H-1 {
		return 0, false
	}
	return y - r.Y - 1, true
}

// innerSize is the content size of a bordered rect.
func innerSize(r Rect) (int, int) {
	return max(r.W-2, 0), max(r.H-2, 0)
}

// fitLine cuts or pads s to exactly width cells.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// singleLine replaces control characters so broker supplied text cannot
// break the layout or drive the terminal.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

// box draws lines inside a rounded border of exactly r.W x r.H cells with
// title set into the top edge.
func box(r Rect, title string, lines []string, focused bool) string {
	if r.W < 2 || r.H < 2 {
		return ""
	}

	border := lipgloss.NewStyle().Foreground(focusColor(focused))
	innerW, innerH := innerSize(r)

	top := border.Render("─")
	used := 1
	if title = ansi.Truncate(title, max(innerW-2, 0), "…"); title != "" {
		top += paneTitleStyle.Render(title)
		used += lipgloss.Width(title)
	}
	if used > innerW {
		top, used = border.Render(strings.Repeat("─", innerW)), innerW
	}
	top += border.Render(strings.Repeat("─", innerW-used))

	var b strings.Builder
	b.WriteString(border.Render("╭") + top + border.Render("╮"))
	for i := range innerH {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString("\n")
		b.WriteString(border.Render("│") + fitLine(line, innerW) + border.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(border.Render("╰" + strings.Repeat("─", innerW) + "╯"))

	return b.String()
}
