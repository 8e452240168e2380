// Package widgets provides components for store-driven terminal UIs.
package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// Alignment controls horizontal text placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// truncateString truncates a string to fit within maxWidth.
// Adds "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// padRight pads a string with spaces to reach the given display width.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// alignedX returns the column where text of the given width starts.
func alignedX(bounds runtime.Rect, width int, align Alignment) int {
	switch align {
	case AlignCenter:
		return bounds.X + max(0, bounds.Width-width)/2
	case AlignRight:
		return bounds.X + max(0, bounds.Width-width)
	default:
		return bounds.X
	}
}

// writeLine draws text on one row of bounds, truncated and aligned.
func writeLine(buf *runtime.Buffer, bounds runtime.Rect, row int, text string, style backend.Style, align Alignment) {
	if buf == nil || row < 0 || row >= bounds.Height || bounds.Width <= 0 {
		return
	}
	text = truncateString(text, bounds.Width)
	x := alignedX(bounds, runewidth.StringWidth(text), align)
	buf.SetString(x, bounds.Y+row, text, style)
}

// wrapText splits text into lines no wider than width, breaking on spaces
// where possible.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+ww > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			for ww > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += ww
		}
		lines = append(lines, line.String())
	}
	return lines
}
