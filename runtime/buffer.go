package runtime

// Rendering:
//
// Components draw into a Buffer through a RenderContext on every render pass.
// The Buffer keeps the cells flushed by the previous pass, so after drawing
// the app writes only the spans that differ to the backend.

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/backend"
)

// Cell represents a single character cell in the buffer.
type Cell = backend.Cell

// Buffer is a 2D grid of cells with a copy of the last flushed frame.
type Buffer struct {
	cells    []Cell
	flushed  []Cell
	width    int
	height   int
	dirtyAll bool
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{}
	b.Resize(w, h)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions and forces a full redraw.
func (b *Buffer) Resize(w, h int) {
	w, h = max(0, w), max(0, h)
	b.width = w
	b.height = h
	b.cells = blankCells(w * h)
	b.flushed = blankCells(w * h)
	b.dirtyAll = true
}

func blankCells(n int) []Cell {
	cells := make([]Cell, n)
	blank := Cell{Rune: ' ', Style: backend.DefaultStyle()}
	for i := range cells {
		cells[i] = blank
	}
	return cells
}

// Clear fills the buffer with spaces and default style.
func (b *Buffer) Clear() {
	b.Fill(Rect{Width: b.width, Height: b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at position (x, y).
// Returns a blank cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at position (x, y). No-op if out of bounds.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: s}
}

// SetString writes s starting at (x, y) and returns the number of columns
// used. Wide runes take two cells; the second holds rune 0.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	return b.setStringClipped(Rect{Width: b.width, Height: b.height}, x, y, s, style)
}

func (b *Buffer) setStringClipped(clip Rect, x, y int, s string, style backend.Style) int {
	clip = clip.Intersect(Rect{Width: b.width, Height: b.height})
	if y < clip.Y || y >= clip.Y+clip.Height {
		return 0
	}
	px := x
	maxX := clip.X + clip.Width
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px+w > maxX {
			break
		}
		if px >= clip.X {
			b.Set(px, y, r, style)
			if w == 2 {
				b.Set(px+1, y, 0, style)
			}
		}
		px += w
	}
	return px - x
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	r = r.Intersect(Rect{Width: b.width, Height: b.height})
	cell := Cell{Rune: ch, Style: s}
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := r.X; x < r.X+r.Width; x++ {
			row[x] = cell
		}
	}
}

// MarkAllDirty forces the next flush to rewrite every cell.
func (b *Buffer) MarkAllDirty() {
	b.dirtyAll = true
}

// IsDirty reports whether any cell differs from the last flushed frame.
func (b *Buffer) IsDirty() bool {
	if b.dirtyAll {
		return true
	}
	for i := range b.cells {
		if b.cells[i] != b.flushed[i] {
			return true
		}
	}
	return false
}

// DirtyCount returns the number of cells that differ from the last flush.
func (b *Buffer) DirtyCount() int {
	if b.dirtyAll {
		return len(b.cells)
	}
	n := 0
	for i := range b.cells {
		if b.cells[i] != b.flushed[i] {
			n++
		}
	}
	return n
}

// ForEachDirtySpan calls fn for every maximal run of changed cells on a row.
// endX is exclusive.
func (b *Buffer) ForEachDirtySpan(fn func(y, startX, endX int)) {
	for y := 0; y < b.height; y++ {
		rowStart := y * b.width
		start := -1
		for x := 0; x < b.width; x++ {
			idx := rowStart + x
			dirty := b.dirtyAll || b.cells[idx] != b.flushed[idx]
			switch {
			case dirty && start < 0:
				start = x
			case !dirty && start >= 0:
				fn(y, start, x)
				start = -1
			}
		}
		if start >= 0 {
			fn(y, start, b.width)
		}
	}
}

// ClearDirty records the current cells as flushed.
func (b *Buffer) ClearDirty() {
	copy(b.flushed, b.cells)
	b.dirtyAll = false
}

// Row returns the cells of row y.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y*b.width : (y+1)*b.width]
}
