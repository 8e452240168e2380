package runtime

// Rect is a screen region in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Row returns the single-row rect at offset dy inside r.
func (r Rect) Row(dy int) Rect {
	if dy < 0 || dy >= r.Height {
		return Rect{}
	}
	return Rect{X: r.X, Y: r.Y + dy, Width: r.Width, Height: 1}
}

// SplitRows splits r into a top part of height top and the remainder.
func (r Rect) SplitRows(top int) (Rect, Rect) {
	top = max(0, min(top, r.Height))
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: top},
		Rect{X: r.X, Y: r.Y + top, Width: r.Width, Height: r.Height - top}
}

// SplitColumns splits r into a left part of width left and the remainder.
func (r Rect) SplitColumns(left int) (Rect, Rect) {
	left = max(0, min(left, r.Width))
	return Rect{X: r.X, Y: r.Y, Width: left, Height: r.Height},
		Rect{X: r.X + left, Y: r.Y, Width: r.Width - left, Height: r.Height}
}
