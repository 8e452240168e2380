// Package backend defines the terminal surface the runtime renders to.
package backend

import "github.com/gdamore/tcell/v2"

// Style is a cell style.
type Style = tcell.Style

// Color is a terminal color.
type Color = tcell.Color

// Key identifies a non-rune key. Printable input arrives as KeyRune.
type Key = tcell.Key

// Common keys.
const (
	KeyRune   = tcell.KeyRune
	KeyEnter  = tcell.KeyEnter
	KeyEscape = tcell.KeyEscape
	KeyUp     = tcell.KeyUp
	KeyDown   = tcell.KeyDown
	KeyCtrlC  = tcell.KeyCtrlC
)

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return tcell.StyleDefault
}

// Cell is a single character cell.
type Cell struct {
	Rune  rune
	Style Style
}

// Event is input delivered by a backend.
type Event interface {
	isEvent()
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) isEvent() {}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) isEvent() {}

// Backend is a terminal the runtime draws into.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	SetContent(x, y int, r rune, comb []rune, style Style)
	Show()
	HideCursor()
	// PollEvent blocks for the next event. It returns nil once the backend
	// is finalized or for events the runtime does not handle.
	PollEvent() Event
}
