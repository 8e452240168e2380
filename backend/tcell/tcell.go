// Package tcell renders to a real terminal through gdamore/tcell.
package tcell

import (
	"fmt"

	tc "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-store/backend"
)

// Backend adapts a tcell.Screen to backend.Backend.
type Backend struct {
	screen tc.Screen
}

// New creates a backend on the controlling terminal.
func New() (*Backend, error) {
	screen, err := tc.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing screen.
func NewWithScreen(screen tc.Screen) *Backend {
	return &Backend{screen: screen}
}

func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	b.screen.Clear()
	return nil
}

func (b *Backend) Fini() {
	b.screen.Fini()
}

func (b *Backend) Size() (int, int) {
	return b.screen.Size()
}

func (b *Backend) SetContent(x, y int, r rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, r, comb, style)
}

// SetRow writes a run of cells starting at (startX, y).
func (b *Backend) SetRow(y int, startX int, cells []backend.Cell) {
	for i, cell := range cells {
		b.screen.SetContent(startX+i, y, cell.Rune, nil, cell.Style)
	}
}

func (b *Backend) Show() {
	b.screen.Show()
}

func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

func (b *Backend) PollEvent() backend.Event {
	switch ev := b.screen.PollEvent().(type) {
	case *tc.EventKey:
		mods := ev.Modifiers()
		return backend.KeyEvent{
			Key:   ev.Key(),
			Rune:  ev.Rune(),
			Alt:   mods&tc.ModAlt != 0,
			Ctrl:  mods&tc.ModCtrl != 0,
			Shift: mods&tc.ModShift != 0,
		}
	case *tc.EventResize:
		w, h := ev.Size()
		return backend.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

var (
	_ backend.Backend   = (*Backend)(nil)
	_ backend.RowWriter = (*Backend)(nil)
)
