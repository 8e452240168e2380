// Package sim provides an in-memory backend for tests and headless runs.
package sim

import (
	"strings"
	"sync"

	"github.com/odvcencio/furry-store/backend"
)

// Backend records drawn cells and replays injected events.
type Backend struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []backend.Cell
	front  []backend.Cell
	shows  int
	events chan backend.Event
	done   chan struct{}
	once   sync.Once
	inited bool
}

// New creates a simulated terminal of the given size.
func New(width, height int) *Backend {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &Backend{
		width:  width,
		height: height,
		cells:  blank(width * height),
		front:  blank(width * height),
		events: make(chan backend.Event, 64),
		done:   make(chan struct{}),
	}
}

func blank(n int) []backend.Cell {
	cells := make([]backend.Cell, n)
	for i := range cells {
		cells[i] = backend.Cell{Rune: ' ', Style: backend.DefaultStyle()}
	}
	return cells
}

func (b *Backend) Init() error {
	b.mu.Lock()
	b.inited = true
	b.mu.Unlock()
	return nil
}

// Fini releases PollEvent callers.
func (b *Backend) Fini() {
	b.once.Do(func() {
		close(b.done)
	})
}

func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Backend) SetContent(x, y int, r rune, comb []rune, style backend.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = backend.Cell{Rune: r, Style: style}
}

// SetRow writes a run of cells starting at (startX, y).
func (b *Backend) SetRow(y int, startX int, cells []backend.Cell) {
	for i, cell := range cells {
		b.SetContent(startX+i, y, cell.Rune, nil, cell.Style)
	}
}

// Show publishes drawn cells to the visible frame.
func (b *Backend) Show() {
	b.mu.Lock()
	copy(b.front, b.cells)
	b.shows++
	b.mu.Unlock()
}

func (b *Backend) HideCursor() {}

func (b *Backend) PollEvent() backend.Event {
	select {
	case <-b.done:
		return nil
	case ev := <-b.events:
		return ev
	}
}

// Inject queues an event for PollEvent.
func (b *Backend) Inject(ev backend.Event) {
	select {
	case <-b.done:
	case b.events <- ev:
	}
}

// InjectKey queues a rune key press.
func (b *Backend) InjectKey(r rune) {
	b.Inject(backend.KeyEvent{Key: backend.KeyRune, Rune: r})
}

// Resize changes the terminal size and queues a resize event.
func (b *Backend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.cells = blank(width * height)
	b.front = blank(width * height)
	b.mu.Unlock()
	b.Inject(backend.ResizeEvent{Width: width, Height: height})
}

// Shows returns how many frames were shown.
func (b *Backend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Line returns row y of the visible frame with trailing spaces trimmed.
func (b *Backend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		r := b.front[y*b.width+x].Rune
		if r == 0 {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns the visible frame, one line per row.
func (b *Backend) Text() string {
	_, h := b.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = b.Line(y)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

var (
	_ backend.Backend   = (*Backend)(nil)
	_ backend.RowWriter = (*Backend)(nil)
)
