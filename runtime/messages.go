package runtime

import (
	"time"

	"github.com/odvcencio/furry-store/backend"
)

// Message represents an event flowing into the app loop.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   backend.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// TickMsg is sent on each frame tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the update loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}
