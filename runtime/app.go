package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/state"
)

// Observability event types emitted by the app loop.
const (
	EventStart  observability.EventType = "runtime.start"
	EventRender observability.EventType = "runtime.render"
	EventStop   observability.EventType = "runtime.stop"
)

// ErrNoBackend is returned by Run when the app has no backend.
var ErrNoBackend = errors.New("backend is required")

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands the app does not know.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// KeyHandler handles key input before the root component sees it.
// Return true if the key was handled and a render is needed.
type KeyHandler interface {
	HandleKey(app *App, msg KeyMsg) bool
}

// KeyHandlerFunc adapts a function into a KeyHandler.
type KeyHandlerFunc func(app *App, msg KeyMsg) bool

// HandleKey calls f.
func (f KeyHandlerFunc) HandleKey(app *App, msg KeyMsg) bool {
	if f == nil {
		return false
	}
	return f(app, msg)
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Component
	Update         UpdateFunc
	CommandHandler CommandHandler
	KeyHandler     KeyHandler
	MessageBuffer  int
	TickRate       time.Duration
	StateQueue     *state.Queue
	FlushPolicy    QueueFlushPolicy
	Observer       observability.Observer
	// DeferSelections recomputes component selections on the app loop
	// through the state queue instead of inside the store's Set call.
	DeferSelections bool
}

// App renders a component tree against a terminal backend and re-renders
// it whenever a store value read by a component changes.
type App struct {
	backend        backend.Backend
	root           Component
	hooks          *Hooks
	buffer         *Buffer
	update         UpdateFunc
	commandHandler CommandHandler
	keyHandler     KeyHandler
	messages       chan Message
	tickRate       time.Duration
	stateQueue     *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	observer       observability.Observer
	// taskMu guards the task context and effects queued before Run.
	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect

	running     atomic.Bool
	dirty       bool
	renderMu    sync.Mutex
	renderFrame atomic.Int64
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	app := &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		keyHandler:     cfg.KeyHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		stateQueue:     queue,
		flushPolicy:    cfg.FlushPolicy,
		observer:       cfg.Observer,
	}
	app.queueScheduler = NewQueueScheduler(queue, app.tryPost)
	app.invalidator = NewInvalidator(app.tryPost)
	var selections state.Scheduler
	if cfg.DeferSelections {
		selections = app.queueScheduler
	}
	app.hooks = NewHooks(app.Invalidate, selections)
	return app
}

// Hooks returns the root component's hook state.
func (a *App) Hooks() *Hooks {
	if a == nil {
		return nil
	}
	return a.hooks
}

// Buffer returns the render buffer, nil before Run.
func (a *App) Buffer() *Buffer {
	if a == nil {
		return nil
	}
	return a.buffer
}

// Frames returns the number of completed render passes.
func (a *App) Frames() int64 {
	if a == nil {
		return 0
	}
	return a.renderFrame.Load()
}

// StateQueue returns the app's state queue.
func (a *App) StateQueue() *state.Queue {
	if a == nil {
		return nil
	}
	return a.stateQueue
}

// StateScheduler returns a scheduler that wakes the app to flush.
// Pass it to Store.SubscribeWithScheduler to run listeners on the app loop.
func (a *App) StateScheduler() state.Scheduler {
	if a == nil || a.queueScheduler == nil {
		return nil
	}
	return a.queueScheduler
}

// Invalidate requests a render pass.
func (a *App) Invalidate() {
	if a == nil || a.invalidator == nil {
		return
	}
	a.invalidator.Invalidate()
}

// Spawn starts an effect using the app task context.
// If Run has not started, the effect is queued until start.
func (a *App) Spawn(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	a.taskMu.Lock()
	ctx := a.taskCtx
	if ctx == nil {
		a.pendingEffects = append(a.pendingEffects, effect)
		a.taskMu.Unlock()
		return
	}
	a.taskMu.Unlock()
	go effect.Run(ctx, a.tryPost)
}

// Every schedules a recurring message using the app task context.
func (a *App) Every(interval time.Duration, fn func(time.Time) Message) {
	a.Spawn(Every(interval, fn))
}

// Post sends a message to the event loop, dropping it if the queue is full.
func (a *App) Post(msg Message) {
	_ = a.tryPost(msg)
}

func (a *App) tryPost(msg Message) bool {
	if a == nil || a.messages == nil {
		return false
	}
	select {
	case a.messages <- msg:
		return true
	default:
		return false
	}
}

// Run starts the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return ErrNoBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, taskCancel := context.WithCancel(ctx)
	a.taskMu.Lock()
	a.taskCtx = taskCtx
	a.taskCancel = taskCancel
	a.taskMu.Unlock()
	defer func() {
		taskCancel()
		a.taskMu.Lock()
		a.taskCtx = nil
		a.taskCancel = nil
		a.taskMu.Unlock()
	}()
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.buffer = NewBuffer(w, h)

	if a.update == nil {
		a.update = DefaultUpdate
	}

	MountTree(a.root, a.Services())
	defer func() {
		UnmountTree(a.root)
		a.hooks.Release()
	}()

	observability.Emit(ctx, a.observer, EventStart, observability.LevelInfo, "runtime", map[string]any{
		"width":  w,
		"height": h,
	})

	a.running.Store(true)
	a.startPendingEffects()
	a.render()
	a.dirty = false

	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for a.running.Load() {
		var msg Message
		select {
		case <-ctx.Done():
			a.stop()
		case msg = <-a.messages:
			if a.update(a, msg) {
				a.dirty = true
			}
		case now := <-ticks:
			msg = TickMsg{Time: now}
			if a.update(a, msg) {
				a.dirty = true
			}
		}

		if !a.running.Load() {
			continue
		}

		if msg != nil {
			if a.flushQueueIfNeeded(msg) {
				a.dirty = true
			}
			if _, ok := msg.(InvalidateMsg); ok {
				a.invalidator.resetPending()
			}
		}

		if a.dirty {
			a.render()
			a.dirty = false
		}
	}

	observability.Emit(context.WithoutCancel(ctx), a.observer, EventStop, observability.LevelInfo, "runtime", map[string]any{
		"frames": a.renderFrame.Load(),
	})
	return ctx.Err()
}

// DefaultUpdate handles resize, key input and render requests.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.buffer == nil {
		return false
	}

	switch m := msg.(type) {
	case ResizeMsg:
		app.buffer.Resize(m.Width, m.Height)
		return true
	case KeyMsg:
		if app.keyHandler != nil && app.keyHandler.HandleKey(app, m) {
			return true
		}
		if handler, ok := app.root.(KeyHandler); ok {
			return handler.HandleKey(app, m)
		}
		return false
	case InvalidateMsg:
		return true
	default:
		return false
	}
}

func (a *App) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		a.stop()
		return false
	case Refresh:
		if a.buffer != nil {
			a.buffer.MarkAllDirty()
		}
		return true
	case SendMsg:
		if c.Message != nil {
			a.Post(c.Message)
		}
		return false
	case Effect:
		a.runEffect(c)
		return false
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

// ExecuteCommand runs a command through the app handler.
func (a *App) ExecuteCommand(cmd Command) bool {
	if a == nil {
		return false
	}
	return a.handleCommand(cmd)
}

func (a *App) stop() {
	a.running.Store(false)
	a.cancelTasks()
}

func (a *App) pollEvents() {
	for a.running.Load() {
		ev := a.backend.PollEvent()
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case backend.KeyEvent:
			a.Post(KeyMsg{
				Key:   e.Key,
				Rune:  e.Rune,
				Alt:   e.Alt,
				Ctrl:  e.Ctrl,
				Shift: e.Shift,
			})
		case backend.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		}
	}
}

func (a *App) render() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	buf := a.buffer
	if buf == nil {
		return
	}
	started := time.Now()

	w, h := buf.Size()
	buf.Clear()
	if a.root != nil {
		a.hooks.begin()
		a.root.Render(&RenderContext{
			Buffer:   buf,
			Bounds:   Rect{Width: w, Height: h},
			hooks:    a.hooks,
			services: a.Services(),
		})
		a.hooks.finish()
	}

	flushed := 0
	if buf.IsDirty() {
		rowWriter, hasRowWriter := a.backend.(backend.RowWriter)
		buf.ForEachDirtySpan(func(y, startX, endX int) {
			row := buf.Row(y)
			if hasRowWriter {
				rowWriter.SetRow(y, startX, row[startX:endX])
			} else {
				for x := startX; x < endX; x++ {
					a.backend.SetContent(x, y, row[x].Rune, nil, row[x].Style)
				}
			}
			flushed += endX - startX
		})
		buf.ClearDirty()
	}

	a.backend.Show()
	frame := a.renderFrame.Add(1)
	observability.Emit(a.taskContext(), a.observer, EventRender, observability.LevelVerbose, "runtime", map[string]any{
		"frame":    frame,
		"flushed":  flushed,
		"duration": time.Since(started),
	})
}

func (a *App) taskContext() context.Context {
	if a == nil {
		return context.Background()
	}
	a.taskMu.Lock()
	defer a.taskMu.Unlock()
	if a.taskCtx != nil {
		return a.taskCtx
	}
	return context.Background()
}

func (a *App) cancelTasks() {
	if a == nil {
		return
	}
	a.taskMu.Lock()
	cancel := a.taskCancel
	a.taskMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) runEffect(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	ctx := a.taskContext()
	post := a.tryPost
	go effect.Run(ctx, post)
}

func (a *App) startPendingEffects() {
	if a == nil {
		return
	}
	a.taskMu.Lock()
	effects := a.pendingEffects
	a.pendingEffects = nil
	a.taskMu.Unlock()
	for _, effect := range effects {
		a.runEffect(effect)
	}
}

func (a *App) flushQueueIfNeeded(msg Message) bool {
	if a == nil || a.stateQueue == nil {
		return false
	}
	if !shouldFlushQueue(a.flushPolicy, msg) {
		return false
	}
	if a.queueScheduler != nil {
		a.queueScheduler.resetPending()
	}
	return a.stateQueue.Flush() > 0
}
