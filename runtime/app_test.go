package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/backend/sim"
	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/state"
)

type eventLog struct {
	mu     sync.Mutex
	events []observability.EventType
}

func (l *eventLog) OnEvent(ctx context.Context, event observability.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event.Type)
}

func (l *eventLog) has(typ observability.EventType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.events {
		if t == typ {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func counterView(store *state.Store) Component {
	return ComponentFunc(func(ctx *RenderContext) {
		n := UseStore(ctx, store, count)
		ctx.Text(0, 0, fmt.Sprintf("count: %d", n), backend.DefaultStyle())
	})
}

func TestApp_RendersStoreChanges(t *testing.T) {
	store := newCounterStore()
	term := sim.New(20, 2)
	log := &eventLog{}
	app := NewApp(AppConfig{
		Backend:  term,
		Root:     counterView(store),
		Observer: log,
		KeyHandler: KeyHandlerFunc(func(app *App, msg KeyMsg) bool {
			if msg.Key == backend.KeyRune && msg.Rune == 'q' {
				return app.ExecuteCommand(Quit{})
			}
			return false
		}),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(context.Background()) }()

	waitFor(t, "first frame", func() bool { return term.Line(0) == "count: 0" })

	_ = store.Set(state.Partial{"count": 7})
	waitFor(t, "updated frame", func() bool { return term.Line(0) == "count: 7" })

	frames := app.Frames()
	_ = store.Set(state.Partial{"label": "ignored"})
	time.Sleep(20 * time.Millisecond)
	if app.Frames() != frames {
		t.Fatalf("expected no render for unselected key, frames %d -> %d", frames, app.Frames())
	}

	term.InjectKey('q')
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("app did not quit")
	}

	if store.ListenerCount() != 0 {
		t.Fatalf("expected hooks released on exit, got %d listeners", store.ListenerCount())
	}
	if !log.has(EventStart) || !log.has(EventRender) || !log.has(EventStop) {
		t.Fatalf("expected start, render and stop events, got %v", log.events)
	}
}

func TestApp_DeferredSelectionsFlushOnLoop(t *testing.T) {
	store := newCounterStore()
	term := sim.New(20, 1)
	app := NewApp(AppConfig{
		Backend:         term,
		Root:            counterView(store),
		DeferSelections: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	waitFor(t, "first frame", func() bool { return term.Line(0) == "count: 0" })
	_ = store.Set(state.Partial{"count": 3})
	waitFor(t, "deferred frame", func() bool { return term.Line(0) == "count: 3" })

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop on cancel")
	}
}

func TestApp_ResizeRedraws(t *testing.T) {
	store := newCounterStore()
	term := sim.New(5, 1)
	app := NewApp(AppConfig{Backend: term, Root: counterView(store)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = app.Run(ctx) }()

	waitFor(t, "clipped frame", func() bool { return term.Line(0) == "count" })
	term.Resize(12, 1)
	waitFor(t, "resized frame", func() bool { return strings.HasPrefix(term.Line(0), "count: 0") })
}

func TestApp_RunWithoutBackend(t *testing.T) {
	app := NewApp(AppConfig{})
	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}

func TestApp_StoreSubscriptionOnStateScheduler(t *testing.T) {
	store := newCounterStore()
	app := NewApp(AppConfig{})
	calls := 0
	unsub := store.SubscribeWithScheduler(app.StateScheduler(), func() { calls++ })
	defer unsub()

	_ = store.Set(state.Partial{"count": 1})
	if calls != 0 {
		t.Fatalf("expected queued listener, got %d calls", calls)
	}
	select {
	case msg := <-app.messages:
		if _, ok := msg.(QueueFlushMsg); !ok {
			t.Fatalf("expected QueueFlushMsg, got %#v", msg)
		}
	default:
		t.Fatal("expected flush request")
	}
	if !app.flushQueueIfNeeded(QueueFlushMsg{}) {
		t.Fatal("expected flush to run callbacks")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after flush, got %d", calls)
	}
}

func TestApp_FlushPolicyGatesQueuedStoreListeners(t *testing.T) {
	store := newCounterStore()
	app := NewApp(AppConfig{FlushPolicy: FlushOnTick})
	calls := 0
	unsub := store.SubscribeWithScheduler(app.StateScheduler(), func() { calls++ })
	defer unsub()

	_ = store.Set(state.Partial{"count": 1})
	if app.flushQueueIfNeeded(KeyMsg{Key: backend.KeyRune, Rune: 'x'}) {
		t.Fatal("expected key message to leave the queue alone")
	}
	if calls != 0 {
		t.Fatalf("expected listener still queued, got %d calls", calls)
	}
	if !app.flushQueueIfNeeded(TickMsg{Time: time.Now()}) {
		t.Fatal("expected tick to flush the queue")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after tick, got %d", calls)
	}
}
