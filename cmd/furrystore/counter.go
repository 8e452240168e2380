package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/config"
	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
	"github.com/odvcencio/furry-store/widgets"
)

// counter is the demo's root component: a header, a key/value table, the
// state inspector and a help panel, all driven by one store.
type counter struct {
	widgets.Component
	store     *state.Store
	initial   state.Values
	interval  time.Duration
	header    *widgets.StoreLabel
	table     *widgets.StateTable
	inspector *widgets.Inspector
	help      *widgets.Markdown
	ticks     atomic.Int64
}

func newCounter(cfg *config.Config, obs observability.Observer) *counter {
	initial := cfg.InitialState()
	setDefault(initial, "count", 0)
	setDefault(initial, "step", 1)
	setDefault(initial, "auto", false)

	store := state.Create(func(set state.SetFunc) state.Values {
		return initial
	}, state.WithName(cfg.Name), state.WithObserver(obs))

	c := &counter{
		store:     store,
		initial:   store.GetSnapshot().Values(),
		interval:  cfg.AutoInterval.Duration(),
		table:     widgets.NewStateTable(store),
		inspector: widgets.NewInspector(store, cfg.Theme),
		help:      widgets.NewMarkdown(cfg.Help),
	}
	c.inspector.Title = "state"
	c.header = widgets.NewStoreLabel(store, func(s *state.State) string {
		auto := "off"
		if on, _ := state.Lookup[bool](s, "auto"); on {
			auto = "on"
		}
		return fmt.Sprintf(" %s  count=%v  step=%v  auto=%s", cfg.Name, s.Value("count"), s.Value("step"), auto)
	})
	return c
}

func setDefault(v state.Values, key string, value any) {
	if _, ok := v[key]; !ok {
		v[key] = value
	}
}

func intValue(s *state.State, key string) int {
	switch n := s.Value(key).(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func (c *counter) add(sign int) error {
	return c.store.Set(state.Func(func(s *state.State) state.Values {
		return state.Values{"count": intValue(s, "count") + sign*intValue(s, "step")}
	}))
}

// increment adds exactly one, independent of step.
func (c *counter) increment() error {
	return c.store.Set(state.Func(func(s *state.State) state.Values {
		return state.Values{"count": intValue(s, "count") + 1}
	}))
}

func (c *counter) toggleAuto() error {
	return c.store.Set(state.Func(func(s *state.State) state.Values {
		on, _ := state.Lookup[bool](s, "auto")
		return state.Values{"auto": !on}
	}))
}

func (c *counter) reset() error {
	return c.store.Set(state.Partial(c.initial))
}

func (c *counter) tick(time.Time) runtime.Message {
	c.ticks.Add(1)
	if on, _ := state.Lookup[bool](c.store.GetSnapshot(), "auto"); on {
		_ = c.increment()
	}
	return nil
}

// Bind starts the auto increment timer on the app.
func (c *counter) Bind(services runtime.Services) {
	c.Component.Bind(services)
	services.Every(c.interval, c.tick)
}

// Children exposes the header so it is mounted with the root.
func (c *counter) Children() []runtime.Component {
	return []runtime.Component{c.header}
}

// Render lays out the panels.
func (c *counter) Render(ctx *runtime.RenderContext) {
	auto := runtime.UseStore(ctx, c.store, func(s *state.State) bool {
		on, _ := state.Lookup[bool](s, "auto")
		return on
	})
	headerStyle := backend.DefaultStyle().Reverse(true)
	if auto {
		headerStyle = headerStyle.Bold(true)
	}
	c.header.SetStyle(headerStyle)

	header, rest := ctx.Bounds.SplitRows(1)
	ctx.Buffer.Fill(header, ' ', headerStyle)
	ctx.Render(c.header, header)

	helpHeight := min(len(c.help.Lines()), rest.Height/2)
	body, help := rest.SplitRows(rest.Height - helpHeight)
	left, right := body.SplitColumns(body.Width / 2)
	ctx.Render(c.table, left)
	ctx.Render(c.inspector, runtime.Rect{X: right.X + 1, Y: right.Y, Width: right.Width - 1, Height: right.Height})
	ctx.Render(c.help, help)
}

// HandleKey maps keys onto store updates. Store changes redraw through the
// render hooks, so only local navigation reports a render.
func (c *counter) HandleKey(app *runtime.App, msg runtime.KeyMsg) bool {
	switch msg.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return c.Services.Execute(runtime.Quit{})
	case backend.KeyUp, backend.KeyDown:
		return c.table.HandleKey(app, msg)
	case backend.KeyRune:
	default:
		return false
	}
	switch msg.Rune {
	case '+', '=':
		_ = c.add(1)
	case '-', '_':
		_ = c.add(-1)
	case 'a':
		_ = c.toggleAuto()
	case 'r':
		_ = c.reset()
	case 'q':
		return c.Services.Execute(runtime.Quit{})
	}
	return false
}

func (c *counter) appConfig(be backend.Backend, cfg *config.Config, obs observability.Observer) runtime.AppConfig {
	return runtime.AppConfig{
		Backend:         be,
		Root:            c,
		TickRate:        cfg.TickRate.Duration(),
		FlushPolicy:     cfg.Policy(),
		Observer:        obs,
		DeferSelections: true,
	}
}

var (
	_ runtime.Component     = (*counter)(nil)
	_ runtime.KeyHandler    = (*counter)(nil)
	_ runtime.Bindable      = (*counter)(nil)
	_ runtime.ChildProvider = (*counter)(nil)
)
