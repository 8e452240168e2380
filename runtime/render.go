package runtime

import (
	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/state"
)

// Component draws itself on every render pass.
type Component interface {
	Render(ctx *RenderContext)
}

// ComponentFunc adapts a function into a Component.
type ComponentFunc func(ctx *RenderContext)

// Render calls f.
func (f ComponentFunc) Render(ctx *RenderContext) {
	if f != nil {
		f(ctx)
	}
}

// RenderContext is handed to a component during a render pass.
type RenderContext struct {
	Buffer   *Buffer
	Bounds   Rect
	hooks    *Hooks
	services Services
}

// NewRenderContext creates a context drawing into buf within bounds.
func NewRenderContext(buf *Buffer, bounds Rect, hooks *Hooks) *RenderContext {
	return &RenderContext{Buffer: buf, Bounds: bounds, hooks: hooks}
}

// Hooks returns the component's hook state.
func (ctx *RenderContext) Hooks() *Hooks {
	if ctx == nil {
		return nil
	}
	return ctx.hooks
}

// Host returns the state.Host used by store hooks in this component.
// Without hook state, reads are direct.
func (ctx *RenderContext) Host() state.Host {
	if h := ctx.Hooks(); h != nil {
		return h
	}
	return state.DirectHost{}
}

// Services returns the app services, zero outside an app.
func (ctx *RenderContext) Services() Services {
	if ctx == nil {
		return Services{}
	}
	return ctx.services
}

// Text draws s at (dx, dy) relative to the bounds, clipped to them.
// It returns the number of columns written.
func (ctx *RenderContext) Text(dx, dy int, s string, style backend.Style) int {
	if ctx == nil || ctx.Buffer == nil || dy < 0 || dy >= ctx.Bounds.Height {
		return 0
	}
	return ctx.Buffer.setStringClipped(ctx.Bounds, ctx.Bounds.X+dx, ctx.Bounds.Y+dy, s, style)
}

// Fill paints the bounds with ch.
func (ctx *RenderContext) Fill(ch rune, style backend.Style) {
	if ctx == nil || ctx.Buffer == nil {
		return
	}
	ctx.Buffer.Fill(ctx.Bounds, ch, style)
}

// Render draws child inside bounds with its own hook state. Children are
// identified by call order like hooks.
func (ctx *RenderContext) Render(child Component, bounds Rect) {
	if ctx == nil || child == nil {
		return
	}
	bounds = bounds.Intersect(ctx.Bounds)
	var hooks *Hooks
	if ctx.hooks != nil {
		hooks = ctx.hooks.childHooks()
		hooks.begin()
		defer hooks.finish()
	}
	child.Render(&RenderContext{
		Buffer:   ctx.Buffer,
		Bounds:   bounds,
		hooks:    hooks,
		services: ctx.services,
	})
}
