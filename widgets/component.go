package widgets

import (
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// Component is embedded by widgets that hold long-lived store subscriptions
// instead of reading stores through render hooks.
type Component struct {
	Services runtime.Services
	Subs     state.Subscriptions
}

// Bind attaches app services to the component.
// Subscriptions made afterwards run on the app loop.
func (c *Component) Bind(services runtime.Services) {
	c.Services = services
	c.Subs.SetScheduler(services.Scheduler())
}

// Unbind releases app services and subscriptions.
func (c *Component) Unbind() {
	c.Subs.Clear()
	c.Services = runtime.Services{}
}

// Invalidate requests a render pass.
func (c *Component) Invalidate() {
	c.Services.Invalidate()
}

// Observe registers a subscription using the bound scheduler.
func (c *Component) Observe(sub state.Subscribable, fn func()) {
	c.Subs.Observe(sub, fn)
}

// Listen registers a store listener synchronously.
func (c *Component) Listen(store *state.Store, l state.Listener) {
	c.Subs.Listen(store, l)
}
