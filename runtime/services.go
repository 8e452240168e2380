package runtime

import (
	"time"

	"github.com/odvcencio/furry-store/state"
)

// Services is the handle bound components use to reach the app.
// The zero value is detached and every method is a no-op.
type Services struct {
	app *App
}

// Services returns a service handle for the app.
func (a *App) Services() Services {
	return Services{app: a}
}

// Scheduler returns the scheduler that runs store listeners on the app loop.
func (s Services) Scheduler() state.Scheduler {
	if s.app == nil {
		return nil
	}
	return s.app.StateScheduler()
}

// Invalidate requests a render pass.
func (s Services) Invalidate() {
	if s.app == nil {
		return
	}
	s.app.Invalidate()
}

// Spawn starts effect on the app task context, or queues it until Run.
func (s Services) Spawn(effect Effect) {
	if s.app == nil {
		return
	}
	s.app.Spawn(effect)
}

// Every spawns a recurring effect posting what fn returns.
func (s Services) Every(interval time.Duration, fn func(time.Time) Message) {
	s.Spawn(Every(interval, fn))
}

// Execute runs cmd through the app. It reports whether a render is needed.
func (s Services) Execute(cmd Command) bool {
	if s.app == nil || cmd == nil {
		return false
	}
	return s.app.ExecuteCommand(cmd)
}
