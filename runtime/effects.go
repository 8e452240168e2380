package runtime

import (
	"context"
	"time"

	"github.com/odvcencio/furry-store/state"
)

// After posts msg once after delay. A non-positive delay posts immediately.
func After(delay time.Duration, msg Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if msg == nil || post == nil {
				return
			}
			if delay <= 0 {
				post(msg)
				return
			}
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
				post(msg)
			}
		},
	}
}

// Every calls fn on a fixed interval and posts what it returns.
// Returning nil from fn skips posting.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if interval <= 0 || fn == nil || post == nil {
				return
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if msg := fn(now); msg != nil {
						post(msg)
					}
				}
			}
		},
	}
}

// OnStore forwards store changes into the app loop until the effect's
// context ends. fn maps each new snapshot to a message; nil skips posting.
func OnStore(store *state.Store, fn func(*state.State) Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if store == nil || fn == nil || post == nil {
				return
			}
			unsub := store.Subscribe(func() {
				if msg := fn(store.GetSnapshot()); msg != nil {
					post(msg)
				}
			})
			defer unsub()
			<-ctx.Done()
		},
	}
}
