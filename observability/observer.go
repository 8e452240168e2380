// Package observability carries structured events out of the store and the
// runtime. Levels follow OpenTelemetry severity numbers so events can be
// forwarded to a collector without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity.
type Level int

const (
	LevelVerbose Level = 5  // DEBUG range (5-8)
	LevelInfo    Level = 9  // INFO range (9-12)
	LevelWarning Level = 13 // WARN range (13-16)
	LevelError   Level = 17 // ERROR range (17-20)
)

// String returns the severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level onto slog.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, e.g. "store.set" or "runtime.render".
type EventType string

// Event is emitted by the store and the runtime.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit sends an event stamped with the current time. A nil observer drops it.
func Emit(ctx context.Context, obs Observer, typ EventType, level Level, source string, data map[string]any) {
	if obs == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	obs.OnEvent(ctx, Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
