package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) OnEvent(ctx context.Context, event Event) {
	r.events = append(r.events, event)
}

func TestLevel_String(t *testing.T) {
	cases := map[Level]string{
		LevelVerbose: "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARN",
		LevelError:   "ERROR",
		Level(2):     "TRACE",
		Level(21):    "FATAL",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("expected %s for level %d, got %s", want, level, got)
		}
	}
}

func TestEmit_NilObserver(t *testing.T) {
	Emit(context.Background(), nil, "store.set", LevelInfo, "test", nil)
}

func TestEmit_StampsEvent(t *testing.T) {
	rec := &recordingObserver{}
	Emit(nil, rec, "store.set", LevelInfo, "store", map[string]any{"version": 1})
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Type != "store.set" || ev.Source != "store" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestSlogObserver_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewSlogObserver(logger)

	obs.OnEvent(context.Background(), Event{
		Type:   "store.set",
		Level:  LevelInfo,
		Source: "counter",
		Data:   map[string]any{"version": 3},
	})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["msg"] != "store.set" {
		t.Fatalf("expected msg store.set, got %v", record["msg"])
	}
	if record["source"] != "counter" {
		t.Fatalf("expected source counter, got %v", record["source"])
	}
	if record["version"] != float64(3) {
		t.Fatalf("expected version 3, got %v", record["version"])
	}
}

func TestSlogObserver_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	obs := NewSlogObserver(logger)

	obs.OnEvent(context.Background(), Event{Type: "store.subscribe", Level: LevelVerbose})
	if buf.Len() != 0 {
		t.Fatalf("expected debug event to be filtered, got %q", buf.String())
	}
	obs.OnEvent(context.Background(), Event{Type: "store.update.failed", Level: LevelWarning})
	if !strings.Contains(buf.String(), "store.update.failed") {
		t.Fatalf("expected warning to be logged, got %q", buf.String())
	}
}

func TestMultiObserver_FansOut(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	multi := NewMultiObserver(a, nil, b)

	multi.OnEvent(context.Background(), Event{Type: "runtime.render"})
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected both observers to receive event, got %d and %d", len(a.events), len(b.events))
	}
}

func TestRegistry(t *testing.T) {
	if _, err := GetObserver("missing"); err == nil {
		t.Fatalf("expected error for unknown observer")
	}
	rec := &recordingObserver{}
	RegisterObserver("recording", rec)
	got, err := GetObserver("recording")
	if err != nil {
		t.Fatalf("get observer: %v", err)
	}
	if got != Observer(rec) {
		t.Fatalf("expected registered observer back")
	}
	names := ObserverNames()
	if len(names) < 3 || names[0] != "noop" {
		t.Fatalf("unexpected names %v", names)
	}
}
