package widgets

import (
	"testing"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

func TestMarkdown_Lines(t *testing.T) {
	md := NewMarkdown("# Keys\n\n- `+` increment\n- **q** quit\n\nPlain *text*.\n")
	var got []string
	for _, line := range md.Lines() {
		got = append(got, spansText(line))
	}
	want := []string{"Keys", "", "• + increment", "• q quit", "", "Plain text."}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if !hasBold(md.Lines()[0]) {
		t.Fatal("expected bold heading")
	}
}

func TestMarkdown_RenderTruncates(t *testing.T) {
	md := NewMarkdown("a very long line of help text")
	buf := runtime.NewBuffer(8, 1)
	md.Render(runtime.NewRenderContext(buf, runtime.Rect{Width: 8, Height: 1}, nil))
	if got := buf.Get(7, 0).Rune; got != '.' {
		t.Fatalf("expected ellipsis at the edge, got %q", got)
	}
}

func hasBold(line []Span) bool {
	for _, span := range line {
		if span.Style == backend.DefaultStyle().Bold(true) {
			return true
		}
	}
	return false
}
