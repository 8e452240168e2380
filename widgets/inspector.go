package widgets

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// DefaultInspectorTheme is the chroma style used when none is set.
const DefaultInspectorTheme = "monokai"

// Inspector renders a store snapshot as highlighted, indented JSON.
// It reads the store through render hooks, so it redraws on every set.
type Inspector struct {
	store  *state.Store
	theme  *chroma.Style
	lexer  chroma.Lexer
	Title  string
	scroll int
}

// NewInspector creates an inspector for store with the named chroma style.
// Unknown style names fall back to chroma's default.
func NewInspector(store *state.Store, theme string) *Inspector {
	if theme == "" {
		theme = DefaultInspectorTheme
	}
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Inspector{
		store: store,
		theme: styles.Get(theme),
		lexer: chroma.Coalesce(lexer),
	}
}

// ScrollBy moves the view by delta lines.
func (i *Inspector) ScrollBy(delta int) {
	i.scroll = max(0, i.scroll+delta)
}

// Render draws the title line and the highlighted snapshot.
func (i *Inspector) Render(ctx *runtime.RenderContext) {
	if i.store == nil || ctx.Bounds.Empty() {
		return
	}
	snap := runtime.UseStore(ctx, i.store, func(s *state.State) *state.State { return s })

	body := ctx.Bounds
	if i.Title != "" {
		title := i.Title + " v" + strconv.FormatUint(snap.Version(), 10)
		writeLine(ctx.Buffer, ctx.Bounds, 0, title, backend.DefaultStyle().Bold(true), AlignLeft)
		body.Y++
		body.Height--
	}

	lines, err := i.Highlight(snap)
	if err != nil {
		writeLine(ctx.Buffer, body, 0, err.Error(), backend.DefaultStyle().Foreground(tcell.ColorRed), AlignLeft)
		return
	}
	start := min(i.scroll, max(0, len(lines)-1))
	for row := 0; row < body.Height && start+row < len(lines); row++ {
		x := body.X
		for _, span := range lines[start+row] {
			used := ctx.Buffer.SetString(x, body.Y+row, truncateString(span.Text, body.X+body.Width-x), span.Style)
			x += used
			if x >= body.X+body.Width {
				break
			}
		}
	}
}

// Span is a run of text drawn with one style.
type Span struct {
	Text  string
	Style backend.Style
}

// Highlight renders snap as indented JSON split into styled lines.
func (i *Inspector) Highlight(snap *state.State) ([][]Span, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	it, err := i.lexer.Tokenise(nil, string(data))
	if err != nil {
		return nil, err
	}
	lines := [][]Span{nil}
	for tok := it(); tok != chroma.EOF; tok = it() {
		style := i.tokenStyle(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for n, part := range parts {
			if n > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], Span{Text: part, Style: style})
			}
		}
	}
	return lines, nil
}

func (i *Inspector) tokenStyle(tt chroma.TokenType) backend.Style {
	style := backend.DefaultStyle()
	entry := i.theme.Get(tt)
	if entry.Colour.IsSet() {
		style = style.Foreground(tcell.NewRGBColor(int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue())))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	return style
}
