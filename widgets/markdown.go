package widgets

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// Markdown renders a small subset of Markdown: headings, paragraphs,
// lists, emphasis, code spans and code blocks. Lines wider than the bounds
// are truncated.
type Markdown struct {
	source string
	lines  [][]Span
}

// NewMarkdown parses source once.
func NewMarkdown(source string) *Markdown {
	return &Markdown{source: source, lines: renderMarkdown([]byte(source))}
}

// Source returns the Markdown text.
func (m *Markdown) Source() string {
	return m.source
}

// Lines returns the parsed lines.
func (m *Markdown) Lines() [][]Span {
	return m.lines
}

// Render draws the parsed lines from the top of the bounds.
func (m *Markdown) Render(ctx *runtime.RenderContext) {
	b := ctx.Bounds
	for row := 0; row < b.Height && row < len(m.lines); row++ {
		x := b.X
		for _, span := range m.lines[row] {
			if x >= b.X+b.Width {
				break
			}
			x += ctx.Buffer.SetString(x, b.Y+row, truncateString(span.Text, b.X+b.Width-x), span.Style)
		}
	}
}

type mdWriter struct {
	lines  [][]Span
	cur    []Span
	bold   int
	italic int
	code   bool
	prefix string
}

func (w *mdWriter) style() backend.Style {
	style := backend.DefaultStyle()
	if w.bold > 0 {
		style = style.Bold(true)
	}
	if w.italic > 0 {
		style = style.Italic(true)
	}
	if w.code {
		style = style.Reverse(true)
	}
	return style
}

func (w *mdWriter) write(s string) {
	if s == "" {
		return
	}
	if len(w.cur) == 0 && w.prefix != "" {
		w.cur = append(w.cur, Span{Text: w.prefix, Style: backend.DefaultStyle()})
		w.prefix = ""
	}
	w.cur = append(w.cur, Span{Text: s, Style: w.style()})
}

func (w *mdWriter) newline() {
	if n := len(w.cur); n > 0 {
		w.cur[n-1].Text = strings.TrimRight(w.cur[n-1].Text, " ")
	}
	w.lines = append(w.lines, w.cur)
	w.cur = nil
}

func (w *mdWriter) blank() {
	if n := len(w.lines); n > 0 && len(w.lines[n-1]) > 0 {
		w.lines = append(w.lines, nil)
	}
}

func renderMarkdown(source []byte) [][]Span {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	w := &mdWriter{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				w.blank()
				w.bold++
			} else {
				w.bold--
				w.newline()
			}
		case *ast.Paragraph:
			if entering {
				if _, inList := node.Parent().(*ast.ListItem); !inList {
					w.blank()
				}
			} else {
				w.newline()
			}
		case *ast.TextBlock:
			if !entering {
				w.newline()
			}
		case *ast.List:
			if entering {
				w.blank()
			}
		case *ast.ListItem:
			if entering {
				w.prefix = "• "
			}
		case *ast.Emphasis:
			if node.Level >= 2 {
				w.bold += boolDelta(entering)
			} else {
				w.italic += boolDelta(entering)
			}
		case *ast.CodeSpan:
			w.code = entering
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				w.blank()
				w.code = true
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					w.write(strings.TrimRight(string(seg.Value(source)), "\n"))
					w.newline()
				}
				w.code = false
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if entering {
				w.write(string(node.Segment.Value(source)))
				if node.HardLineBreak() {
					w.newline()
				} else if node.SoftLineBreak() {
					w.write(" ")
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if len(w.cur) > 0 {
		w.newline()
	}
	if n := len(w.lines); n > 0 && len(w.lines[0]) == 0 {
		w.lines = w.lines[1:]
	}
	return w.lines
}

func boolDelta(entering bool) int {
	if entering {
		return 1
	}
	return -1
}
