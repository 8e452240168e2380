package widgets

import (
	"fmt"
	"slices"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Title string
	// Width is fixed when positive; zero columns share the remaining space.
	Width int
}

// StateTable lists the keys and values of a store, one row per key in
// sorted key order. It subscribes through render hooks with a row-wise
// equality, so sets that leave every formatted row unchanged do not
// redraw it.
type StateTable struct {
	Columns       []TableColumn
	store         *state.Store
	selected      int
	offset        int
	style         backend.Style
	headerStyle   backend.Style
	selectedStyle backend.Style
}

// NewStateTable creates a key/value table for store.
func NewStateTable(store *state.Store) *StateTable {
	return &StateTable{
		Columns:       []TableColumn{{Title: "KEY", Width: 12}, {Title: "VALUE"}},
		store:         store,
		style:         backend.DefaultStyle(),
		headerStyle:   backend.DefaultStyle().Bold(true),
		selectedStyle: backend.DefaultStyle().Reverse(true),
	}
}

// Selected returns the selected row index.
func (t *StateTable) Selected() int {
	return t.selected
}

// StateRows formats snap as key/value rows.
func StateRows(snap *state.State) [][]string {
	keys := snap.Keys()
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(snap.Value(k))})
	}
	return rows
}

func equalRows(a, b [][]string) bool {
	return slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

// Render draws the header and the visible rows.
func (t *StateTable) Render(ctx *runtime.RenderContext) {
	bounds := ctx.Bounds
	if t.store == nil || bounds.Empty() {
		return
	}
	rows := state.UseWithEqual(ctx.Host(), t.store, StateRows, equalRows)

	widths := t.columnWidths(bounds.Width)
	x := bounds.X
	for i, col := range t.Columns {
		ctx.Buffer.SetString(x, bounds.Y, padRight(truncateString(col.Title, widths[i]), widths[i]), t.headerStyle)
		x += widths[i] + 1
	}

	rowArea := bounds.Height - 1
	if rowArea <= 0 {
		return
	}
	t.selected = max(0, min(t.selected, len(rows)-1))
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+rowArea {
		t.offset = t.selected - rowArea + 1
	}
	for row := 0; row < rowArea; row++ {
		index := t.offset + row
		if index >= len(rows) {
			break
		}
		style := t.style
		if index == t.selected {
			style = t.selectedStyle
		}
		x = bounds.X
		for col, width := range widths {
			cell := ""
			if col < len(rows[index]) {
				cell = rows[index][col]
			}
			ctx.Buffer.SetString(x, bounds.Y+1+row, padRight(truncateString(cell, width), width), style)
			x += width + 1
		}
	}
}

// HandleKey moves the selection with the arrow keys.
func (t *StateTable) HandleKey(app *runtime.App, msg runtime.KeyMsg) bool {
	switch msg.Key {
	case backend.KeyUp:
		t.selected = max(0, t.selected-1)
		return true
	case backend.KeyDown:
		t.selected++
		return true
	}
	return false
}

func (t *StateTable) columnWidths(total int) []int {
	available := max(0, total-(len(t.Columns)-1))
	fixed, flex := 0, 0
	for _, col := range t.Columns {
		if col.Width > 0 {
			fixed += col.Width
		} else {
			flex++
		}
	}
	flexWidth := 0
	if flex > 0 {
		flexWidth = max(1, (available-fixed)/flex)
	}
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		if col.Width > 0 {
			widths[i] = min(col.Width, available)
		} else {
			widths[i] = flexWidth
		}
	}
	return widths
}

var _ runtime.KeyHandler = (*StateTable)(nil)
