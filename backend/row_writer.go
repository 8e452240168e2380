package backend

// RowWriter is an optional optimization for writing a run of cells on one row.
// Backends that implement it receive whole dirty spans instead of single cells.
type RowWriter interface {
	SetRow(y int, startX int, cells []Cell)
}
