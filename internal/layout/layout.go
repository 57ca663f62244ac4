package layout

// Layout describes a single row of cascaded square LED cells.
type Layout struct {
	Cells    int
	CellSize int
}

// Cascade is the physical surface: twelve 8×8 MAX7219 cells.
var Cascade = Layout{Cells: 12, CellSize: 8}

func (l Layout) Width() int  { return l.Cells * l.CellSize }
func (l Layout) Height() int { return l.CellSize }

// Count is the number of pixels on the surface.
func (l Layout) Count() int { return l.Width() * l.Height() }

// CellOf maps surface column x to its cell index and the column inside
// that cell.
func (l Layout) CellOf(x int) (cell, col int) {
	return x / l.CellSize, x % l.CellSize
}
