package life

// Board is a grid of 0/1 cells stored row-major.
type Board struct {
	W, H  int
	Cells []uint8
}

func NewBoard(w, h int) Board {
	return Board{W: w, H: h, Cells: make([]uint8, w*h)}
}

func (b Board) At(x, y int) uint8 { return b.Cells[y*b.W+x] }

func (b Board) Set(x, y int, v uint8) { b.Cells[y*b.W+x] = v & 1 }

// Clone returns a deep copy.
func (b Board) Clone() Board {
	c := Board{W: b.W, H: b.H, Cells: make([]uint8, len(b.Cells))}
	copy(c.Cells, b.Cells)
	return c
}

func (b Board) Equal(o Board) bool {
	if b.W != o.W || b.H != o.H || len(b.Cells) != len(o.Cells) {
		return false
	}
	for i := range b.Cells {
		if b.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// Live counts live cells.
func (b Board) Live() int {
	n := 0
	for _, c := range b.Cells {
		n += int(c)
	}
	return n
}

// Next computes the following generation under B3/S23 on a torus the size
// of the board.
func Next(b Board) Board {
	out := NewBoard(b.W, b.H)
	nextInto(out, b)
	return out
}

func nextInto(dst, b Board) {
	w, h := b.W, b.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					neighbors += int(b.Cells[ny*w+nx])
				}
			}
			idx := y*w + x
			alive := b.Cells[idx] == 1
			dst.Cells[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				dst.Cells[idx] = 1
			}
		}
	}
}
