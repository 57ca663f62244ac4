package layout

import "fmt"

// Seed is a fixed bit pattern, one value per row. The leftmost column of a
// region is the most significant of its W bits.
type Seed []uint64

// On reports whether column x of row y is lit for a region of width w.
func (s Seed) On(x, y, w int) bool {
	return s[y]>>uint(w-1-x)&1 == 1
}

func (s Seed) fits(r Region) error {
	if len(s) != r.H {
		return fmt.Errorf("layout: seed for %s has %d rows, want %d", r, len(s), r.H)
	}
	if r.W > 64 {
		return fmt.Errorf("layout: seed for %s wider than 64 bits", r)
	}
	for y, v := range s {
		if r.W < 64 && v>>uint(r.W) != 0 {
			return fmt.Errorf("layout: seed row %d (%#x) wider than %s", y, v, r)
		}
	}
	return nil
}
