// Package layout holds the static geometry of the display: the cell
// cascade, the named regions that tile it and the bit patterns used to
// seed some of them.
package layout

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRegion = errors.New("layout: unknown region")
	ErrUnknownSeed   = errors.New("layout: unknown seed")
)

// Region is a named rectangle in framebuffer pixel coordinates.
type Region struct {
	Name string
	X, Y int
	W, H int
}

// Bits is the number of pixels in the region.
func (r Region) Bits() int { return r.W * r.H }

func (r Region) String() string {
	return fmt.Sprintf("%s(%d,%d %dx%d)", r.Name, r.X, r.Y, r.W, r.H)
}

// Registry is the immutable region table. Seeds may only be added while
// the program is being assembled.
type Registry struct {
	width, height int
	order         []string
	regions       map[string]Region
	seeds         map[string]Seed
}

// NewRegistry validates regions against a width×height surface. Overlap
// between regions is not checked.
func NewRegistry(width, height int, regions ...Region) (*Registry, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("layout: invalid surface %dx%d", width, height)
	}
	reg := &Registry{
		width:   width,
		height:  height,
		regions: make(map[string]Region, len(regions)),
		seeds:   map[string]Seed{},
	}
	for _, r := range regions {
		if r.Name == "" {
			return nil, errors.New("layout: region without a name")
		}
		if _, dup := reg.regions[r.Name]; dup {
			return nil, fmt.Errorf("layout: duplicate region %q", r.Name)
		}
		if r.W <= 0 || r.H <= 0 {
			return nil, fmt.Errorf("layout: region %s has no area", r)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > width || r.Y+r.H > height {
			return nil, fmt.Errorf("layout: region %s exceeds %dx%d surface", r, width, height)
		}
		reg.regions[r.Name] = r
		reg.order = append(reg.order, r.Name)
	}
	return reg, nil
}

func (g *Registry) Width() int  { return g.width }
func (g *Registry) Height() int { return g.height }

// Region looks up a region by name.
func (g *Registry) Region(name string) (Region, error) {
	r, ok := g.regions[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
	return r, nil
}

// Regions lists regions in declared order.
func (g *Registry) Regions() []Region {
	out := make([]Region, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.regions[name])
	}
	return out
}

// AddSeed attaches a seed pattern to a region. The pattern must have one
// value per region row and every value must fit in the region width.
func (g *Registry) AddSeed(region string, s Seed) error {
	r, err := g.Region(region)
	if err != nil {
		return err
	}
	if err := s.fits(r); err != nil {
		return err
	}
	g.seeds[region] = append(Seed(nil), s...)
	return nil
}

// Seed returns the pattern attached to region.
func (g *Registry) Seed(region string) (Seed, error) {
	s, ok := g.seeds[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeed, region)
	}
	return append(Seed(nil), s...), nil
}
