package anim

import (
	"fmt"
	"time"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/layout"
)

// Shifter draws a seed pattern once and then rotates its region by a fixed
// number of columns every period.
type Shifter struct {
	c      Canvas
	region layout.Region
	seed   layout.Seed
	shift  int
	period time.Duration

	gate
	seeded bool
}

func NewShifter(c Canvas, region layout.Region, seed layout.Seed, shift int, period time.Duration) (*Shifter, error) {
	if err := checkRegion(c, region); err != nil {
		return nil, err
	}
	if err := checkPeriod(region.Name, period); err != nil {
		return nil, err
	}
	if len(seed) != region.H {
		return nil, fmt.Errorf("anim: seed for %s has %d rows, want %d", region, len(seed), region.H)
	}
	return &Shifter{c: c, region: region, seed: seed, shift: shift, period: period}, nil
}

func (s *Shifter) Name() string { return s.region.Name }

func (s *Shifter) Poll(now clock.Tick) (bool, error) {
	if !s.ready(now) {
		return false, nil
	}
	r := s.region
	if !s.seeded {
		for y := 0; y < r.H; y++ {
			for x := 0; x < r.W; x++ {
				if err := s.c.SetPixel(r.X+x, r.Y+y, s.seed.On(x, y, r.W)); err != nil {
					return false, err
				}
			}
		}
		s.seeded = true
	} else if err := s.c.ShiftRegion(r.X, r.Y, r.W, r.H, s.shift, true); err != nil {
		return false, err
	}
	s.schedule(now, s.period)
	return true, nil
}
