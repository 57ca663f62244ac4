// Package anim contains the per-region animators and the relaxed/frantic
// mode controller. Every animator gates itself on its own due tick; polling
// one that is not due has no side effects.
package anim

import (
	"fmt"
	"time"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/layout"
)

// Canvas is the framebuffer surface animators draw on.
type Canvas interface {
	Width() int
	Height() int
	SetPixel(x, y int, on bool) error
	Pixel(x, y int) (bool, error)
	ShiftRegion(x, y, w, h, shift int, wrap bool) error
}

// Animator updates one region when due and reports whether it drew.
type Animator interface {
	Name() string
	Poll(now clock.Tick) (bool, error)
}

// gate is an animator's due-time state. An unprimed gate is due on the
// first poll.
type gate struct {
	next   clock.Tick
	primed bool
}

func (g *gate) ready(now clock.Tick) bool {
	return !g.primed || clock.Due(now, g.next)
}

func (g *gate) schedule(now clock.Tick, d time.Duration) {
	g.next = now.Add(d)
	g.primed = true
}

func checkRegion(c Canvas, r layout.Region) error {
	if r.X < 0 || r.Y < 0 || r.W <= 0 || r.H <= 0 || r.X+r.W > c.Width() || r.Y+r.H > c.Height() {
		return fmt.Errorf("anim: region %s does not fit %dx%d canvas", r, c.Width(), c.Height())
	}
	return nil
}

func checkPeriod(name string, d time.Duration) error {
	if d < time.Millisecond {
		return fmt.Errorf("anim: %s period %v is shorter than one tick", name, d)
	}
	return nil
}

// drawBits renders v into r: column x of row y shows bit y*W+x, so the
// most significant bit of each row lands in the rightmost column.
func drawBits(c Canvas, r layout.Region, v uint32) error {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			bit := uint(y*r.W + x)
			if err := c.SetPixel(r.X+x, r.Y+y, v>>bit&1 == 1); err != nil {
				return err
			}
		}
	}
	return nil
}
