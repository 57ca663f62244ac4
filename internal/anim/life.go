package anim

import (
	"fmt"
	"time"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/layout"
	"github.com/coreman2200/blinken/internal/life"
)

// Life advances a life.Engine and redraws its whole region each period.
type Life struct {
	c      Canvas
	region layout.Region
	engine *life.Engine
	period time.Duration
	gate
}

func NewLife(c Canvas, region layout.Region, engine *life.Engine, period time.Duration) (*Life, error) {
	if err := checkRegion(c, region); err != nil {
		return nil, err
	}
	if err := checkPeriod(region.Name, period); err != nil {
		return nil, err
	}
	if b := engine.Board(); b.W != region.W || b.H != region.H {
		return nil, fmt.Errorf("anim: life board %dx%d does not match %s", b.W, b.H, region)
	}
	return &Life{c: c, region: region, engine: engine, period: period}, nil
}

func (a *Life) Name() string { return a.region.Name }

func (a *Life) Engine() *life.Engine { return a.engine }

func (a *Life) Poll(now clock.Tick) (bool, error) {
	if !a.ready(now) {
		return false, nil
	}
	a.engine.Step(now)
	b := a.engine.Board()
	r := a.region
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			if err := a.c.SetPixel(r.X+x, r.Y+y, b.At(x, y) == 1); err != nil {
				return false, err
			}
		}
	}
	a.schedule(now, a.period)
	return true, nil
}
