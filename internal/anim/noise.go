package anim

import (
	"errors"
	"time"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/layout"
	"github.com/coreman2200/blinken/internal/rng"
)

// Delays are the candidate update periods for each mode.
type Delays struct {
	Slow []time.Duration
	Fast []time.Duration
}

// DefaultDelays are the stock noise refresh delays.
var DefaultDelays = Delays{
	Slow: []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond, 1500 * time.Millisecond, 2000 * time.Millisecond},
	Fast: []time.Duration{10 * time.Millisecond, 25 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond},
}

// Noise flips a coin for every pixel and rewrites the winners with a
// random bit. It reports a change every time it runs, even when no pixel
// ended up different.
type Noise struct {
	c      Canvas
	region layout.Region
	rnd    rng.Source
	mode   *Mode
	delays Delays
	gate
}

func NewNoise(c Canvas, region layout.Region, rnd rng.Source, mode *Mode, delays Delays) (*Noise, error) {
	if err := checkRegion(c, region); err != nil {
		return nil, err
	}
	if mode == nil {
		return nil, errors.New("anim: noise needs a mode controller")
	}
	if len(delays.Slow) == 0 || len(delays.Fast) == 0 {
		return nil, errors.New("anim: noise needs slow and fast delays")
	}
	for _, d := range append(append([]time.Duration(nil), delays.Slow...), delays.Fast...) {
		if err := checkPeriod(region.Name, d); err != nil {
			return nil, err
		}
	}
	return &Noise{c: c, region: region, rnd: rnd, mode: mode, delays: delays}, nil
}

func (a *Noise) Name() string { return a.region.Name }

func (a *Noise) Poll(now clock.Tick) (bool, error) {
	if !a.ready(now) {
		return false, nil
	}
	r := a.region
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if a.rnd.Bit() != 0 {
				continue
			}
			if err := a.c.SetPixel(x, y, a.rnd.Bit() == 1); err != nil {
				return false, err
			}
		}
	}
	a.schedule(now, a.nextDelay())
	return true, nil
}

func (a *Noise) nextDelay() time.Duration {
	set := a.delays.Slow
	if a.mode.Frantic() {
		set = a.delays.Fast
	}
	return set[a.rnd.IntRange(0, len(set)-1)]
}
