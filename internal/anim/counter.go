package anim

import (
	"fmt"
	"time"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/layout"
	"github.com/coreman2200/blinken/internal/rng"
)

// Bounds of the randomized decaying-counter reset deadline.
const (
	DecayResetMin = 20 * time.Second
	DecayResetMax = 60 * time.Second
)

func checkCounterRegion(c Canvas, r layout.Region) error {
	if err := checkRegion(c, r); err != nil {
		return err
	}
	if r.Bits() > 32 {
		return fmt.Errorf("anim: counter region %s holds %d bits, max 32", r, r.Bits())
	}
	return nil
}

// ClockCounter shows the low bits of the current tick.
type ClockCounter struct {
	c      Canvas
	region layout.Region
	period time.Duration
	gate
}

func NewClockCounter(c Canvas, region layout.Region, period time.Duration) (*ClockCounter, error) {
	if err := checkCounterRegion(c, region); err != nil {
		return nil, err
	}
	if err := checkPeriod(region.Name, period); err != nil {
		return nil, err
	}
	return &ClockCounter{c: c, region: region, period: period}, nil
}

func (a *ClockCounter) Name() string { return a.region.Name }

func (a *ClockCounter) Poll(now clock.Tick) (bool, error) {
	if !a.ready(now) {
		return false, nil
	}
	if err := drawBits(a.c, a.region, uint32(now)); err != nil {
		return false, err
	}
	a.schedule(now, a.period)
	return true, nil
}

// DecayCounter counts down from a random value, jumping to a fresh random
// value whenever its reset deadline passes.
type DecayCounter struct {
	c      Canvas
	region layout.Region
	period time.Duration
	rnd    rng.Source
	gate

	value   uint32
	resetAt clock.Tick
}

func NewDecayCounter(c Canvas, region layout.Region, rnd rng.Source, period time.Duration) (*DecayCounter, error) {
	if err := checkCounterRegion(c, region); err != nil {
		return nil, err
	}
	if err := checkPeriod(region.Name, period); err != nil {
		return nil, err
	}
	return &DecayCounter{c: c, region: region, rnd: rnd, period: period}, nil
}

func (a *DecayCounter) Name() string { return a.region.Name }

// Value is the number currently displayed.
func (a *DecayCounter) Value() uint32 { return a.value }

func (a *DecayCounter) reset(now clock.Tick) {
	a.value = a.rnd.Uint32()
	ms := a.rnd.IntRange(int(DecayResetMin.Milliseconds()), int(DecayResetMax.Milliseconds()))
	a.resetAt = now.Add(time.Duration(ms) * time.Millisecond)
}

func (a *DecayCounter) Poll(now clock.Tick) (bool, error) {
	if !a.ready(now) {
		return false, nil
	}
	if !a.primed || clock.Due(now, a.resetAt) {
		a.reset(now)
	} else {
		a.value--
	}
	if err := drawBits(a.c, a.region, a.value); err != nil {
		return false, err
	}
	a.schedule(now, a.period)
	return true, nil
}
