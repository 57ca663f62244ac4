// Package render drives the animators: one cycle polls the mode controller
// and every animator in order, then presents the framebuffer at most once.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coreman2200/blinken/internal/anim"
	"github.com/coreman2200/blinken/internal/clock"
)

// DefaultIdle is the pause between cycles.
const DefaultIdle = time.Millisecond

// Presenter pushes the finished framebuffer to the display.
type Presenter interface {
	Present() error
}

// Stats counts engine activity since start.
type Stats struct {
	Cycles uint64
	Frames uint64
}

// Engine polls animators in a fixed order against a single tick per cycle.
// It is driven from one goroutine; only Stats may be read concurrently.
type Engine struct {
	Clk   clock.Clock
	Mode  *anim.Mode
	Out   Presenter
	Anims []anim.Animator
	Idle  time.Duration

	cycles atomic.Uint64
	frames atomic.Uint64

	// metrics (last durations in ms)
	Last struct {
		PollMS    float64
		PresentMS float64
	}
}

// NewEngine returns an Engine with the default idle. mode may be nil.
func NewEngine(clk clock.Clock, mode *anim.Mode, out Presenter, animators ...anim.Animator) (*Engine, error) {
	if clk == nil {
		return nil, errors.New("render: clock is nil")
	}
	if out == nil {
		return nil, errors.New("render: presenter is nil")
	}
	seen := make(map[string]bool, len(animators))
	for _, a := range animators {
		if a == nil {
			return nil, errors.New("render: nil animator")
		}
		if seen[a.Name()] {
			return nil, fmt.Errorf("render: animator %q registered twice", a.Name())
		}
		seen[a.Name()] = true
	}
	return &Engine{
		Clk:   clk,
		Mode:  mode,
		Out:   out,
		Anims: animators,
		Idle:  DefaultIdle,
	}, nil
}

// RunOnce runs a single cycle and reports whether a frame was presented.
// The first animator error aborts the cycle before anything is presented.
func (e *Engine) RunOnce() (bool, error) {
	now := e.Clk.Now()
	start := time.Now()
	e.cycles.Add(1)

	if e.Mode != nil {
		e.Mode.Poll(now)
	}
	changed := false
	for _, a := range e.Anims {
		ch, err := a.Poll(now)
		if err != nil {
			return false, fmt.Errorf("render: %s: %w", a.Name(), err)
		}
		if ch {
			changed = true
		}
	}
	e.Last.PollMS = float64(time.Since(start).Microseconds()) / 1000.0
	if !changed {
		return false, nil
	}

	presentStart := time.Now()
	if err := e.Out.Present(); err != nil {
		return false, fmt.Errorf("render: present: %w", err)
	}
	e.Last.PresentMS = float64(time.Since(presentStart).Microseconds()) / 1000.0
	e.frames.Add(1)
	return true, nil
}

// Run cycles until ctx ends, pausing Idle between cycles. It returns nil
// on cancellation and the cycle error otherwise.
func (e *Engine) Run(ctx context.Context) error {
	idle := e.Idle
	if idle <= 0 {
		idle = DefaultIdle
	}
	t := time.NewTimer(idle)
	defer t.Stop()
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := e.RunOnce(); err != nil {
			return err
		}
		t.Reset(idle)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (e *Engine) Stats() Stats {
	return Stats{Cycles: e.cycles.Load(), Frames: e.frames.Load()}
}
