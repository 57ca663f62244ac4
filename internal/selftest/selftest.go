// Package selftest lights the cascade in simple patterns so broken cells,
// swapped cells and dead rows are easy to spot.
package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/blinken/internal/fb"
)

type Kind string

const (
	None      Kind = ""
	CellSweep Kind = "cells"
	RowSweep  Kind = "rows"
	AllOn     Kind = "all"
)

// Kinds lists the runnable plans.
var Kinds = []Kind{CellSweep, RowSweep, AllOn}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("selftest: unknown plan %q", s)
}

type Plan struct {
	Kind     Kind
	CellSize int // 8 for MAX7219 matrices
}

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner {
	if plan.CellSize <= 0 {
		plan.CellSize = 8
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Steps is how many frames the plan shows on f.
func (r *Runner) Steps(f *fb.Framebuffer) int {
	switch r.plan.Kind {
	case CellSweep:
		return (f.Width() + r.plan.CellSize - 1) / r.plan.CellSize
	case RowSweep:
		return f.Height()
	case AllOn:
		return 1
	}
	return 0
}

// Step draws the next frame into f; returns false when complete.
func (r *Runner) Step(f *fb.Framebuffer) bool {
	if r.step >= r.Steps(f) {
		return false
	}
	f.Clear()
	switch r.plan.Kind {
	case CellSweep:
		x0 := r.step * r.plan.CellSize
		for y := 0; y < f.Height(); y++ {
			for x := x0; x < x0+r.plan.CellSize && x < f.Width(); x++ {
				_ = f.SetPixel(x, y, true)
			}
		}
	case RowSweep:
		for x := 0; x < f.Width(); x++ {
			_ = f.SetPixel(x, r.step, true)
		}
	case AllOn:
		f.Fill(true)
	}
	r.step++
	return true
}

// Presenter shows the framebuffer.
type Presenter interface {
	Present() error
}

// Run steps r to completion, presenting each frame and holding it for
// hold. It returns the number of frames shown.
func Run(ctx context.Context, r *Runner, f *fb.Framebuffer, out Presenter, hold time.Duration) (int, error) {
	n := 0
	for r.Step(f) {
		if err := out.Present(); err != nil {
			return n, fmt.Errorf("selftest: %s step %d: %w", r.Kind(), n, err)
		}
		n++
		log.Debug().Str("plan", string(r.Kind())).Int("step", n).Msg("selftest frame")
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-time.After(hold):
		}
	}
	return n, nil
}
