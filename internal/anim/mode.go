package anim

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/rng"
)

// State is the mode controller's state.
type State int

const (
	Relaxed State = iota
	Frantic
)

func (s State) String() string {
	if s == Frantic {
		return "frantic"
	}
	return "relaxed"
}

// ModeTiming holds the dwell durations and the chance of going frantic.
type ModeTiming struct {
	RelaxRun   time.Duration
	FastRun    time.Duration
	FastChance float64
}

// DefaultModeTiming is the stock relaxed/frantic cadence.
var DefaultModeTiming = ModeTiming{
	RelaxRun:   5000 * time.Millisecond,
	FastRun:    2500 * time.Millisecond,
	FastChance: 0.01,
}

// Mode flips between relaxed and frantic. The frantic coin is tossed once
// per FastRun interval while relaxed, so from startup the expected wait for
// the first frantic spell is FastRun/FastChance, and after a frantic spell
// it is RelaxRun + FastRun*(1/FastChance - 1).
type Mode struct {
	timing ModeTiming
	rnd    rng.Source
	state  State
	next   clock.Tick

	// OnChange, if set, is called after every transition.
	OnChange func(State)
}

// NewMode starts relaxed with the first check FastRun after now.
func NewMode(rnd rng.Source, timing ModeTiming, now clock.Tick) (*Mode, error) {
	if timing.RelaxRun < time.Millisecond || timing.FastRun < time.Millisecond {
		return nil, fmt.Errorf("anim: mode dwell times must be at least 1ms, got %v/%v", timing.RelaxRun, timing.FastRun)
	}
	if timing.FastChance < 0 || timing.FastChance > 1 {
		return nil, fmt.Errorf("anim: fast chance %v outside [0,1]", timing.FastChance)
	}
	return &Mode{timing: timing, rnd: rnd, next: now.Add(timing.FastRun)}, nil
}

func (m *Mode) State() State { return m.state }

func (m *Mode) Frantic() bool { return m.state == Frantic }

// NextCheck is when the mode will next be evaluated.
func (m *Mode) NextCheck() clock.Tick { return m.next }

// Poll evaluates the mode if its check is due and reports a transition.
func (m *Mode) Poll(now clock.Tick) bool {
	if !clock.Due(now, m.next) {
		return false
	}
	prev := m.state
	if m.state == Frantic {
		m.state = Relaxed
		m.next = now.Add(m.timing.RelaxRun)
	} else {
		m.next = now.Add(m.timing.FastRun)
		if m.rnd.Float64() < m.timing.FastChance {
			m.state = Frantic
		}
	}
	if m.state == prev {
		return false
	}
	log.Debug().Stringer("mode", m.state).Msg("mode change")
	if m.OnChange != nil {
		m.OnChange(m.state)
	}
	return true
}
