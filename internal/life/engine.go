// Package life runs Conway's Game of Life confined to one region. The
// region is its own torus, and boards that settle into a still life, a
// period-2 oscillator, extinction or old age are replaced by fresh noise.
package life

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/rng"
)

// DefaultMaxAge is how long a board may live before a forced reseed.
const DefaultMaxAge = 60 * time.Second

// Reason explains why a board was seeded.
type Reason int

const (
	Initial Reason = iota
	Still
	Oscillating
	Extinct
	Aged
)

func (r Reason) String() string {
	switch r {
	case Initial:
		return "initial"
	case Still:
		return "still"
	case Oscillating:
		return "oscillating"
	case Extinct:
		return "extinct"
	case Aged:
		return "aged"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Engine holds the live board, two generations of history and the time
// the board was created. A nil current board means not yet seeded.
type Engine struct {
	w, h   int
	maxAge time.Duration
	rnd    rng.Source

	cur     *Board
	prev1   *Board // one generation back
	prev2   *Board // two generations back
	born    clock.Tick
	scratch Board
	reseeds int
	gen     int

	// OnReseed, if set, is called after every reseed.
	OnReseed func(Reason)
}

func New(w, h int, rnd rng.Source, maxAge time.Duration) *Engine {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Engine{
		w:       w,
		h:       h,
		maxAge:  maxAge,
		rnd:     rnd,
		scratch: NewBoard(w, h),
	}
}

func (e *Engine) Seeded() bool { return e.cur != nil }

// Board returns a copy of the current board, or an empty one before the
// first seed.
func (e *Engine) Board() Board {
	if e.cur == nil {
		return NewBoard(e.w, e.h)
	}
	return e.cur.Clone()
}

// History returns copies of the one- and two-back boards. ok is false for
// slots that have not been filled since the last seed.
func (e *Engine) History() (one Board, okOne bool, two Board, okTwo bool) {
	if e.prev1 != nil {
		one, okOne = e.prev1.Clone(), true
	}
	if e.prev2 != nil {
		two, okTwo = e.prev2.Clone(), true
	}
	return
}

// Born is when the current board was created.
func (e *Engine) Born() clock.Tick { return e.born }

// Generation counts committed steps since the last seed.
func (e *Engine) Generation() int { return e.gen }

// Reseeds counts seeds, including the initial one.
func (e *Engine) Reseeds() int { return e.reseeds }

// Load installs b as the current board and clears history.
func (e *Engine) Load(b Board, now clock.Tick) error {
	if b.W != e.w || b.H != e.h || len(b.Cells) != e.w*e.h {
		return fmt.Errorf("life: board %dx%d does not match region %dx%d", b.W, b.H, e.w, e.h)
	}
	c := b.Clone()
	e.install(&c, now)
	return nil
}

// Reseed fills the board with independent random cells.
func (e *Engine) Reseed(now clock.Tick, why Reason) {
	b := NewBoard(e.w, e.h)
	for i := range b.Cells {
		b.Cells[i] = e.rnd.Bit()
	}
	e.install(&b, now)
	e.reseeds++
	log.Debug().Str("reason", why.String()).Int("live", b.Live()).Msg("life reseed")
	if e.OnReseed != nil {
		e.OnReseed(why)
	}
}

func (e *Engine) install(b *Board, now clock.Tick) {
	e.cur = b
	e.prev1, e.prev2 = nil, nil
	e.born = now
	e.gen = 0
}

// Step advances one generation. When the candidate generation trips a
// stability check the board is reseeded instead and the reason returned
// with reseeded set.
func (e *Engine) Step(now clock.Tick) (why Reason, reseeded bool) {
	if e.cur == nil {
		e.Reseed(now, Initial)
		return Initial, true
	}

	next := e.scratch
	nextInto(next, *e.cur)

	switch {
	case next.Equal(*e.cur):
		why, reseeded = Still, true
	case e.prev1 != nil && next.Equal(*e.prev1):
		why, reseeded = Oscillating, true
	case next.Live() == 0:
		why, reseeded = Extinct, true
	case now.Since(e.born) > e.maxAge:
		why, reseeded = Aged, true
	}
	if reseeded {
		e.Reseed(now, why)
		return why, true
	}

	// history keeps its own copies; the scratch board is reused
	e.prev2, e.prev1 = e.prev1, e.cur
	committed := next.Clone()
	e.cur = &committed
	e.gen++
	return why, false
}
