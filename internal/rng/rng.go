// Package rng is the random source used by the animators. Reproducibility
// is not required; the seed only exists so tests can pin a sequence.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source draws independent random values.
type Source interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Bit returns 0 or 1.
	Bit() uint8
	Uint32() uint32
}

// PCG is a Source backed by math/rand/v2's PCG generator.
type PCG struct {
	r *rand.Rand
}

// New returns a PCG source. A zero seed picks one from the wall clock.
func New(seed uint64) *PCG {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *PCG) Float64() float64 { return p.r.Float64() }

func (p *PCG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.r.IntN(hi-lo+1)
}

func (p *PCG) Bit() uint8 { return uint8(p.r.Uint32() & 1) }

func (p *PCG) Uint32() uint32 { return p.r.Uint32() }

// Fixed returns the same draws every time. IntRange returns lo unless Int
// falls inside the requested range.
type Fixed struct {
	F   float64
	Int int
	B   uint8
	U32 uint32
}

func (f Fixed) Float64() float64 { return f.F }

func (f Fixed) IntRange(lo, hi int) int {
	if f.Int >= lo && f.Int <= hi {
		return f.Int
	}
	return lo
}

func (f Fixed) Bit() uint8 { return f.B & 1 }

func (f Fixed) Uint32() uint32 { return f.U32 }
