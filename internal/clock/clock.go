// Package clock provides the free-running millisecond tick used to gate
// every animation. Ticks wrap at 32 bits, so they must only be compared
// through Diff or Due.
package clock

import (
	"sync"
	"time"
)

// Tick is a millisecond counter that wraps at 2^32.
type Tick uint32

// Add returns the tick d after t. Sub-millisecond parts of d are dropped.
func (t Tick) Add(d time.Duration) Tick {
	return t + Tick(d.Milliseconds())
}

// Since returns the signed duration from earlier to t.
func (t Tick) Since(earlier Tick) time.Duration {
	return time.Duration(Diff(t, earlier)) * time.Millisecond
}

// Diff returns a-b as a signed distance that stays correct across the wrap,
// provided the two ticks are less than 2^31 ms apart.
func Diff(a, b Tick) int32 {
	return int32(a - b)
}

// Due reports whether now has reached deadline.
func Due(now, deadline Tick) bool {
	return Diff(now, deadline) >= 0
}

// Clock is the monotonic time source polled by the scheduler.
type Clock interface {
	Now() Tick
}

// System counts milliseconds since it was created, offset by Base.
type System struct {
	Base  Tick
	start time.Time
}

func NewSystem() *System {
	return &System{start: time.Now()}
}

func (s *System) Now() Tick {
	return s.Base + Tick(time.Since(s.start).Milliseconds())
}

// Manual is a clock that only moves when told to. Safe for concurrent use.
type Manual struct {
	mu sync.Mutex
	t  Tick
}

func NewManual(start Tick) *Manual {
	return &Manual{t: start}
}

func (m *Manual) Now() Tick {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *Manual) Set(t Tick) {
	m.mu.Lock()
	m.t = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new tick.
func (m *Manual) Advance(d time.Duration) Tick {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
	return m.t
}
