package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/rng"
)

// countingSource records how often the mode coin is tossed.
type countingSource struct {
	rng.Source
	floats int
}

func (c *countingSource) Float64() float64 {
	c.floats++
	return c.Source.Float64()
}

func TestModeGoesFranticAfterFastRun(t *testing.T) {
	m, err := NewMode(rng.Fixed{F: 0}, DefaultModeTiming, 0)
	require.NoError(t, err)

	var seen []State
	m.OnChange = func(s State) { seen = append(seen, s) }

	assert.False(t, m.Poll(clock.Tick(0).Add(DefaultModeTiming.FastRun-time.Millisecond)))
	assert.Equal(t, Relaxed, m.State())

	assert.True(t, m.Poll(clock.Tick(0).Add(DefaultModeTiming.FastRun)))
	assert.Equal(t, Frantic, m.State())
	assert.Equal(t, []State{Frantic}, seen)
}

func TestModeStaysRelaxedWhenCoinFails(t *testing.T) {
	m, err := NewMode(rng.Fixed{F: 1}, DefaultModeTiming, 0)
	require.NoError(t, err)

	now := clock.Tick(0)
	for i := 0; i < 1000; i++ {
		now = now.Add(DefaultModeTiming.FastRun)
		assert.False(t, m.Poll(now))
	}
	assert.Equal(t, Relaxed, m.State())
}

func TestModeFranticDropsBackAndRests(t *testing.T) {
	timing := DefaultModeTiming
	m, err := NewMode(rng.Fixed{F: 0}, timing, 0)
	require.NoError(t, err)

	t1 := clock.Tick(0).Add(timing.FastRun)
	require.True(t, m.Poll(t1))
	assert.Equal(t, t1.Add(timing.FastRun), m.NextCheck(), "frantic lasts FastRun")

	t2 := t1.Add(timing.FastRun)
	require.True(t, m.Poll(t2))
	assert.Equal(t, Relaxed, m.State())
	assert.Equal(t, t2.Add(timing.RelaxRun), m.NextCheck(), "relaxed rest lasts RelaxRun")

	assert.False(t, m.Poll(t2.Add(timing.RelaxRun-time.Millisecond)))
	assert.True(t, m.Poll(t2.Add(timing.RelaxRun)))
	assert.Equal(t, Frantic, m.State())
}

func TestModeCoinTossedOncePerInterval(t *testing.T) {
	src := &countingSource{Source: rng.Fixed{F: 1}}
	m, err := NewMode(src, DefaultModeTiming, 0)
	require.NoError(t, err)

	// poll every millisecond for four intervals
	end := clock.Tick(0).Add(4 * DefaultModeTiming.FastRun)
	for now := clock.Tick(0); clock.Diff(end, now) >= 0; now++ {
		m.Poll(now)
	}
	assert.Equal(t, 4, src.floats)
}

func TestModeMeanWaitIsRunOverChance(t *testing.T) {
	// the first frantic spell arrives after a geometric number of FastRun
	// intervals, so the mean wait is FastRun/chance, not FastRun
	timing := ModeTiming{RelaxRun: 5 * time.Second, FastRun: 2500 * time.Millisecond, FastChance: 0.2}
	src := rng.New(3)
	const runs = 4000
	var total time.Duration
	for i := 0; i < runs; i++ {
		m, err := NewMode(src, timing, 0)
		require.NoError(t, err)
		now := clock.Tick(0)
		for !m.Frantic() {
			now = m.NextCheck()
			m.Poll(now)
		}
		total += now.Since(0)
	}
	mean := total / runs
	want := time.Duration(float64(timing.FastRun) / timing.FastChance)
	assert.InDelta(t, float64(want), float64(mean), float64(want)*0.08, "mean wait %v, want about %v", mean, want)
}

func TestModeAcrossTickWrap(t *testing.T) {
	start := clock.Tick(^uint32(0) - 1000)
	m, err := NewMode(rng.Fixed{F: 0}, DefaultModeTiming, start)
	require.NoError(t, err)

	assert.False(t, m.Poll(start.Add(time.Second)))
	assert.True(t, m.Poll(start.Add(DefaultModeTiming.FastRun)))
}

func TestModeRejectsBadTiming(t *testing.T) {
	_, err := NewMode(rng.Fixed{}, ModeTiming{RelaxRun: time.Second, FastChance: 0.1}, 0)
	assert.Error(t, err)
	_, err = NewMode(rng.Fixed{}, ModeTiming{RelaxRun: time.Second, FastRun: time.Second, FastChance: 2}, 0)
	assert.Error(t, err)
}
