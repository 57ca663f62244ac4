package life

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/rng"
)

func boardWith(w, h int, cells ...[2]int) Board {
	b := NewBoard(w, h)
	for _, c := range cells {
		b.Set(c[0], c[1], 1)
	}
	return b
}

func newTestEngine(t *testing.T) (*Engine, *[]Reason) {
	t.Helper()
	e := New(32, 8, rng.New(11), DefaultMaxAge)
	var reasons []Reason
	e.OnReseed = func(r Reason) { reasons = append(reasons, r) }
	return e, &reasons
}

func TestFirstStepSeeds(t *testing.T) {
	e, reasons := newTestEngine(t)
	assert.False(t, e.Seeded())

	why, reseeded := e.Step(500)
	assert.True(t, reseeded)
	assert.Equal(t, Initial, why)
	assert.True(t, e.Seeded())
	assert.Equal(t, clock.Tick(500), e.Born())
	assert.Equal(t, []Reason{Initial}, *reasons)

	_, ok1, _, ok2 := e.History()
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestEmptyBoardReseeds(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(NewBoard(32, 8), 0))

	_, reseeded := e.Step(100)
	assert.True(t, reseeded, "an empty board must never be committed")
	assert.Positive(t, e.Board().Live())
}

func TestDyingBoardIsExtinct(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(boardWith(32, 8, [2]int{4, 4}), 0))

	why, reseeded := e.Step(100)
	assert.True(t, reseeded)
	assert.Equal(t, Extinct, why)
}

func TestBlockIsStill(t *testing.T) {
	e, reasons := newTestEngine(t)
	block := boardWith(32, 8, [2]int{5, 3}, [2]int{6, 3}, [2]int{5, 4}, [2]int{6, 4})
	require.NoError(t, e.Load(block, 0))

	assert.Equal(t, block, Next(block), "a block is a still life")

	why, reseeded := e.Step(100)
	assert.True(t, reseeded)
	assert.Equal(t, Still, why)
	assert.Equal(t, []Reason{Still}, *reasons)
	assert.Equal(t, clock.Tick(100), e.Born())
}

func TestBlinkerIsOscillating(t *testing.T) {
	e, _ := newTestEngine(t)
	horizontal := boardWith(32, 8, [2]int{10, 3}, [2]int{11, 3}, [2]int{12, 3})
	vertical := boardWith(32, 8, [2]int{11, 2}, [2]int{11, 3}, [2]int{11, 4})
	require.NoError(t, e.Load(horizontal, 0))

	_, reseeded := e.Step(100)
	require.False(t, reseeded)
	if diff := cmp.Diff(vertical, e.Board()); diff != "" {
		t.Fatalf("blinker phase 2 mismatch (-want +got):\n%s", diff)
	}
	one, ok, _, ok2 := e.History()
	require.True(t, ok)
	assert.False(t, ok2)
	assert.Equal(t, horizontal, one)

	why, reseeded := e.Step(200)
	assert.True(t, reseeded)
	assert.Equal(t, Oscillating, why)
}

func TestGliderWrapsOnTorus(t *testing.T) {
	// a glider needs 4 generations per diagonal cell; after 4*8 it is back
	// where it started on an 8-high torus shifted 8 columns right
	glider := boardWith(32, 8, [2]int{1, 0}, [2]int{2, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2})
	b := glider
	for i := 0; i < 32; i++ {
		b = Next(b)
	}
	want := NewBoard(32, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 32; x++ {
			want.Set((x+8)%32, y, glider.At(x, y))
		}
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Fatalf("glider after 32 generations (-want +got):\n%s", diff)
	}
}

func TestOldBoardReseeds(t *testing.T) {
	e, _ := newTestEngine(t)
	glider := boardWith(32, 8, [2]int{1, 0}, [2]int{2, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2})
	require.NoError(t, e.Load(glider, 0))

	_, reseeded := e.Step(clock.Tick(0).Add(DefaultMaxAge))
	assert.False(t, reseeded, "exactly max age is not yet too old")

	why, reseeded := e.Step(clock.Tick(0).Add(DefaultMaxAge + time.Millisecond))
	assert.True(t, reseeded)
	assert.Equal(t, Aged, why)
}

func TestHistoryShiftsAndIsolated(t *testing.T) {
	e, _ := newTestEngine(t)
	glider := boardWith(32, 8, [2]int{1, 0}, [2]int{2, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2})
	require.NoError(t, e.Load(glider, 0))

	g1 := Next(glider)
	g2 := Next(g1)
	for i, now := range []clock.Tick{10, 20} {
		_, reseeded := e.Step(now)
		require.False(t, reseeded, "step %d", i)
	}
	assert.Equal(t, 2, e.Generation())
	assert.Equal(t, g2, e.Board())

	one, ok1, two, ok2 := e.History()
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, g1, one)
	assert.Equal(t, glider, two)

	// mutating the returned copies must not reach the engine
	one.Cells[0] ^= 1
	cur := e.Board()
	cur.Cells[0] ^= 1
	again, _, _, _ := e.History()
	assert.Equal(t, g1, again)
	assert.Equal(t, g2, e.Board())
}

func TestLoadRejectsWrongSize(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Error(t, e.Load(NewBoard(8, 8), 0))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "oscillating", Oscillating.String())
	assert.Equal(t, "Reason(42)", Reason(42).String())
}
