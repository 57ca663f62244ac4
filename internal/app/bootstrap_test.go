package app

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/config"
	diag "github.com/coreman2200/blinken/internal/diagnostics"
	"github.com/coreman2200/blinken/internal/fb"
	"github.com/coreman2200/blinken/internal/layout"
	"github.com/coreman2200/blinken/internal/led"
	"github.com/coreman2200/blinken/internal/rng"
)

type sinkRecorder struct {
	mu    sync.Mutex
	codes []string
}

func (s *sinkRecorder) Push(d diag.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, d.Code)
}

type countPresenter struct{ n int }

func (p *countPresenter) Present() error { p.n++; return nil }

func newCore(t *testing.T, cfg *config.Config, clk clock.Clock) (*Core, *countPresenter, *sinkRecorder) {
	t.Helper()
	f, err := NewFramebuffer(cfg)
	require.NoError(t, err)
	out := &countPresenter{}
	sink := &sinkRecorder{}
	core, err := InitCore(cfg, f, clk, rng.New(5), out, sink)
	require.NoError(t, err)
	return core, out, sink
}

func TestInitCoreOrderAndFirstFrame(t *testing.T) {
	clk := clock.NewManual(0)
	core, out, sink := newCore(t, config.Default(), clk)

	var names []string
	for _, a := range core.Eng.Anims {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{
		layout.Shifter, layout.ProgramA, layout.ACounter, layout.Life,
		layout.ProgramB, layout.BCounter, layout.Random,
	}, names)

	drew, err := core.Eng.RunOnce()
	require.NoError(t, err)
	assert.True(t, drew)
	assert.Equal(t, 1, out.n)
	assert.Equal(t, []string{"LIFE.RESEED"}, sink.codes, "initial life seed")

	// first shifter row 0xF00F: four lit, eight dark, four lit
	for x, want := range []bool{true, true, true, true, false, false, false, false} {
		on, err := core.FB.Pixel(x, 0)
		require.NoError(t, err)
		assert.Equal(t, want, on, "column %d", x)
	}
	assert.True(t, core.Life.Seeded())
}

func TestInitCoreReportsModeChanges(t *testing.T) {
	cfg := config.Default()
	cfg.Mode.FastChance = 1
	clk := clock.NewManual(0)
	core, _, sink := newCore(t, cfg, clk)

	_, err := core.Eng.RunOnce()
	require.NoError(t, err)
	clk.Advance(config.Ms(cfg.Mode.FastRunMs))
	_, err = core.Eng.RunOnce()
	require.NoError(t, err)
	assert.True(t, core.Mode.Frantic())
	assert.Contains(t, sink.codes, "MODE.CHANGE")
}

func TestInitCoreRejectsMismatchedBuffer(t *testing.T) {
	f, err := fb.New(64, 8)
	require.NoError(t, err)
	_, err = InitCore(config.Default(), f, clock.NewManual(0), rng.New(1), &countPresenter{}, nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Cells = 8
	f, err = NewFramebuffer(cfg)
	require.NoError(t, err)
	_, err = InitCore(cfg, f, clock.NewManual(0), rng.New(1), &countPresenter{}, nil)
	assert.Error(t, err, "eight cells cannot hold the regions")
}

func TestOpenDisplayConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = config.DriverConsole
	f, err := NewFramebuffer(cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	d, name, err := OpenDisplay(cfg, f, &out, diag.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.DriverConsole, name)
	assert.IsType(t, &led.Console{}, d)

	cfg.Brightness = 40
	_, _, err = OpenDisplay(cfg, f, &out, diag.Discard)
	assert.ErrorIs(t, err, led.ErrBrightness)
}
