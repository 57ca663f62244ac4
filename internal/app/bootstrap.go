// Package app assembles the framebuffer, regions, animators and engine
// from a Config.
package app

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/blinken/internal/anim"
	"github.com/coreman2200/blinken/internal/clock"
	"github.com/coreman2200/blinken/internal/config"
	diag "github.com/coreman2200/blinken/internal/diagnostics"
	"github.com/coreman2200/blinken/internal/fb"
	"github.com/coreman2200/blinken/internal/layout"
	"github.com/coreman2200/blinken/internal/led"
	"github.com/coreman2200/blinken/internal/life"
	"github.com/coreman2200/blinken/internal/render"
	"github.com/coreman2200/blinken/internal/rng"
)

type Core struct {
	FB   *fb.Framebuffer
	Reg  *layout.Registry
	Mode *anim.Mode
	Life *life.Engine
	Eng  *render.Engine
}

// Geometry is the cascade described by cfg.
func Geometry(cfg *config.Config) layout.Layout {
	return layout.Layout{Cells: cfg.Cells, CellSize: layout.Cascade.CellSize}
}

// NewFramebuffer allocates a zeroed buffer for the configured cascade.
func NewFramebuffer(cfg *config.Config) (*fb.Framebuffer, error) {
	g := Geometry(cfg)
	return fb.New(g.Width(), g.Height())
}

// OpenDisplay opens the configured driver and applies the brightness. When
// the SPI port cannot be opened it falls back to the console on w, like a
// development machine without hardware.
func OpenDisplay(cfg *config.Config, f *fb.Framebuffer, w io.Writer, sink diag.Sink) (led.Driver, string, error) {
	var (
		d    led.Driver
		name = cfg.Driver
	)
	switch cfg.Driver {
	case config.DriverSPI:
		freq := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		m, err := led.OpenSPI(cfg.SPI.Dev, freq, f)
		if err != nil {
			log.Warn().Err(err).Msg("failed to find a SPI port, printing at the console")
			sink.Push(diag.DriverFallback(err))
			d, name = led.NewConsole(f, w), config.DriverConsole
		} else {
			d = m
		}
	case config.DriverConsole:
		d = led.NewConsole(f, w)
	default:
		return nil, "", fmt.Errorf("app: unknown driver %q", cfg.Driver)
	}
	if err := d.SetBrightness(cfg.Brightness); err != nil {
		_ = d.Close()
		return nil, "", err
	}
	return d, name, nil
}

// InitCore builds the animators in display order and the engine that
// drives them. f must match the configured cascade.
func InitCore(cfg *config.Config, f *fb.Framebuffer, clk clock.Clock, rnd rng.Source, out render.Presenter, sink diag.Sink) (*Core, error) {
	if sink == nil {
		sink = diag.Discard
	}
	g := Geometry(cfg)
	if f.Width() != g.Width() || f.Height() != g.Height() {
		return nil, fmt.Errorf("app: framebuffer %dx%d, cascade is %dx%d", f.Width(), f.Height(), g.Width(), g.Height())
	}
	reg, err := layout.DefaultFor(g)
	if err != nil {
		return nil, err
	}
	now := clk.Now()

	mode, err := anim.NewMode(rnd, anim.ModeTiming{
		RelaxRun:   config.Ms(cfg.Mode.RelaxRunMs),
		FastRun:    config.Ms(cfg.Mode.FastRunMs),
		FastChance: cfg.Mode.FastChance,
	}, now)
	if err != nil {
		return nil, err
	}
	mode.OnChange = func(s anim.State) { sink.Push(diag.ModeChange(s.String())) }

	regions := map[string]layout.Region{}
	for _, r := range reg.Regions() {
		regions[r.Name] = r
	}
	seeds := map[string]layout.Seed{}
	for _, name := range []string{layout.Shifter, layout.ProgramA, layout.ProgramB} {
		if seeds[name], err = reg.Seed(name); err != nil {
			return nil, err
		}
	}
	region := func(name string) layout.Region { return regions[name] }
	seed := func(name string) layout.Seed { return seeds[name] }

	lifeRegion := region(layout.Life)
	lifeEng := life.New(lifeRegion.W, lifeRegion.H, rnd, config.Ms(cfg.Life.MaxAgeMs))
	lifeEng.OnReseed = func(why life.Reason) {
		sink.Push(diag.LifeReseed(why.String(), lifeEng.Reseeds()))
	}

	t := cfg.Timing
	builders := []func() (anim.Animator, error){
		func() (anim.Animator, error) {
			return anim.NewShifter(f, region(layout.Shifter), seed(layout.Shifter), 1, config.Ms(t.ShifterMs))
		},
		func() (anim.Animator, error) {
			return anim.NewShifter(f, region(layout.ProgramA), seed(layout.ProgramA), -1, config.Ms(t.ProgramAMs))
		},
		func() (anim.Animator, error) {
			return anim.NewClockCounter(f, region(layout.ACounter), config.Ms(t.ACounterMs))
		},
		func() (anim.Animator, error) {
			return anim.NewLife(f, lifeRegion, lifeEng, config.Ms(t.LifeMs))
		},
		func() (anim.Animator, error) {
			return anim.NewShifter(f, region(layout.ProgramB), seed(layout.ProgramB), 2, config.Ms(t.ProgramBMs))
		},
		func() (anim.Animator, error) {
			return anim.NewDecayCounter(f, region(layout.BCounter), rnd, config.Ms(t.BCounterMs))
		},
		func() (anim.Animator, error) {
			return anim.NewNoise(f, region(layout.Random), rnd, mode, anim.Delays{
				Slow: config.MsList(cfg.Noise.SlowMs),
				Fast: config.MsList(cfg.Noise.FastMs),
			})
		},
	}
	anims := make([]anim.Animator, 0, len(builders))
	for _, build := range builders {
		a, err := build()
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}

	eng, err := render.NewEngine(clk, mode, out, anims...)
	if err != nil {
		return nil, err
	}
	eng.Idle = config.Ms(cfg.IdleMs)

	log.Debug().Int("width", f.Width()).Int("regions", len(anims)).Msg("core assembled")
	return &Core{FB: f, Reg: reg, Mode: mode, Life: lifeEng, Eng: eng}, nil
}
