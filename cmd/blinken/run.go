package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/blinken/internal/app"
	"github.com/coreman2200/blinken/internal/clock"
	diag "github.com/coreman2200/blinken/internal/diagnostics"
	"github.com/coreman2200/blinken/internal/led"
	"github.com/coreman2200/blinken/internal/rng"
	"github.com/coreman2200/blinken/internal/ws"
)

var runFlags struct {
	driver     string
	brightness uint8
	spiDev     string
	preview    string
	seed       uint64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the display until interrupted",
	RunE:  runDisplay,
}

func init() {
	addRunFlags(runCmd)
}

// addDisplayFlags registers the flags that pick and tune the display.
func addDisplayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&runFlags.driver, "driver", "", "display driver: spi | console")
	f.Uint8Var(&runFlags.brightness, "brightness", 0, "intensity 0..15")
	f.StringVar(&runFlags.spiDev, "spi", "", "SPI port name, e.g. /dev/spidev0.0")
}

func addRunFlags(cmd *cobra.Command) {
	addDisplayFlags(cmd)
	f := cmd.Flags()
	f.StringVar(&runFlags.preview, "preview", "", "serve the websocket preview on this address, e.g. :8080")
	f.Uint64Var(&runFlags.seed, "seed", 0, "random seed, 0 seeds from the clock")
}

// applyRunFlags copies explicitly set flags over the config. Flags the
// command does not define are never Changed.
func applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("driver") {
		cfg.Driver = runFlags.driver
	}
	if f.Changed("brightness") {
		cfg.Brightness = runFlags.brightness
	}
	if f.Changed("spi") {
		cfg.SPI.Dev = runFlags.spiDev
	}
	if f.Changed("preview") {
		cfg.Preview.Addr = runFlags.preview
	}
	if f.Changed("seed") {
		cfg.Seed = runFlags.seed
	}
	return cfg.Validate()
}

func runDisplay(cmd *cobra.Command, args []string) error {
	if err := applyRunFlags(cmd); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := app.NewFramebuffer(cfg)
	if err != nil {
		return err
	}

	var (
		hub  *ws.Hub
		sink = diag.Multi{diag.Log}
	)
	if cfg.Preview.Addr != "" {
		hub = ws.NewHub(f, cfg.Driver)
		sink = append(sink, hub)
	}

	drv, name, err := app.OpenDisplay(cfg, f, os.Stdout, sink)
	if err != nil {
		return err
	}
	out := drv
	if hub != nil {
		hub.Driver = name
		_ = hub.SetBrightness(cfg.Brightness)
		out = led.Fanout{drv, hub}
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warn().Err(err).Msg("close display")
		}
	}()

	core, err := app.InitCore(cfg, f, clock.NewSystem(), rng.New(cfg.Seed), out, sink)
	if err != nil {
		return err
	}
	log.Info().Str("driver", name).Int("cells", cfg.Cells).Uint8("brightness", cfg.Brightness).Msg("blinken running")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := core.Eng.Run(gctx)
		if err != nil {
			sink.Push(diag.Fault(err))
		}
		return err
	})
	if hub != nil {
		hub.SetStats(core.Eng.Stats)
		g.Go(func() error { return hub.Serve(gctx, cfg.Preview.Addr) })
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s := core.Eng.Stats()
	log.Info().Uint64("cycles", s.Cycles).Uint64("frames", s.Frames).Msg("blinken stopped")
	return err
}
