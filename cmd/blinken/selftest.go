package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/blinken/internal/app"
	diag "github.com/coreman2200/blinken/internal/diagnostics"
	"github.com/coreman2200/blinken/internal/selftest"
)

var selftestFlags struct {
	plan string
	step time.Duration
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Light cells and rows one at a time to check the wiring",
	Long: `Step through a test plan on the configured display.

Plans:
  cells  light each 8x8 cell in turn, left to right
  rows   light each row across the whole cascade
  all    light every LED once`,
	RunE: runSelftest,
}

func init() {
	f := selftestCmd.Flags()
	f.StringVar(&selftestFlags.plan, "plan", string(selftest.CellSweep), "test plan: cells | rows | all")
	f.DurationVar(&selftestFlags.step, "step", 500*time.Millisecond, "how long each frame is shown")
	addDisplayFlags(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) error {
	kind, err := selftest.ParseKind(selftestFlags.plan)
	if err != nil {
		diag.Log.Push(diag.SelfTestUnknown(selftestFlags.plan))
		return err
	}
	if err := applyRunFlags(cmd); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := app.NewFramebuffer(cfg)
	if err != nil {
		return err
	}
	drv, _, err := app.OpenDisplay(cfg, f, os.Stdout, diag.Log)
	if err != nil {
		return err
	}
	defer drv.Close()

	diag.Log.Push(diag.SelfTestRunning(string(kind)))
	r := selftest.NewRunner(selftest.Plan{Kind: kind})
	n, err := selftest.Run(ctx, r, f, drv, selftestFlags.step)
	if err != nil && ctx.Err() == nil {
		return err
	}
	f.Clear()
	if perr := drv.Present(); perr != nil {
		log.Warn().Err(perr).Msg("clear display")
	}
	diag.Log.Push(diag.SelfTestDone(string(kind), n))
	return nil
}
