// Command blinken animates a row of MAX7219 LED matrices like the front
// panel of an old mainframe.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/blinken/internal/config"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "blinken",
	Short: "Control-room blinkenlights on cascaded MAX7219 matrices",
	Long: `Animate a row of 8x8 MAX7219 LED matrices.

The surface is split into regions: shifting patterns, two counters, a
Game of Life board and a noise field that now and then goes frantic.
Without a subcommand blinken runs the display.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runDisplay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "blinken.yaml", "path to blinken.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(selftestCmd)
}

// setup loads the config and installs the console logger. A missing
// config file is not an error.
func setup(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	c, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Debug().Str("path", configPath).Msg("config loaded")
	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("blinken")
		os.Exit(1)
	}
}
