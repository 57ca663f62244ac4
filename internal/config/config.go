// Package config loads and saves the blinken.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Driver names.
const (
	DriverSPI     = "spi"
	DriverConsole = "console"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 1000000
}

type Mode struct {
	RelaxRunMs int     `yaml:"relax_run_ms"`
	FastRunMs  int     `yaml:"fast_run_ms"`
	FastChance float64 `yaml:"fast_chance"`
}

type Noise struct {
	SlowMs []int `yaml:"slow_ms"`
	FastMs []int `yaml:"fast_ms"`
}

// Timing holds the period of each fixed-rate region.
type Timing struct {
	ShifterMs  int `yaml:"shifter_ms"`
	ProgramAMs int `yaml:"program_a_ms"`
	ACounterMs int `yaml:"a_counter_ms"`
	LifeMs     int `yaml:"life_ms"`
	ProgramBMs int `yaml:"program_b_ms"`
	BCounterMs int `yaml:"b_counter_ms"`
}

type Life struct {
	MaxAgeMs int `yaml:"max_age_ms"`
}

type Preview struct {
	Addr string `yaml:"addr,omitempty"` // e.g. :8080, empty disables
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "console"
	Cells      int    `yaml:"cells"`
	Brightness uint8  `yaml:"brightness"`
	IdleMs     int    `yaml:"idle_ms"`
	LogLevel   string `yaml:"log_level"`
	Seed       uint64 `yaml:"seed,omitempty"` // 0 seeds from the clock

	SPI     SPI     `yaml:"spi"`
	Mode    Mode    `yaml:"mode"`
	Noise   Noise   `yaml:"noise"`
	Timing  Timing  `yaml:"timing"`
	Life    Life    `yaml:"life"`
	Preview Preview `yaml:"preview,omitempty"`
}

// Default is the configuration of the twelve cell cascade.
func Default() *Config {
	return &Config{
		Driver:     DriverSPI,
		Cells:      12,
		Brightness: 1,
		IdleMs:     1,
		LogLevel:   "info",
		SPI:        SPI{SpeedHz: 1_000_000},
		Mode:       Mode{RelaxRunMs: 5000, FastRunMs: 2500, FastChance: 0.01},
		Noise: Noise{
			SlowMs: []int{500, 1000, 1500, 2000},
			FastMs: []int{10, 25, 50, 100},
		},
		Timing: Timing{
			ShifterMs:  100,
			ProgramAMs: 300,
			ACounterMs: 50,
			LifeMs:     250,
			ProgramBMs: 150,
			BCounterMs: 100,
		},
		Life: Life{MaxAgeMs: 60_000},
	}
}

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault is Load, falling back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first setting the program cannot run with.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSPI, DriverConsole:
	default:
		return fmt.Errorf("driver %q, want %q or %q", c.Driver, DriverSPI, DriverConsole)
	}
	if c.Cells < 1 {
		return fmt.Errorf("cells %d, want at least 1", c.Cells)
	}
	if c.Brightness > 15 {
		return fmt.Errorf("brightness %d, want 0..15", c.Brightness)
	}
	if c.IdleMs < 0 {
		return fmt.Errorf("idle_ms %d is negative", c.IdleMs)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.SPI.SpeedHz < 0 {
		return fmt.Errorf("spi.speed_hz %d is negative", c.SPI.SpeedHz)
	}
	if c.Mode.FastChance < 0 || c.Mode.FastChance > 1 {
		return fmt.Errorf("mode.fast_chance %v outside [0,1]", c.Mode.FastChance)
	}
	if len(c.Noise.SlowMs) == 0 || len(c.Noise.FastMs) == 0 {
		return errors.New("noise.slow_ms and noise.fast_ms must not be empty")
	}
	periods := map[string]int{
		"mode.relax_run_ms":   c.Mode.RelaxRunMs,
		"mode.fast_run_ms":    c.Mode.FastRunMs,
		"timing.shifter_ms":   c.Timing.ShifterMs,
		"timing.program_a_ms": c.Timing.ProgramAMs,
		"timing.a_counter_ms": c.Timing.ACounterMs,
		"timing.life_ms":      c.Timing.LifeMs,
		"timing.program_b_ms": c.Timing.ProgramBMs,
		"timing.b_counter_ms": c.Timing.BCounterMs,
		"life.max_age_ms":     c.Life.MaxAgeMs,
	}
	for k, v := range periods {
		if v < 1 {
			return fmt.Errorf("%s %d, want at least 1", k, v)
		}
	}
	for _, v := range append(append([]int(nil), c.Noise.SlowMs...), c.Noise.FastMs...) {
		if v < 1 {
			return fmt.Errorf("noise delay %d, want at least 1", v)
		}
	}
	return nil
}

// Ms converts a millisecond setting to a duration.
func Ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// MsList converts a list of millisecond settings.
func MsList(v []int) []time.Duration {
	out := make([]time.Duration, len(v))
	for i, ms := range v {
		out[i] = Ms(ms)
	}
	return out
}
