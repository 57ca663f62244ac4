// Package led holds the display sinks: the cascaded MAX7219 driver over
// SPI and a console fallback for machines without a SPI port.
package led

import (
	"errors"
	"fmt"
)

// MaxBrightness is the highest intensity level the hardware accepts.
const MaxBrightness = 15

// ErrBrightness is returned for intensity levels above MaxBrightness.
var ErrBrightness = errors.New("led: brightness out of range")

// Driver abstracts a display sink backed by a framebuffer. Pixels are
// written to the buffer and only reach the display on Present.
type Driver interface {
	SetPixel(x, y int, on bool) error
	Present() error
	// SetBrightness sets intensity 0..MaxBrightness.
	SetBrightness(level uint8) error
	// Close releases resources.
	Close() error
}

func checkBrightness(level uint8) error {
	if level > MaxBrightness {
		return fmt.Errorf("%w: %d, want 0..%d", ErrBrightness, level, MaxBrightness)
	}
	return nil
}
