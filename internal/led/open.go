package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/blinken/internal/fb"
)

// OpenSPI initializes the host drivers and opens the named SPI port; an
// empty name picks the first one registered.
func OpenSPI(dev string, freq physic.Frequency, f *fb.Framebuffer) (*MAX7219, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led: host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("led: open spi %q: %w", dev, err)
	}
	d, err := New(p, f, &Opts{Freq: freq})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return d, nil
}
