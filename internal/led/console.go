package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/blinken/internal/fb"
)

// Console prints the framebuffer to a terminal, one ANSI strip per row,
// redrawing in place. Brightness is accepted and ignored.
type Console struct {
	mu     sync.Mutex
	f      *fb.Framebuffer
	drawer display.Drawer
	w      io.Writer
	drawn  bool
	closed bool
}

// NewConsole draws through a screen strip as wide as f. w receives the
// line breaks and cursor moves between strips and should be the terminal
// the strip writes to.
func NewConsole(f *fb.Framebuffer, w io.Writer) *Console {
	return &Console{f: f, drawer: screen.New(f.Width()), w: w}
}

func (c *Console) SetPixel(x, y int, on bool) error {
	return c.f.SetPixel(x, y, on)
}

func (c *Console) Present() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("led: console closed")
	}
	if c.drawn {
		// back to the first row
		if _, err := fmt.Fprintf(c.w, "\033[%dA", c.f.Height()); err != nil {
			return err
		}
	}
	for y := 0; y < c.f.Height(); y++ {
		if err := c.drawer.Draw(c.drawer.Bounds(), rowView{c.f, y}, image.Point{}); err != nil {
			return fmt.Errorf("led: console row %d: %w", y, err)
		}
		if _, err := fmt.Fprint(c.w, "\n"); err != nil {
			return err
		}
	}
	c.drawn = true
	return nil
}

func (c *Console) SetBrightness(level uint8) error {
	return checkBrightness(level)
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.drawer.Halt()
}

// rowView exposes one framebuffer row as a one pixel high image.
type rowView struct {
	f *fb.Framebuffer
	y int
}

func (r rowView) ColorModel() color.Model { return r.f.ColorModel() }

func (r rowView) Bounds() image.Rectangle { return image.Rect(0, 0, r.f.Width(), 1) }

func (r rowView) At(x, _ int) color.Color { return r.f.At(x, r.y) }
