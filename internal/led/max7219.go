package led

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/coreman2200/blinken/internal/fb"
)

// MAX7219 register addresses.
const (
	regNoop        = 0x0
	regDigit0      = 0x1
	regDecodeMode  = 0x9
	regIntensity   = 0xA
	regScanLimit   = 0xB
	regShutdown    = 0xC
	regDisplayTest = 0xF
)

// CellSize is the edge of one MAX7219 matrix.
const CellSize = 8

// Opts configures the SPI link.
type Opts struct {
	Freq physic.Frequency
}

// DefaultOpts is safe for long daisy chains on jumper wires.
var DefaultOpts = Opts{Freq: physic.MegaHertz}

// MAX7219 drives a row of cascaded 8x8 matrices sharing one chip select.
// Every command is shifted through the whole chain in one transaction, so
// the first pair sent lands in the cell farthest from the controller.
type MAX7219 struct {
	mu    sync.Mutex
	c     spi.Conn
	p     spi.Port
	f     *fb.Framebuffer
	cells int
	tx    []byte
}

// New connects to p and initializes every cell: shutdown, display test
// off, scan all eight digits, no BCD decode, wake. f must be 8 pixels high
// and a whole number of cells wide.
func New(p spi.Port, f *fb.Framebuffer, opts *Opts) (*MAX7219, error) {
	if f.Height() != CellSize || f.Width()%CellSize != 0 {
		return nil, fmt.Errorf("led: %dx%d framebuffer is not a row of %dx%d cells", f.Width(), f.Height(), CellSize, CellSize)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	freq := opts.Freq
	if freq <= 0 {
		freq = DefaultOpts.Freq
	}
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("led: spi connect: %w", err)
	}
	d := &MAX7219{
		c:     c,
		p:     p,
		f:     f,
		cells: f.Width() / CellSize,
	}
	d.tx = make([]byte, 2*d.cells)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *MAX7219) String() string {
	return fmt.Sprintf("MAX7219{%s, cells:%d}", d.c, d.cells)
}

// Cells is the length of the chain.
func (d *MAX7219) Cells() int { return d.cells }

// Framebuffer is the buffer Present sends.
func (d *MAX7219) Framebuffer() *fb.Framebuffer { return d.f }

func (d *MAX7219) init() error {
	for _, cmd := range [][2]byte{
		{regShutdown, 0},
		{regDisplayTest, 0},
		{regScanLimit, 7},
		{regDecodeMode, 0},
		{regShutdown, 1},
	} {
		if err := d.broadcast(cmd[0], cmd[1]); err != nil {
			return fmt.Errorf("led: init: %w", err)
		}
	}
	return nil
}

// broadcast writes the same register to every cell.
func (d *MAX7219) broadcast(reg, data byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.c == nil {
		return errors.New("led: closed")
	}
	for m := 0; m < d.cells; m++ {
		d.tx[2*m], d.tx[2*m+1] = reg, data
	}
	return d.c.Tx(d.tx, nil)
}

func (d *MAX7219) SetPixel(x, y int, on bool) error {
	return d.f.SetPixel(x, y, on)
}

// Present sends the framebuffer one digit row at a time.
func (d *MAX7219) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.c == nil {
		return errors.New("led: closed")
	}
	for y := 0; y < CellSize; y++ {
		row, err := d.f.Row(y)
		if err != nil {
			return err
		}
		for m := 0; m < d.cells; m++ {
			d.tx[2*m], d.tx[2*m+1] = regDigit0+byte(y), row[m]
		}
		if err := d.c.Tx(d.tx, nil); err != nil {
			return fmt.Errorf("led: present row %d: %w", y, err)
		}
	}
	return nil
}

func (d *MAX7219) SetBrightness(level uint8) error {
	if err := checkBrightness(level); err != nil {
		return err
	}
	return d.broadcast(regIntensity, level)
}

// Halt blanks the display by putting every cell in shutdown. The
// framebuffer is kept; the next Present after a wake shows it again.
func (d *MAX7219) Halt() error {
	return d.broadcast(regShutdown, 0)
}

// Close halts the display and closes the port if it owns one.
func (d *MAX7219) Close() error {
	err := d.Halt()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.c = nil
	if pc, ok := d.p.(spi.PortCloser); ok {
		if cerr := pc.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
