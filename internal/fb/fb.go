// Package fb implements the packed monochrome framebuffer shared by every
// animated region.
//
// Storage is row-major with ceil(width/8) bytes per row; within a byte the
// most significant bit is the leftmost pixel. This is the layout the
// MAX7219 cascade consumes one row at a time.
package fb

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// ErrOutOfBounds is returned for any pixel or window outside the surface.
var ErrOutOfBounds = errors.New("fb: out of bounds")

// Framebuffer is a 1 bit per pixel bitmap. It is not safe for concurrent
// mutation; the scheduler owns it.
type Framebuffer struct {
	w, h   int
	stride int
	buf    []byte

	// one row's window, reused by ShiftRegion
	window []bool
}

// New returns a cleared framebuffer of w×h pixels.
func New(w, h int) (*Framebuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("fb: invalid size %dx%d", w, h)
	}
	stride := (w + 7) / 8
	return &Framebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
		window: make([]bool, w),
	}, nil
}

func (f *Framebuffer) Width() int  { return f.w }
func (f *Framebuffer) Height() int { return f.h }

// Stride is the number of bytes per row.
func (f *Framebuffer) Stride() int { return f.stride }

func (f *Framebuffer) contains(x, y int) bool {
	return x >= 0 && x < f.w && y >= 0 && y < f.h
}

func (f *Framebuffer) bit(x, y int) bool {
	return f.buf[y*f.stride+x>>3]&(0x80>>uint(x&7)) != 0
}

func (f *Framebuffer) set(x, y int, on bool) {
	i := y*f.stride + x>>3
	mask := byte(0x80 >> uint(x&7))
	if on {
		f.buf[i] |= mask
	} else {
		f.buf[i] &^= mask
	}
}

// SetPixel sets or clears one pixel.
func (f *Framebuffer) SetPixel(x, y int, on bool) error {
	if !f.contains(x, y) {
		return fmt.Errorf("pixel (%d,%d) on %dx%d: %w", x, y, f.w, f.h, ErrOutOfBounds)
	}
	f.set(x, y, on)
	return nil
}

// Pixel reads one pixel.
func (f *Framebuffer) Pixel(x, y int) (bool, error) {
	if !f.contains(x, y) {
		return false, fmt.Errorf("pixel (%d,%d) on %dx%d: %w", x, y, f.w, f.h, ErrOutOfBounds)
	}
	return f.bit(x, y), nil
}

// ShiftRegion shifts, row by row, the w-wide window starting at column x
// for the h rows starting at y. Positive shift moves pixels toward higher x.
// With wrap, pixels leaving one edge of the window enter at the other edge
// of the same window; without it the vacated pixels are cleared. Pixels
// outside [x, x+w) are never touched.
func (f *Framebuffer) ShiftRegion(x, y, w, h, shift int, wrap bool) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > f.w || y+h > f.h {
		return fmt.Errorf("window (%d,%d %dx%d) on %dx%d: %w", x, y, w, h, f.w, f.h, ErrOutOfBounds)
	}
	if shift == 0 || w == 0 || h == 0 {
		return nil
	}

	if wrap {
		shift %= w
		if shift < 0 {
			shift += w
		}
		if shift == 0 {
			return nil
		}
	} else if shift >= w || shift <= -w {
		for row := y; row < y+h; row++ {
			for i := 0; i < w; i++ {
				f.set(x+i, row, false)
			}
		}
		return nil
	}

	win := f.window[:w]
	for row := y; row < y+h; row++ {
		for i := range win {
			win[i] = f.bit(x+i, row)
		}
		for i := 0; i < w; i++ {
			src := i - shift
			if wrap && src < 0 {
				src += w
			}
			f.set(x+i, row, src >= 0 && src < w && win[src])
		}
	}
	return nil
}

// Fill sets every pixel to on.
func (f *Framebuffer) Fill(on bool) {
	var v byte
	if on {
		v = 0xFF
	}
	for i := range f.buf {
		f.buf[i] = v
	}
	if on && f.w%8 != 0 {
		// keep padding bits past the right edge clear
		pad := byte(0xFF >> uint(f.w%8))
		for y := 0; y < f.h; y++ {
			f.buf[y*f.stride+f.stride-1] &^= pad
		}
	}
}

func (f *Framebuffer) Clear() { f.Fill(false) }

// Row returns a copy of the packed bytes of row y.
func (f *Framebuffer) Row(y int) ([]byte, error) {
	if y < 0 || y >= f.h {
		return nil, fmt.Errorf("row %d on %dx%d: %w", y, f.w, f.h, ErrOutOfBounds)
	}
	out := make([]byte, f.stride)
	copy(out, f.buf[y*f.stride:(y+1)*f.stride])
	return out, nil
}

// Lit counts the pixels that are on.
func (f *Framebuffer) Lit() int {
	n := 0
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			if f.bit(x, y) {
				n++
			}
		}
	}
	return n
}

// ColorModel, Bounds and At let periph display drawers render the buffer.

func (f *Framebuffer) ColorModel() color.Model { return image1bit.BitModel }

func (f *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

func (f *Framebuffer) At(x, y int) color.Color {
	if !f.contains(x, y) {
		return image1bit.Off
	}
	return image1bit.Bit(f.bit(x, y))
}
