package led

import (
	"errors"
)

// Fanout forwards every call to each driver in order. Pixel writes go to
// every driver's buffer; a shared buffer is simply written more than once.
type Fanout []Driver

func (f Fanout) SetPixel(x, y int, on bool) error {
	for _, d := range f {
		if err := d.SetPixel(x, y, on); err != nil {
			return err
		}
	}
	return nil
}

// Present presents to every driver and joins their errors.
func (f Fanout) Present() error {
	var errs []error
	for _, d := range f {
		errs = append(errs, d.Present())
	}
	return errors.Join(errs...)
}

func (f Fanout) SetBrightness(level uint8) error {
	if err := checkBrightness(level); err != nil {
		return err
	}
	var errs []error
	for _, d := range f {
		errs = append(errs, d.SetBrightness(level))
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, d := range f {
		errs = append(errs, d.Close())
	}
	return errors.Join(errs...)
}
