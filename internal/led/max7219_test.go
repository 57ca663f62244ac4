package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/blinken/internal/fb"
)

// chain repeats one register write for every cell.
func chain(cells int, reg, data byte) []byte {
	out := make([]byte, 0, 2*cells)
	for i := 0; i < cells; i++ {
		out = append(out, reg, data)
	}
	return out
}

func newTestDriver(t *testing.T, cells int) (*MAX7219, *bytes.Buffer) {
	t.Helper()
	f, err := fb.New(cells*CellSize, CellSize)
	require.NoError(t, err)
	var buf bytes.Buffer
	d, err := New(spitest.NewRecordRaw(&buf), f, nil)
	require.NoError(t, err)
	return d, &buf
}

func TestNewSendsInitSequence(t *testing.T) {
	_, buf := newTestDriver(t, 3)

	var want []byte
	want = append(want, chain(3, regShutdown, 0)...)
	want = append(want, chain(3, regDisplayTest, 0)...)
	want = append(want, chain(3, regScanLimit, 7)...)
	want = append(want, chain(3, regDecodeMode, 0)...)
	want = append(want, chain(3, regShutdown, 1)...)
	assert.Equal(t, want, buf.Bytes())
}

func TestNewRejectsOddGeometry(t *testing.T) {
	for _, sz := range [][2]int{{12, 8}, {16, 7}, {8, 16}} {
		f, err := fb.New(sz[0], sz[1])
		require.NoError(t, err)
		_, err = New(spitest.NewRecordRaw(&bytes.Buffer{}), f, nil)
		assert.Error(t, err, "%dx%d", sz[0], sz[1])
	}
}

func TestPresentSendsRowsPerCell(t *testing.T) {
	d, buf := newTestDriver(t, 2)
	buf.Reset()

	// column 0 is the MSB of cell 0; column 15 the LSB of cell 1
	require.NoError(t, d.SetPixel(0, 0, true))
	require.NoError(t, d.SetPixel(15, 0, true))
	require.NoError(t, d.SetPixel(9, 7, true))
	require.NoError(t, d.Present())

	want := []byte{
		regDigit0 + 0, 0x80, regDigit0 + 0, 0x01,
	}
	for y := 1; y < 7; y++ {
		want = append(want, regDigit0+byte(y), 0, regDigit0+byte(y), 0)
	}
	want = append(want, regDigit0+7, 0, regDigit0+7, 0x40)
	assert.Equal(t, want, buf.Bytes())
}

func TestSetBrightness(t *testing.T) {
	d, buf := newTestDriver(t, 4)
	buf.Reset()

	require.NoError(t, d.SetBrightness(MaxBrightness))
	assert.Equal(t, chain(4, regIntensity, 15), buf.Bytes())

	buf.Reset()
	require.NoError(t, d.SetBrightness(0))
	assert.Equal(t, chain(4, regIntensity, 0), buf.Bytes())

	buf.Reset()
	err := d.SetBrightness(16)
	assert.ErrorIs(t, err, ErrBrightness)
	assert.Zero(t, buf.Len(), "rejected level must not reach the wire")
}

func TestCloseHaltsAndStops(t *testing.T) {
	d, buf := newTestDriver(t, 2)
	buf.Reset()

	require.NoError(t, d.Close())
	assert.Equal(t, chain(2, regShutdown, 0), buf.Bytes())
	assert.Error(t, d.Present())
}
