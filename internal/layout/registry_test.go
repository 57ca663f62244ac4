package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTilesCascade(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	covered := make([]int, Cascade.Width())
	for _, r := range reg.Regions() {
		assert.Equal(t, Cascade.Height(), r.H, "%s", r)
		for x := r.X; x < r.X+r.W; x++ {
			covered[x]++
		}
	}
	for x, n := range covered {
		assert.Equal(t, 1, n, "column %d covered %d times", x, n)
	}

	names := []string{}
	for _, r := range reg.Regions() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{Shifter, ProgramA, ACounter, Life, ProgramB, BCounter, Random}, names)
}

func TestUnknownRegion(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Region("nope")
	assert.True(t, errors.Is(err, ErrUnknownRegion), "got %v", err)

	_, err = reg.Seed(Life)
	assert.True(t, errors.Is(err, ErrUnknownSeed), "got %v", err)

	err = reg.AddSeed("nope", Seed{1})
	assert.True(t, errors.Is(err, ErrUnknownRegion), "got %v", err)
}

func TestNewRegistryRejectsBadRegions(t *testing.T) {
	cases := map[string][]Region{
		"exceeds width":  {{Name: "a", X: 90, W: 8, H: 8}},
		"exceeds height": {{Name: "a", Y: 1, W: 8, H: 8}},
		"negative":       {{Name: "a", X: -1, W: 8, H: 8}},
		"no area":        {{Name: "a", W: 0, H: 8}},
		"unnamed":        {{W: 8, H: 8}},
		"duplicate":      {{Name: "a", W: 8, H: 8}, {Name: "a", X: 8, W: 8, H: 8}},
	}
	for name, regions := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(96, 8, regions...)
			assert.Error(t, err)
		})
	}
}

func TestSeedValidation(t *testing.T) {
	reg, err := NewRegistry(16, 2, Region{Name: "a", W: 4, H: 2})
	require.NoError(t, err)

	assert.Error(t, reg.AddSeed("a", Seed{0x1}), "row count mismatch")
	assert.Error(t, reg.AddSeed("a", Seed{0x1, 0x10}), "value wider than region")
	require.NoError(t, reg.AddSeed("a", Seed{0x8, 0x1}))

	s, err := reg.Seed("a")
	require.NoError(t, err)
	assert.True(t, s.On(0, 0, 4))
	assert.False(t, s.On(3, 0, 4))
	assert.True(t, s.On(3, 1, 4))

	s[0] = 0xF
	again, err := reg.Seed("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8), again[0], "Seed must return a copy")
}

func TestCellOf(t *testing.T) {
	cell, col := Cascade.CellOf(29)
	assert.Equal(t, 3, cell)
	assert.Equal(t, 5, col)
	assert.Equal(t, 768, Cascade.Count())
}

func TestDefaultForOtherCascades(t *testing.T) {
	reg, err := DefaultFor(Layout{Cells: 14, CellSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 112, reg.Width())

	_, err = DefaultFor(Layout{Cells: 10, CellSize: 8})
	assert.Error(t, err)
}
