package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/blinken/internal/config"
	"github.com/coreman2200/blinken/internal/layout"
)

func TestRenderLayoutListsRegions(t *testing.T) {
	reg, err := layout.Default()
	require.NoError(t, err)
	out := renderLayout(reg, config.Default())

	assert.Contains(t, out, "96x8, 12 cells")
	for _, r := range reg.Regions() {
		assert.Contains(t, out, r.Name)
		assert.NotEmpty(t, behaviour(r.Name, config.Default()), r.Name)
	}
	assert.Contains(t, out, "shift -1 every 300ms")
	assert.GreaterOrEqual(t, len(strings.Split(out, "\n")), 3+len(reg.Regions()))
}

func TestApplyRunFlagsOnlyOverridesChanged(t *testing.T) {
	cfg = config.Default()
	cmd := &cobra.Command{Use: "x"}
	addRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--driver", "console", "--brightness", "12"}))

	require.NoError(t, applyRunFlags(cmd))
	assert.Equal(t, config.DriverConsole, cfg.Driver)
	assert.Equal(t, uint8(12), cfg.Brightness)
	assert.Equal(t, config.Default().SPI, cfg.SPI, "unset flags keep config values")
}

func TestApplyRunFlagsValidates(t *testing.T) {
	cfg = config.Default()
	cmd := &cobra.Command{Use: "x"}
	addDisplayFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--brightness", "99"}))
	assert.Error(t, applyRunFlags(cmd))
}
