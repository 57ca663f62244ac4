package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coreman2200/blinken/internal/app"
	"github.com/coreman2200/blinken/internal/config"
	"github.com/coreman2200/blinken/internal/layout"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the region map of the configured cascade",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := layout.DefaultFor(app.Geometry(cfg))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderLayout(reg, cfg))
		return nil
	},
}

var regionColors = []lipgloss.Color{"69", "170", "214", "42", "205", "81", "244"}

// behaviour describes what each default region does and how often.
func behaviour(name string, c *config.Config) string {
	t := c.Timing
	switch name {
	case layout.Shifter:
		return fmt.Sprintf("shift +1 every %dms", t.ShifterMs)
	case layout.ProgramA:
		return fmt.Sprintf("shift -1 every %dms", t.ProgramAMs)
	case layout.ACounter:
		return fmt.Sprintf("clock counter every %dms", t.ACounterMs)
	case layout.Life:
		return fmt.Sprintf("game of life every %dms, reseed after %dms", t.LifeMs, c.Life.MaxAgeMs)
	case layout.ProgramB:
		return fmt.Sprintf("shift +2 every %dms", t.ProgramBMs)
	case layout.BCounter:
		return fmt.Sprintf("decaying counter every %dms", t.BCounterMs)
	case layout.Random:
		return fmt.Sprintf("noise, %v slow / %v fast", c.Noise.SlowMs, c.Noise.FastMs)
	}
	return ""
}

// renderLayout draws a one-line column map followed by the region table.
func renderLayout(reg *layout.Registry, c *config.Config) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	regions := reg.Regions()
	cols := make([]string, reg.Width())
	for i := range cols {
		cols[i] = muted.Render("·")
	}
	var rows []string
	rows = append(rows, header.Render(fmt.Sprintf("%-10s %4s %5s %6s  %s", "REGION", "X", "WIDTH", "HEIGHT", "BEHAVIOUR")))
	for i, r := range regions {
		style := lipgloss.NewStyle().Foreground(regionColors[i%len(regionColors)])
		mark := style.Render(string(r.Name[0]))
		for x := r.X; x < r.X+r.W; x++ {
			cols[x] = mark
		}
		rows = append(rows, style.Render(fmt.Sprintf("%-10s", r.Name))+
			fmt.Sprintf(" %4d %5d %6d  ", r.X, r.W, r.H)+
			muted.Render(behaviour(r.Name, c)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title.Render(fmt.Sprintf("blinken %dx%d, %d cells", reg.Width(), reg.Height(), c.Cells)),
		strings.Join(cols, ""),
		"",
		strings.Join(rows, "\n"),
	)
}
