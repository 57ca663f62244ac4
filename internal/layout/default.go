package layout

// Region names used by the default program.
const (
	Shifter  = "shifter"
	ProgramA = "program_a"
	ACounter = "a_counter"
	Life     = "life"
	ProgramB = "program_b"
	BCounter = "b_counter"
	Random   = "random"
)

// DefaultRegions tile the 96×8 cascade from left to right.
var DefaultRegions = []Region{
	{Name: Shifter, X: 0, Y: 0, W: 16, H: 8},
	{Name: ProgramA, X: 16, Y: 0, W: 8, H: 8},
	{Name: ACounter, X: 24, Y: 0, W: 4, H: 8},
	{Name: Life, X: 28, Y: 0, W: 32, H: 8},
	{Name: ProgramB, X: 60, Y: 0, W: 12, H: 8},
	{Name: BCounter, X: 72, Y: 0, W: 4, H: 8},
	{Name: Random, X: 76, Y: 0, W: 20, H: 8},
}

var defaultSeeds = map[string]Seed{
	// chevrons
	Shifter:  {0xF00F, 0x781E, 0x3C3C, 0x1E78, 0x0FF0, 0x1E78, 0x3C3C, 0x781E},
	ProgramA: {0x81, 0x42, 0x24, 0x18, 0x18, 0x24, 0x42, 0x81},
	ProgramB: {0xF0F, 0x0F0, 0xCCC, 0x333, 0xAAA, 0x555, 0x924, 0x249},
}

// Default returns the registry for the 96×8 cascade with its seeds.
func Default() (*Registry, error) { return DefaultFor(Cascade) }

// DefaultFor places the default regions on l. Cells past the twelfth stay
// dark; a shorter cascade cannot hold the regions and fails.
func DefaultFor(l Layout) (*Registry, error) {
	reg, err := NewRegistry(l.Width(), l.Height(), DefaultRegions...)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{Shifter, ProgramA, ProgramB} {
		if err := reg.AddSeed(name, defaultSeeds[name]); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
