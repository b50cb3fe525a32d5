package pulseset_test

import (
	"fmt"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/pulseset"
)

// ExampleSet_Reduce reduces two half-overlapping pulses and an isolated one
// into four non-overlapping segments.
func ExampleSet_Reduce() {
	set := pulseset.New([]pulse.Pulse{
		{ID: 1, Power: 1e-3, Duration: 1e-9, Start: 0, Wavelength: 1550e-9},
		{ID: 2, Power: 1e-3, Duration: 1e-9, Start: 0.5e-9, Wavelength: 1550e-9},
		{ID: 3, Power: 2e-3, Duration: 1e-9, Start: 3e-9, Wavelength: 1550e-9},
	})
	if err := set.Reduce(); err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, p := range set.Pulses() {
		fmt.Printf("[%.1fns, %.1fns) %.0fmW\n", p.Start*1e9, p.End()*1e9, p.Power*1e3)
	}
	// Output:
	// [0.0ns, 0.5ns) 1mW
	// [0.5ns, 1.0ns) 4mW
	// [1.0ns, 1.5ns) 1mW
	// [3.0ns, 4.0ns) 2mW
}

// ExampleSet_Energy shows that energy reduces first: two coincident in-phase
// pulses carry four times the energy of one.
func ExampleSet_Energy() {
	set := pulseset.New([]pulse.Pulse{
		{ID: 1, Power: 1e-3, Duration: 1e-9, Wavelength: 1550e-9},
		{ID: 2, Power: 1e-3, Duration: 1e-9, Wavelength: 1550e-9},
	})
	e, err := set.Energy()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.1f pJ\n", e*1e12)
	// Output: 4.0 pJ
}
