package waveform_test

import (
	"fmt"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/pulseset"
	"github.com/katalvlaran/pulsetrace/waveform"
)

// ExampleSteps prints the exact step polyline of two touching pulses
// followed by a gap and a third pulse.
func ExampleSteps() {
	set := pulseset.New([]pulse.Pulse{
		{ID: 1, Power: 1e-3, Duration: 1e-9, Start: 0, Wavelength: 1550e-9},
		{ID: 2, Power: 3e-3, Duration: 1e-9, Start: 1e-9, Wavelength: 1550e-9},
		{ID: 3, Power: 2e-3, Duration: 1e-9, Start: 4e-9, Wavelength: 1550e-9},
	})
	w, err := waveform.Steps(set)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for i := range w.Time {
		fmt.Printf("(%.0fns, %.0fmW) ", w.Time[i]*1e9, w.Power[i]*1e3)
	}
	fmt.Println()
	// Output:
	// (0ns, 0mW) (0ns, 1mW) (1ns, 1mW) (1ns, 3mW) (2ns, 3mW) (2ns, 0mW) (4ns, 0mW) (4ns, 2mW) (5ns, 2mW)
}

// ExampleSampled samples a single pulse every half nanosecond.
func ExampleSampled() {
	set := pulseset.New([]pulse.Pulse{
		{ID: 1, Power: 2e-3, Duration: 1e-9, Start: 0.75e-9, Wavelength: 1550e-9},
	})
	w, err := waveform.Sampled(set, 0.5e-9, waveform.WithTMax(2.5e-9))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(w.Power), w.Power)
	// Output: 5 [0 0 0.002 0.002 0]
}
