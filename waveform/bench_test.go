package waveform_test

import (
	"testing"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/pulseset"
	"github.com/katalvlaran/pulsetrace/waveform"
)

// disjointSet builds n back-to-back pulses with a small gap between them,
// so rendering cost is measured without reduction cost.
func disjointSet(n int) *pulseset.Set {
	ps := make([]pulse.Pulse, n)
	for i := range ps {
		ps[i] = pulse.Pulse{
			ID:         uint64(i + 1),
			Start:      float64(i) * 1.1 * ns,
			Duration:   1 * ns,
			Power:      float64(i%7+1) * mW,
			Wavelength: lambda0,
		}
	}
	set := pulseset.New(ps)
	_ = set.Reduce()

	return set
}

func BenchmarkSampled(b *testing.B) {
	set := disjointSet(10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := waveform.Sampled(set, 20e-12); err != nil {
			b.Fatalf("Sampled failed: %v", err)
		}
	}
}

func BenchmarkSteps(b *testing.B) {
	set := disjointSet(10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := waveform.Steps(set); err != nil {
			b.Fatalf("Steps failed: %v", err)
		}
	}
}
