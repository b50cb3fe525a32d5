package pulse_test

import (
	"testing"

	"github.com/katalvlaran/pulsetrace/pulse"
)

// BenchmarkCombine measures a partial-overlap split, the common case during reduction.
func BenchmarkCombine(b *testing.B) {
	gen := pulse.NewIDGenerator()
	p := pulse.New(gen, 1e-3, 1e-9, 0.1, 0, 1550e-9)
	q := pulse.New(gen, 2e-3, 1e-9, 1.7, 0.4e-9, 1550e-9)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pulse.Combine(gen, p, q); err != nil {
			b.Fatalf("Combine failed: %v", err)
		}
	}
}

// BenchmarkCoherentSum isolates the complex-amplitude arithmetic.
func BenchmarkCoherentSum(b *testing.B) {
	p := pulse.Pulse{Power: 1e-3, Phase: 0.1}
	q := pulse.Pulse{Power: 2e-3, Phase: 1.7}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = pulse.CoherentSum(p, q)
	}
}
