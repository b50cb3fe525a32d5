package pulse

import (
	"fmt"
	"math"
	"math/cmplx"
)

// CoherentSum returns the power and phase of the superposition of two fields
// with the amplitudes and phases of a and b. Durations, start times and
// wavelengths are ignored; callers are responsible for checking that the
// pulses actually overlap on the same carrier.
//
// a is treated as pulse 1 and b as pulse 2, so Δφ = b.Phase − a.Phase.
// The result is symmetric in power; the phase is the same absolute phase
// regardless of argument order up to a multiple of 2π.
func CoherentSum(a, b Pulse) (power, phase float64) {
	a1 := math.Sqrt(a.Power)
	a2 := math.Sqrt(b.Power)
	sin, cos := math.Sincos((b.Phase - a.Phase) / 2)

	// Field sum expressed around the mean phase (φ1+φ2)/2.
	sum := complex((a1+a2)*cos, -(a1-a2)*sin)

	power = real(sum)*real(sum) + imag(sum)*imag(sum)
	phase = (a.Phase+b.Phase)/2 + cmplx.Phase(sum)

	return power, phase
}

// Combine superposes two pulses and returns the equivalent time-ordered,
// mutually non-overlapping segments:
//
//  1. pre:     [p.Start, p′.Start) at p's power and phase;
//  2. overlap: [p′.Start, min(p.End, p′.End)) at the coherent sum;
//  3. post:    [min(p.End, p′.End), max(p.End, p′.End)) at the power and phase
//     of whichever input extends furthest.
//
// Here p is the earlier pulse under Compare. Each segment is emitted only if its
// duration is strictly positive, so the result has 1..3 elements. Every segment
// carries the shared wavelength and a fresh identity from gen.
//
// If a and b do not intersect they are returned unchanged, ordered.
//
// Errors:
//   - ErrNilGenerator       if gen is nil and segments must be produced.
//   - ErrWavelengthMismatch if the pulses overlap on different wavelengths.
//
// Complexity: O(1).
func Combine(gen *IDGenerator, a, b Pulse) ([]Pulse, error) {
	// 1) Order inputs so that first is p and second is p′.
	first, second := Ordered(a, b)

	// 2) Disjoint pulses need no physics.
	if !Intersects(first, second) {
		return []Pulse{first, second}, nil
	}

	if gen == nil {
		return nil, ErrNilGenerator
	}
	if first.Wavelength != second.Wavelength {
		return nil, fmt.Errorf("%w: pulse %d at %g m, pulse %d at %g m",
			ErrWavelengthMismatch, first.ID, first.Wavelength, second.ID, second.Wavelength)
	}
	wavelength := first.Wavelength

	// 3) The input that ends last contributes the post segment;
	//    the other one is exhausted at the end of the overlap.
	last, exhausted := second, first
	if first.End() > second.End() {
		last, exhausted = first, second
	}

	preStart := first.Start
	sumStart := second.Start
	postStart := exhausted.End()

	preDuration := sumStart - preStart
	sumDuration := postStart - sumStart
	postDuration := last.End() - postStart

	// 4) Coherent sum over the overlap.
	sumPower, sumPhase := CoherentSum(first, second)

	// 5) Emit the non-empty segments in time order.
	out := make([]Pulse, 0, 3)
	if preDuration > 0 {
		out = append(out, Pulse{
			ID:         gen.Next(),
			Start:      preStart,
			Duration:   preDuration,
			Phase:      first.Phase,
			Wavelength: wavelength,
			Power:      first.Power,
		})
	}
	if sumDuration > 0 {
		out = append(out, Pulse{
			ID:         gen.Next(),
			Start:      sumStart,
			Duration:   sumDuration,
			Phase:      sumPhase,
			Wavelength: wavelength,
			Power:      sumPower,
		})
	}
	if postDuration > 0 {
		out = append(out, Pulse{
			ID:         gen.Next(),
			Start:      postStart,
			Duration:   postDuration,
			Phase:      last.Phase,
			Wavelength: wavelength,
			Power:      last.Power,
		})
	}

	return out, nil
}
