// Package pulse defines the optical pulse record and the pairwise physics used
// to merge temporally overlapping pulses.
//
// 🚀 What is a pulse?
//
//	A pulse is a time-bounded, constant-amplitude, constant-phase monochromatic
//	signal segment emitted by the event simulator at a detector:
//	  • Power      (W, ≥ 0)
//	  • Duration   (s, ≥ 0)
//	  • Phase      (rad)
//	  • Start      (s)
//	  • Wavelength (m)
//	  • ID         (unique, never reused)
//
// ✨ Key pieces:
//   - Compare / Less: strict total order on (Start, ID).
//   - Intersects: overlap predicate with an Epsilon guard so that pulses which
//     merely touch at a boundary are not considered overlapping.
//   - CoherentSum: complex-amplitude superposition of two fields.
//   - Combine: splits two overlapping pulses into 1..3 non-overlapping segments
//     (pre, overlap, post).
//   - IDGenerator: explicit identity source; there is no package-level counter.
//
// ⚙️ Usage:
//
//	gen := pulse.NewIDGenerator()
//	a := pulse.New(gen, 1e-3, 1e-9, 0, 0, 1550e-9)
//	b := pulse.New(gen, 1e-3, 1e-9, 0, 0.5e-9, 1550e-9)
//	segs, err := pulse.Combine(gen, a, b)
//	// segs: [0,0.5ns)@1mW, [0.5ns,1ns)@4mW, [1ns,1.5ns)@1mW
//
// Physics:
//
//	With A1=√P1, A2=√P2 and Δφ=φ2−φ1 (pulse 1 is the earlier one):
//	  Asum = (A1+A2)·cos(Δφ/2) − i·(A1−A2)·sin(Δφ/2)
//	  Psum = |Asum|²
//	  φsum = (φ1+φ2)/2 + arg(Asum)
//
// Superposition across different wavelengths is undefined in this model and
// is rejected with ErrWavelengthMismatch.
package pulse
