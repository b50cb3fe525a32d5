package waveform

import (
	"fmt"
	"math"
	"sort"
)

const maxFinite = math.MaxFloat64

// Waveform is a power trace: Power[i] watts at Time[i] seconds.
// Both slices always have the same length.
//
// Two shapes are produced by this package. Sampled waveforms hold one point
// per grid time. Step waveforms (from Steps) hold the vertices of the exact
// piecewise-constant polyline, with two vertices at every edge.
type Waveform struct {
	Time  []float64 `json:"time"`
	Power []float64 `json:"power"`
}

// Len returns the number of points.
func (w Waveform) Len() int { return len(w.Time) }

// Validate checks that the slices have equal length and Time never decreases.
func (w Waveform) Validate() error {
	if len(w.Time) != len(w.Power) {
		return fmt.Errorf("%w: %d time, %d power", ErrLengthMismatch, len(w.Time), len(w.Power))
	}
	for i := 1; i < len(w.Time); i++ {
		if w.Time[i] < w.Time[i-1] {
			return fmt.Errorf("%w: t[%d]=%g < t[%d]=%g", ErrNotMonotonic, i, w.Time[i], i-1, w.Time[i-1])
		}
	}

	return nil
}

// End returns the last time value, or 0 for an empty waveform.
func (w Waveform) End() float64 {
	if len(w.Time) == 0 {
		return 0
	}
	return w.Time[len(w.Time)-1]
}

// At evaluates a step waveform as a right-continuous function: at an edge
// it returns the level after the edge. Outside [Time[0], End()) it is 0.
//
// Complexity: O(log n).
func (w Waveform) At(t float64) float64 {
	n := len(w.Time)
	i := sort.Search(n, func(k int) bool { return w.Time[k] > t }) - 1
	if i < 0 || i >= n-1 {
		return 0
	}

	return w.Power[i]
}

// Energy integrates Power over Time with the trapezoid rule. For a step
// waveform this is exact, since vertical edges have zero width.
func (w Waveform) Energy() float64 {
	var e float64
	for i := 1; i < len(w.Time); i++ {
		e += (w.Time[i] - w.Time[i-1]) * (w.Power[i] + w.Power[i-1]) / 2
	}

	return e
}

// Resample evaluates a step waveform with At on the grid t = i·dt < tmax.
func (w Waveform) Resample(dt, tmax float64) (Waveform, error) {
	n, err := sampleCount(dt, tmax)
	if err != nil {
		return Waveform{}, err
	}

	out := Waveform{Time: make([]float64, n), Power: make([]float64, n)}
	for i := range n {
		t := float64(i) * dt
		out.Time[i] = t
		out.Power[i] = w.At(t)
	}

	return out, nil
}

// sampleCount returns the number of grid points i·dt strictly below tmax.
func sampleCount(dt, tmax float64) (int, error) {
	if !(dt > 0) || dt > maxFinite {
		return 0, fmt.Errorf("%w: dt=%g", ErrBadStep, dt)
	}
	if !(tmax >= 0) || tmax > maxFinite {
		return 0, fmt.Errorf("%w: tmax=%g", ErrBadTMax, tmax)
	}

	ratio := math.Ceil(tmax / dt)
	if ratio > MaxSamples {
		return 0, fmt.Errorf("%w: %.0f > %d", ErrTooManySamples, ratio, MaxSamples)
	}

	n := int(ratio)
	for n > 0 && float64(n-1)*dt >= tmax {
		n--
	}
	for float64(n)*dt < tmax {
		n++
	}

	return n, nil
}
