package waveform

import (
	"github.com/katalvlaran/pulsetrace/pulse"
)

// Sampled renders src on the fixed grid t = 0, dt, 2dt, … < tmax, reducing
// src first. Each sample takes the power of the pulse with
// Start ≤ t < End, or 0 between pulses. Zero-duration pulses never match.
//
// The default tmax is the end of the last pulse; an empty source then
// yields an empty waveform. With WithTMax an empty source yields zeros.
//
// Errors: ErrBadStep, ErrTooManySamples, and anything src.Reduce returns.
//
// Complexity: O(n + samples) using a single forward sweep.
func Sampled(src PulseSource, dt float64, opts ...Option) (Waveform, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Make sure the pulses are non-overlapping.
	if err := src.Reduce(); err != nil {
		return Waveform{}, err
	}
	pulses := src.Pulses()

	tmax := cfg.TMax
	if tmax == 0 && len(pulses) > 0 {
		tmax = pulses[len(pulses)-1].End()
	}

	n, err := sampleCount(dt, tmax)
	if err != nil {
		return Waveform{}, err
	}

	// 3) Sweep the grid and the pulse list together.
	out := Waveform{Time: make([]float64, n), Power: make([]float64, n)}
	k := 0
	for i := range n {
		t := float64(i) * dt
		out.Time[i] = t
		for k < len(pulses) && pulses[k].End() <= t {
			k++
		}
		if k < len(pulses) && pulses[k].Start <= t {
			out.Power[i] = pulses[k].Power
		}
	}

	return out, nil
}

// Steps renders src as the exact step polyline, reducing src first.
//
// The polyline starts at (origin, 0), where origin is 0 or the earliest
// pulse start if that is negative. For every pulse with Duration ≥ pulse.Epsilon:
//  1. if the pulse starts more than pulse.Epsilon after the previous vertex,
//     emit (last, 0) and (start, 0) to draw the gap at zero power;
//  2. emit (start, P) and (end, P).
//
// Vertex times never decrease: a start that falls before the previous
// vertex (round-off in Start+Duration, or an overlap within pulse.Epsilon)
// is moved up to it.
//
// An empty source yields the single vertex (0, 0).
func Steps(src PulseSource) (Waveform, error) {
	if err := src.Reduce(); err != nil {
		return Waveform{}, err
	}
	pulses := src.Pulses()

	var origin float64
	for _, p := range pulses {
		if p.Duration >= pulse.Epsilon {
			origin = min(origin, p.Start)
			break
		}
	}

	out := Waveform{
		Time:  make([]float64, 1, 1+4*len(pulses)),
		Power: make([]float64, 1, 1+4*len(pulses)),
	}
	out.Time[0] = origin
	for _, p := range pulses {
		if p.Duration < pulse.Epsilon {
			continue
		}
		last := out.Time[len(out.Time)-1]
		if p.Start-last > pulse.Epsilon {
			out.Time = append(out.Time, last, p.Start)
			out.Power = append(out.Power, 0, 0)
		}
		start := max(p.Start, last)
		end := max(p.End(), start)
		out.Time = append(out.Time, start, end)
		out.Power = append(out.Power, p.Power, p.Power)
	}

	return out, nil
}
