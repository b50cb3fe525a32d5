package waveform

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pulsetrace/dtw"
)

// Diff resamples two step waveforms on a common grid and returns b − a.
// A zero tmax uses the later of the two ends.
func Diff(a, b Waveform, dt, tmax float64) (Waveform, error) {
	ra, rb, err := resamplePair(a, b, dt, tmax)
	if err != nil {
		return Waveform{}, err
	}

	out := Waveform{Time: ra.Time, Power: make([]float64, ra.Len())}
	for i := range out.Power {
		out.Power[i] = rb.Power[i] - ra.Power[i]
	}

	return out, nil
}

// Compare reports how far two step waveforms are apart: point-wise maximum
// and RMS difference on the resampled grid, both exact energies, and the DTW
// distance between the resampled power series.
func Compare(a, b Waveform, opts CompareOptions) (Comparison, error) {
	if opts.Window < 0 {
		return Comparison{}, fmt.Errorf("%w: Window=%d", dtw.ErrBadInput, opts.Window)
	}

	ra, rb, err := resamplePair(a, b, opts.Step, opts.TMax)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Samples: ra.Len(),
		EnergyA: a.Energy(),
		EnergyB: b.Energy(),
	}
	if cmp.Samples == 0 {
		return cmp, nil
	}

	// 1) Point-wise statistics.
	var sumSq float64
	for i := range ra.Power {
		d := rb.Power[i] - ra.Power[i]
		cmp.MaxAbsDiff = math.Max(cmp.MaxAbsDiff, math.Abs(d))
		sumSq += d * d
	}
	cmp.RMSDiff = math.Sqrt(sumSq / float64(cmp.Samples))

	// 2) Time-warped distance.
	dopts := dtw.DefaultOptions()
	dopts.MemoryMode = dtw.TwoRows
	if opts.Window > 0 {
		dopts.Window = opts.Window
	}
	cmp.DTWDistance, _, err = dtw.DTW(ra.Power, rb.Power, &dopts)
	if err != nil {
		return Comparison{}, fmt.Errorf("waveform: dtw: %w", err)
	}

	return cmp, nil
}

// resamplePair validates both inputs and resamples them on one grid.
func resamplePair(a, b Waveform, dt, tmax float64) (Waveform, Waveform, error) {
	if err := a.Validate(); err != nil {
		return Waveform{}, Waveform{}, err
	}
	if err := b.Validate(); err != nil {
		return Waveform{}, Waveform{}, err
	}
	if tmax == 0 {
		tmax = math.Max(a.End(), b.End())
	}

	ra, err := a.Resample(dt, tmax)
	if err != nil {
		return Waveform{}, Waveform{}, err
	}
	rb, err := b.Resample(dt, tmax)
	if err != nil {
		return Waveform{}, Waveform{}, err
	}

	return ra, rb, nil
}
