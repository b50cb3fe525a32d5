package waveform

import (
	"errors"

	"github.com/katalvlaran/pulsetrace/pulse"
)

// Sentinel errors for waveform rendering and comparison.
var (
	// ErrBadStep indicates a sampling step that is not a positive finite number.
	ErrBadStep = errors.New("waveform: sample step must be positive and finite")

	// ErrBadTMax indicates a negative or non-finite sampling horizon.
	ErrBadTMax = errors.New("waveform: tmax must be non-negative and finite")

	// ErrTooManySamples indicates that tmax/dt exceeds MaxSamples.
	ErrTooManySamples = errors.New("waveform: too many samples")

	// ErrLengthMismatch indicates Time and Power of different lengths.
	ErrLengthMismatch = errors.New("waveform: time and power lengths differ")

	// ErrNotMonotonic indicates a Time axis that decreases somewhere.
	ErrNotMonotonic = errors.New("waveform: time axis is not non-decreasing")
)

// MaxSamples bounds the length of any sampled waveform.
const MaxSamples = 1 << 26

// PulseSource is what the renderers need from a pulse set: a way to reach
// the non-overlapping form and to read it. *pulseset.Set satisfies it.
type PulseSource interface {
	Reduce() error
	Pulses() []pulse.Pulse
}

// Options configures Sampled.
//
// TMax – sampling horizon (s); 0 means "end of the last pulse".
type Options struct {
	TMax float64
}

// Option represents a functional option for configuring Sampled.
type Option func(*Options)

// DefaultOptions returns options that sample up to the end of the last pulse.
func DefaultOptions() Options {
	return Options{TMax: 0}
}

// WithTMax sets an explicit sampling horizon. Samples are taken at
// t = 0, dt, 2dt, … strictly below tmax.
// Panics if tmax is negative or not finite.
func WithTMax(tmax float64) Option {
	return func(o *Options) {
		if !(tmax >= 0) || tmax > maxFinite {
			panic(ErrBadTMax.Error())
		}
		o.TMax = tmax
	}
}

// CompareOptions configures Compare and Diff.
//
// Step   – resampling step (s), required.
// TMax   – common horizon (s); 0 means the later of the two waveform ends.
// Window – Sakoe–Chiba band for the DTW distance, in samples; 0 disables it.
type CompareOptions struct {
	Step   float64
	TMax   float64
	Window int
}

// Comparison summarizes the difference between two waveforms.
type Comparison struct {
	Samples     int     `json:"samples"`
	MaxAbsDiff  float64 `json:"max_abs_diff"` // W
	RMSDiff     float64 `json:"rms_diff"`     // W
	EnergyA     float64 `json:"energy_a"`     // J, exact step integral
	EnergyB     float64 `json:"energy_b"`     // J, exact step integral
	DTWDistance float64 `json:"dtw_distance"` // W·samples
}
