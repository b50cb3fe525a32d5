package pulseset

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/pulsetrace/pulse"
)

// Sentinel errors returned by pulse set operations.
var (
	// ErrReductionInvariantViolation indicates that the reduced output still
	// contains overlapping pulses. This is a defect in the overlap predicate or
	// the combiner, never a user error, and the set is left untouched.
	ErrReductionInvariantViolation = errors.New("pulseset: reduced output still overlaps")

	// ErrStepLimitExceeded indicates that Reduce performed more combine steps
	// than allowed by WithMaxSteps.
	ErrStepLimitExceeded = errors.New("pulseset: combine step limit exceeded")

	// ErrBadMaxSteps indicates a negative step limit.
	ErrBadMaxSteps = errors.New("pulseset: MaxSteps must be non-negative")

	// ErrNilProgress indicates a nil progress callback.
	ErrNilProgress = errors.New("pulseset: progress callback is nil")
)

// ProgressFunc receives the number of unresolved pulses left in the sweep
// and the number of pulses the sweep started with. Both numbers are
// informational: combine steps can temporarily grow remaining above total.
type ProgressFunc func(remaining, total int)

// Options configures a Set.
//
// Logger    – receives Debug summaries and Trace per-step records (default: discard).
// Progress  – optional per-iteration callback (default: nil).
// MaxSteps  – upper bound on combine steps per Reduce; 0 means unlimited.
// Generator – identity source for combined segments (default: fresh generator
//
//	that has observed every input id).
type Options struct {
	Logger    *slog.Logger
	Progress  ProgressFunc
	MaxSteps  int
	Generator *pulse.IDGenerator
}

// Option represents a functional option for configuring a Set.
type Option func(*Options)

// DefaultOptions returns the options used when none are supplied.
//
// Defaults:
//   - Logger:    nil (discard).
//   - Progress:  nil (no callback).
//   - MaxSteps:  0 (unlimited).
//   - Generator: nil (created by New).
func DefaultOptions() Options {
	return Options{}
}

// WithLogger routes reducer logging to l. A nil logger restores the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithProgress installs a progress callback invoked once per sweep iteration.
// Panics if fn is nil.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) {
		if fn == nil {
			panic(ErrNilProgress.Error())
		}
		o.Progress = fn
	}
}

// WithMaxSteps bounds the number of combine steps a single Reduce may perform.
// Zero disables the limit. Panics if n is negative.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxSteps.Error())
		}
		o.MaxSteps = n
	}
}

// WithGenerator shares an identity source with the caller, typically the one
// produced by trace ingestion. New still observes every input id on it.
// A nil generator restores the default.
func WithGenerator(gen *pulse.IDGenerator) Option {
	return func(o *Options) {
		o.Generator = gen
	}
}

// ReduceStats summarizes the most recent Reduce.
type ReduceStats struct {
	Input     int `json:"input"`     // pulses before reduction
	Output    int `json:"output"`    // pulses after reduction
	Combines  int `json:"combines"`  // Combine calls on intersecting pairs
	Finalized int `json:"finalized"` // pulses retired by non-intersecting pops
}
