package trace

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/pulseset"
)

// Sentinel errors for trace ingestion.
var (
	// ErrMalformedRecord indicates a record that cannot become a pulse:
	// a missing column, an unparseable field or an invalid value.
	ErrMalformedRecord = errors.New("trace: malformed record")

	// ErrMissingColumn indicates that the header lacks a required column.
	ErrMissingColumn = errors.New("trace: missing column")

	// ErrDuplicateID indicates two records with the same explicit id.
	ErrDuplicateID = errors.New("trace: duplicate id")

	// ErrBadWavelength indicates a non-positive or non-finite wavelength override.
	ErrBadWavelength = errors.New("trace: wavelength override must be positive and finite")
)

// RecordError locates a malformed record. It matches both
// ErrMalformedRecord and its underlying cause under errors.Is.
type RecordError struct {
	Line  int    // 1-based line in the input; the header is line 1
	Field string // canonical column name, empty when the whole record is at fault
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("trace: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("trace: line %d: field %q: %v", e.Line, e.Field, e.Err)
}

// Unwrap exposes ErrMalformedRecord and the cause.
func (e *RecordError) Unwrap() []error { return []error{ErrMalformedRecord, e.Err} }

// Policy selects what Read does with a malformed record.
type Policy int

const (
	// Abort stops at the first malformed record and returns its error.
	Abort Policy = iota
	// Skip drops malformed records, counts them and keeps reading.
	Skip
)

func (p Policy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// WavelengthResolution is the grid the simulator's wavelengths are rounded
// to on ingest, so that float noise does not split one carrier in two.
const WavelengthResolution = 1e-12

// Options configures Read.
//
// Policy             – Abort (default) or Skip.
// RawWavelength      – keep wavelengths exactly as written (no rounding).
// WavelengthOverride – if > 0, replaces every wavelength.
// Logger             – receives a Debug summary and one Warn per skipped record.
// Generator          – identity source for records without an id.
type Options struct {
	Policy             Policy
	RawWavelength      bool
	WavelengthOverride float64
	Logger             *slog.Logger
	Generator          *pulse.IDGenerator
}

// Option represents a functional option for configuring Read.
type Option func(*Options)

// DefaultOptions returns the ingest defaults: abort on error, round
// wavelengths, no override.
func DefaultOptions() Options {
	return Options{Policy: Abort}
}

// WithPolicy selects the malformed-record policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// WithRawWavelength disables rounding to WavelengthResolution.
func WithRawWavelength() Option {
	return func(o *Options) {
		o.RawWavelength = true
	}
}

// WithWavelengthOverride forces every pulse onto one carrier.
// Panics if lambda is not positive and finite.
func WithWavelengthOverride(lambda float64) Option {
	return func(o *Options) {
		if !(lambda > 0) || math.IsInf(lambda, 1) {
			panic(ErrBadWavelength.Error())
		}
		o.WavelengthOverride = lambda
	}
}

// WithLogger routes ingest logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithGenerator assigns missing ids from gen instead of a fresh generator.
func WithGenerator(gen *pulse.IDGenerator) Option {
	return func(o *Options) {
		o.Generator = gen
	}
}

// Result is the outcome of reading one trace.
type Result struct {
	Pulses      []pulse.Pulse      // accepted pulses in input order
	Generator   *pulse.IDGenerator // has observed every id in Pulses
	Records     int                // accepted records
	Skipped     int                // malformed records dropped under Skip
	MinDuration float64            // smallest accepted duration; 0 if none
}

// Set builds a pulse set that keeps drawing identities from r.Generator.
func (r *Result) Set(opts ...pulseset.Option) *pulseset.Set {
	opts = append([]pulseset.Option{pulseset.WithGenerator(r.Generator)}, opts...)
	return pulseset.New(r.Pulses, opts...)
}
