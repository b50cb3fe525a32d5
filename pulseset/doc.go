// Package pulseset holds an ordered collection of optical pulses and reduces
// it to an equivalent set in which no two pulses overlap in time.
//
// 🚀 Why reduce?
//
//	A detector trace is a train of constant-amplitude pulses that may overlap
//	arbitrarily. Power at an instant is not the sum of the overlapping pulse
//	powers: the fields interfere. Reduce replaces every overlap with the
//	coherent sum (see pulse.Combine), leaving a piecewise-constant power
//	profile whose energy and waveform are well defined.
//
// ✨ Key features:
//   - Lazy "reduced" flag, derived by an adjacent-pair scan and cached until Add.
//   - Heap sweep over (Start, ID) with container/heap.
//   - Residual-overlap re-check before the result is installed.
//   - Optional step limit, progress callback and slog logging.
//
// ⚙️ Usage:
//
//	set := pulseset.New(pulses, pulseset.WithLogger(logger))
//	if err := set.Reduce(); err != nil {
//	    return err
//	}
//	energy, _ := set.Energy()
//
// Errors:
//
//	– pulse.ErrWavelengthMismatch          overlapping pulses on different carriers.
//	– ErrStepLimitExceeded                 more combine steps than WithMaxSteps allows.
//	– ErrReductionInvariantViolation       residual overlap after the sweep (a defect).
//
// A Set is not safe for concurrent use.
package pulseset
