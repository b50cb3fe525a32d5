// Package waveform turns a reduced pulse set into power-versus-time traces
// and compares traces with each other.
//
// Two renderings are offered:
//   - Steps:   the exact piecewise-constant polyline, lossless. Prefer it for
//     plotting and numeric comparison.
//   - Sampled: one value per fixed step dt, for coarse views of long spans.
//     Features shorter than dt may be lost.
//
// Both accept any PulseSource (such as *pulseset.Set) and reduce it first.
// Zero-duration pulses never appear in either rendering.
//
// Diff and Compare resample two step waveforms on a common grid; Compare
// also reports the DTW distance from package dtw so that a pure delay does
// not read as a large mismatch.
package waveform
