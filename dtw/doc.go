// Package dtw computes Dynamic Time Warping (DTW) distances between sampled
// power series, with an optional alignment path and reduced-memory modes.
//
// 🚀 Why DTW for waveforms?
//
//	Two detector traces of the same circuit rarely line up sample for sample:
//	a small delay change shifts every edge. Point-wise differences then
//	overstate the mismatch, while DTW warps the time axis first and measures
//	what is left. waveform.Compare reports it next to the RMS difference.
//
// ✨ Key features:
//   - FullMatrix mode: O(N·M) memory, supports the warping path
//   - TwoRows / NoMemory modes: O(M) memory, distance only
//   - optional Sakoe–Chiba window (|i−j| ≤ w), −1 for unlimited
//   - slope penalty to discourage excessive stretching
//
// ⚙️ Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.Window = 50
//	opts.MemoryMode = dtw.TwoRows
//	dist, _, err := dtw.DTW(a, b, &opts)
//
// Performance:
//
//   - Time:   O(N·M), or O(N·w) useful cells with a window
//   - Memory: O(N·M) (FullMatrix) or O(M) (TwoRows, NoMemory)
package dtw
