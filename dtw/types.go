package dtw

import "errors"

// Sentinel errors returned by DTW.
var (
	// ErrEmptyInput indicates one or both input sequences are empty.
	ErrEmptyInput = errors.New("dtw: input sequences must be non-empty")

	// ErrBadInput indicates an invalid option (Window < -1, negative or NaN
	// SlopePenalty, unknown MemoryMode) or a NaN sample.
	ErrBadInput = errors.New("dtw: invalid input or options")

	// ErrPathNeedsMatrix indicates that path recovery requires FullMatrix mode.
	ErrPathNeedsMatrix = errors.New("dtw: ReturnPath requires MemoryMode=FullMatrix")
)

// MemoryMode controls how DTW stores its DP matrix.
//
//   - FullMatrix — keep the entire (n+1)x(m+1) matrix. Supports ReturnPath.
//     Memory: O(n·m).
//   - TwoRows    — keep the previous and current row. Memory: O(m).
//   - NoMemory   — keep one row plus a single diagonal cell. Memory: O(m).
type MemoryMode int

const (
	// FullMatrix stores all rows and supports path recovery.
	FullMatrix MemoryMode = iota

	// TwoRows keeps two rolling rows; distance only.
	TwoRows

	// NoMemory keeps a single row and a diagonal carry; distance only.
	NoMemory
)

// String returns the mode name.
func (m MemoryMode) String() string {
	switch m {
	case FullMatrix:
		return "FullMatrix"
	case TwoRows:
		return "TwoRows"
	case NoMemory:
		return "NoMemory"
	default:
		return "MemoryMode(?)"
	}
}

// Options configures Dynamic Time Warping.
//
// Window       – Sakoe–Chiba band: cells with |i−j| > Window are unreachable.
//
//	-1 disables the band; values below -1 are rejected.
//
// SlopePenalty – cost added to every insertion/deletion step (≥ 0).
// ReturnPath   – backtrack and return the optimal warping path (FullMatrix only).
// MemoryMode   – DP storage strategy.
type Options struct {
	Window       int
	SlopePenalty float64
	ReturnPath   bool
	MemoryMode   MemoryMode
}

// DefaultOptions returns an unconstrained, penalty-free, distance-only
// configuration using the full matrix.
func DefaultOptions() Options {
	return Options{
		Window:       -1,
		SlopePenalty: 0,
		ReturnPath:   false,
		MemoryMode:   FullMatrix,
	}
}

// Coord is one cell (I into a, J into b) on a warping path.
type Coord struct {
	I, J int
}
