package dtw_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pulsetrace/dtw"
)

// ExampleDTW aligns a power trace with a copy whose rising edge arrives one
// sample later. Warping absorbs the delay entirely.
func ExampleDTW() {
	a := []float64{0, 1, 1, 0}
	b := []float64{0, 0, 1, 1, 0}
	opts := dtw.DefaultOptions()
	opts.ReturnPath = true

	dist, path, err := dtw.DTW(a, b, &opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("distance=%.0f\npath=%v\n", dist, path)
	// Output:
	// distance=0
	// path=[{0 0} {0 1} {1 2} {2 3} {3 4}]
}

// ExampleDTW_window shows a zero-width band forcing strict diagonal alignment,
// which is infeasible for sequences of different length.
func ExampleDTW_window() {
	a := []float64{2, 3, 4}
	b := []float64{2, 3, 4, 5}
	opts := dtw.DefaultOptions()
	opts.Window = 0

	dist, _, _ := dtw.DTW(a, b, &opts)
	if math.IsInf(dist, 1) {
		fmt.Println("distance=+Inf")
	}
	// Output:
	// distance=+Inf
}

// ExampleDTW_penalty charges one unit for the single stretch needed to absorb
// the missing sample, on top of the unit mismatch it leaves behind.
func ExampleDTW_penalty() {
	a := []float64{10, 11, 12, 13, 14, 15}
	b := []float64{10, 11, 13, 14, 15}
	opts := dtw.DefaultOptions()
	opts.Window = 1
	opts.SlopePenalty = 1.0
	opts.MemoryMode = dtw.NoMemory

	dist, _, _ := dtw.DTW(a, b, &opts)
	fmt.Printf("distance=%.0f\n", dist)
	// Output:
	// distance=2
}
