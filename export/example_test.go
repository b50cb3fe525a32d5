package export_test

import (
	"os"

	"github.com/katalvlaran/pulsetrace/export"
	"github.com/katalvlaran/pulsetrace/waveform"
)

func ExampleWrite() {
	wf := waveform.Waveform{
		Time:  []float64{0, 1e-9, 2e-9},
		Power: []float64{0, 0.002, 0},
	}
	_ = export.Write("csv", os.Stdout, wf, nil)
	// Output:
	// time_s,power_w
	// 0,0
	// 1e-09,0.002
	// 2e-09,0
}
