package vcd_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/pulsetrace/vcd"
)

func ExampleDump_Extract() {
	src := `$timescale 1 ps $end
$scope module SystemC $end
$scope module pdet $end
$var real 64 ! readout $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
r0 !
#500
r0.002 !
#1500
r0 !
`
	dump, _ := vcd.Parse(strings.NewReader(src))
	tables, _ := dump.Extract()
	v, _ := tables.Detectors.Lookup("pdet/readout", 1e-9)
	fmt.Println(tables.Detectors.Columns, v)
	// Output: [pdet/readout] 0.002
}
