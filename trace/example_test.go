package trace_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/trace"
)

func ExampleRead() {
	in := `t (s),tau (s),phi (rad),lambda (m),P (W)
0,1e-9,0,1.55e-6,0.001
5e-10,1e-9,0,1.55e-6,0.001
`
	res, err := trace.Read(strings.NewReader(in))
	if err != nil {
		fmt.Println(err)
		return
	}
	set := res.Set()
	energy, _ := set.Energy()
	fmt.Printf("%d records, %d pulses after reduction, %.1f pJ\n", res.Records, set.Len(), energy*1e12)
	// Output: 2 records, 3 pulses after reduction, 3.0 pJ
}

func ExampleWrite() {
	_ = trace.Write(os.Stdout, []pulse.Pulse{
		{ID: 1, Start: 0, Duration: 1e-9, Wavelength: 1.55e-6, Power: 0.001},
	})
	// Output:
	// id,t (s),tau (s),phi (rad),lambda (m),P (W)
	// 1,0,1e-09,0,1.55e-06,0.001
}
