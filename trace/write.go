package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/pulsetrace/pulse"
)

// Header is the header row Write emits. Read accepts it unchanged.
var Header = []string{"id", "t (s)", "tau (s)", "phi (rad)", "lambda (m)", "P (W)"}

// Write emits pulses as CSV in the order given, with shortest round-trip
// float formatting.
func Write(w io.Writer, pulses []pulse.Pulse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("trace: writing header: %w", err)
	}

	row := make([]string, len(Header))
	for _, p := range pulses {
		row[0] = strconv.FormatUint(p.ID, 10)
		row[1] = formatFloat(p.Start)
		row[2] = formatFloat(p.Duration)
		row[3] = formatFloat(p.Phase)
		row[4] = formatFloat(p.Wavelength)
		row[5] = formatFloat(p.Power)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("trace: writing pulse %d: %w", p.ID, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteFile creates path and writes pulses to it.
func WriteFile(path string, pulses []pulse.Pulse) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, pulses)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
