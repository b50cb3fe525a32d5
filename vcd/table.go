package vcd

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/katalvlaran/pulsetrace/waveform"
)

// TopScope is the scope the simulator nests every probe and detector under.
const TopScope = "SystemC"

var (
	// ErrNoTopScope indicates a dump without the TopScope scope.
	ErrNoTopScope = errors.New("vcd: top scope " + TopScope + " not found")

	// ErrUnknownColumn indicates a lookup of a column the table lacks.
	ErrUnknownColumn = errors.New("vcd: unknown column")

	// ErrBeforeFirstSample indicates a lookup key below the table's first row.
	ErrBeforeFirstSample = errors.New("vcd: key precedes first sample")
)

var (
	probeSignals    = []string{"wavelength", "power", "abs", "phase", "real", "imag"}
	detectorSignals = []string{"readout", "readout_no_interference"}
)

// Domain is the key of a Table's rows.
type Domain int

const (
	// Time rows are keyed by simulation time in seconds.
	Time Domain = iota
	// Wavelength rows are keyed by wavelength in metres (frequency sweep).
	Wavelength
)

func (d Domain) String() string {
	if d == Wavelength {
		return "wavelength"
	}
	return "time"
}

// Table holds several signals sampled on a shared, sorted key axis.
// Data[c][i] is column Columns[c] at Keys[i].
type Table struct {
	Domain  Domain
	Keys    []float64
	Columns []string
	Data    [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Keys) }

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	i := slices.Index(t.Columns, name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return t.Data[i], nil
}

// Lookup returns column name at key. The simulator is event driven, so a
// key between rows takes the value of the closest earlier row.
func (t *Table) Lookup(name string, key float64) (float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return 0, err
	}
	i := sort.Search(len(t.Keys), func(k int) bool { return t.Keys[k] > key }) - 1
	if i < 0 {
		return 0, fmt.Errorf("%w: %g", ErrBeforeFirstSample, key)
	}

	return col[i], nil
}

// Waveform returns column name as a step waveform over a time-domain table.
// Samples before the signal's first change (NaN) read as 0.
func (t *Table) Waveform(name string) (waveform.Waveform, error) {
	col, err := t.Column(name)
	if err != nil {
		return waveform.Waveform{}, err
	}
	wf := waveform.Waveform{
		Time:  slices.Clone(t.Keys),
		Power: make([]float64, len(col)),
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			wf.Power[i] = v
		}
	}

	return wf, nil
}

// Tables are the signal groups Extract finds under TopScope.
type Tables struct {
	Probes    *Table // nil when the dump has no probes
	Detectors *Table // nil when there are no detectors or the run is a sweep
}

// WavelengthSweep reports whether the probes were keyed by wavelength.
func (t *Tables) WavelengthSweep() bool {
	return t.Probes != nil && t.Probes.Domain == Wavelength
}

// Extract classifies the scopes under TopScope into probes and detectors
// and builds one table per group.
func (d *Dump) Extract() (*Tables, error) {
	top, ok := d.Root.Child(TopScope)
	if !ok {
		return nil, ErrNoTopScope
	}

	var probes, detectors []*Scope
	for _, s := range top.Scopes {
		if isProbe(s) {
			probes = append(probes, s)
		}
		if isDetector(s) {
			detectors = append(detectors, s)
		}
	}

	sweep := isWavelengthSweep(probes)
	out := &Tables{}

	// 1) Probes. Outside a sweep the wavelength signal carries nothing the
	// time axis does not, so it is dropped; in a sweep it becomes the key.
	if len(probes) > 0 {
		var cols []column
		haveWL := false
		for _, p := range probes {
			for _, sig := range p.Signals {
				if sig.Name == "wavelength" {
					if sweep && !haveWL {
						cols = append(cols, column{name: "wavelength", changes: sig.Changes})
						haveWL = true
					}
					continue
				}
				cols = append(cols, column{name: p.Name + "/" + sig.Name, changes: sig.Changes})
			}
		}
		if sweep {
			out.Probes = sweepTable(cols)
		} else {
			out.Probes = timeTable(cols, d.Timescale)
		}
	}

	// 2) Detectors only make sense in the time domain.
	if !sweep && len(detectors) > 0 {
		var cols []column
		for _, s := range detectors {
			for _, sig := range s.Signals {
				cols = append(cols, column{name: s.Name + "/" + sig.Name, changes: sig.Changes})
			}
		}
		out.Detectors = timeTable(cols, d.Timescale)
	}

	return out, nil
}

type column struct {
	name    string
	changes []Change
}

// merge aligns columns on the union of their ticks. A column without a
// change at some tick holds NaN there; with several changes at one tick the
// last wins.
func merge(cols []column) (ticks []uint64, data [][]float64) {
	for _, c := range cols {
		for _, ch := range c.changes {
			ticks = append(ticks, ch.Tick)
		}
	}
	slices.Sort(ticks)
	ticks = slices.Compact(ticks)

	data = make([][]float64, len(cols))
	for ci, c := range cols {
		vals := make([]float64, len(ticks))
		for i := range vals {
			vals[i] = math.NaN()
		}
		for _, ch := range c.changes {
			i, _ := slices.BinarySearch(ticks, ch.Tick)
			vals[i] = ch.Value
		}
		data[ci] = vals
	}

	return ticks, data
}

func names(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out
}

// timeTable keys rows by tick·scale and carries each value forward until
// the next change.
func timeTable(cols []column, scale float64) *Table {
	ticks, data := merge(cols)
	t := &Table{Domain: Time, Keys: make([]float64, len(ticks)), Columns: names(cols), Data: data}
	for i, tk := range ticks {
		t.Keys[i] = float64(tk) * scale
	}
	for _, col := range data {
		forwardFill(col)
	}

	return t
}

// sweepTable keys rows by the wavelength column, drops rows where the
// wavelength is 0 and interpolates the remaining gaps linearly by row.
func sweepTable(cols []column) *Table {
	_, data := merge(cols)
	wl := slices.IndexFunc(cols, func(c column) bool { return c.name == "wavelength" })

	keep := make([]int, 0, len(data[wl]))
	for i, v := range data[wl] {
		if v != 0 {
			keep = append(keep, i)
		}
	}

	t := &Table{Domain: Wavelength}
	for ci, col := range data {
		rows := make([]float64, len(keep))
		for k, i := range keep {
			rows[k] = col[i]
		}
		interpolate(rows)
		if ci == wl {
			t.Keys = rows
			continue
		}
		t.Columns = append(t.Columns, cols[ci].name)
		t.Data = append(t.Data, rows)
	}

	return t
}

func forwardFill(col []float64) {
	for i := 1; i < len(col); i++ {
		if math.IsNaN(col[i]) {
			col[i] = col[i-1]
		}
	}
}

// interpolate fills interior NaN runs linearly and trailing ones with the
// last value. Leading NaNs stay.
func interpolate(col []float64) {
	last := -1
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if last >= 0 && i-last > 1 {
			step := (v - col[last]) / float64(i-last)
			for k := last + 1; k < i; k++ {
				col[k] = col[last] + step*float64(k-last)
			}
		}
		last = i
	}
	if last >= 0 {
		for k := last + 1; k < len(col); k++ {
			col[k] = col[last]
		}
	}
}

// isProbe: a scope holding only probe signals, each optionally suffixed
// with "@<wavelength>".
func isProbe(s *Scope) bool {
	if len(s.Scopes) > 0 || len(s.Signals) == 0 {
		return false
	}
	for _, sig := range s.Signals {
		base := sig.Name
		if i := strings.LastIndexByte(base, '@'); i > 0 {
			base = base[:i]
		}
		if !slices.Contains(probeSignals, base) {
			return false
		}
	}
	return true
}

func isDetector(s *Scope) bool {
	if len(s.Scopes) > 0 || len(s.Signals) == 0 {
		return false
	}
	for _, sig := range s.Signals {
		if !slices.Contains(detectorSignals, sig.Name) {
			return false
		}
	}
	return true
}

// isWavelengthSweep: some probe records its wavelength as often as its
// power (abs takes precedence when present), and not exactly once.
func isWavelengthSweep(probes []*Scope) bool {
	for _, p := range probes {
		counts := map[string]int{"wavelength": -1, "power": -1, "abs": -1}
		for _, sig := range p.Signals {
			if _, ok := counts[sig.Name]; ok {
				counts[sig.Name] = len(sig.Changes)
			}
		}
		match := false
		if counts["power"] != -1 {
			match = counts["wavelength"] == counts["power"]
		}
		if counts["abs"] != -1 {
			match = counts["wavelength"] == counts["abs"]
		}
		if match && counts["wavelength"] != 1 {
			return true
		}
	}
	return false
}
