package vcd_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pulsetrace/vcd"
)

// timeDomain is a two-probe, one-detector transient run at 1 ps per tick.
const timeDomain = `$date today $end
$version SystemC 2.3.3 $end
$timescale 1 ps $end
$scope module SystemC $end
$var wire 1 ! clk $end
$scope module probe_in $end
$var real 64 " power $end
$var real 64 # phase $end
$var real 64 $ wavelength $end
$upscope $end
$scope module pdet $end
$var real 64 % readout $end
$var real 64 & readout_no_interference $end
$upscope $end
$scope module mixed $end
$var real 64 ' power $end
$var real 64 ( temperature $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
r0 "
r0 #
r1.55e-06 $
r0 %
r0 &
$end
#1000
1!
r0.001 "
#1500
r0.5 #
r0.004 %
#2000
r0 "
r0.002 &
`

func parse(t *testing.T, src string) *vcd.Dump {
	t.Helper()
	d, err := vcd.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return d
}

func TestParse_Structure(t *testing.T) {
	d := parse(t, timeDomain)
	assert.Equal(t, 1e-12, d.Timescale)
	assert.Equal(t, uint64(2000), d.EndTick)

	top, ok := d.Root.Child(vcd.TopScope)
	require.True(t, ok)
	require.Len(t, top.Scopes, 3)
	require.Len(t, top.Signals, 1)
	assert.Equal(t, "clk", top.Signals[0].Name)
	assert.Equal(t, []vcd.Change{{Tick: 0, Value: 0}, {Tick: 1000, Value: 1}}, top.Signals[0].Changes)

	probe := top.Scopes[0]
	assert.Equal(t, "probe_in", probe.Name)
	assert.Equal(t, "real", probe.Signals[0].Type)
	assert.Equal(t, 64, probe.Signals[0].Width)
	assert.Len(t, probe.Signals[0].Changes, 3)
}

func TestExtract_TimeDomain(t *testing.T) {
	tables, err := parse(t, timeDomain).Extract()
	require.NoError(t, err)
	require.False(t, tables.WavelengthSweep())

	p := tables.Probes
	require.NotNil(t, p)
	assert.Equal(t, vcd.Time, p.Domain)
	assert.Equal(t, []string{"probe_in/power", "probe_in/phase"}, p.Columns, "wavelength dropped, mixed scope ignored")
	assert.InDeltaSlice(t, []float64{0, 1e-9, 1.5e-9, 2e-9}, p.Keys, 1e-24)

	power, err := p.Column("probe_in/power")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.001, 0.001, 0}, power, "forward filled")

	det := tables.Detectors
	require.NotNil(t, det)
	assert.Equal(t, []string{"pdet/readout", "pdet/readout_no_interference"}, det.Columns)
	assert.InDeltaSlice(t, []float64{0, 1.5e-9, 2e-9}, det.Keys, 1e-24)
	readout, _ := det.Column("pdet/readout")
	assert.Equal(t, []float64{0, 0.004, 0.004}, readout)
}

func TestTable_Lookup(t *testing.T) {
	tables, err := parse(t, timeDomain).Extract()
	require.NoError(t, err)
	p := tables.Probes

	tests := []struct {
		key  float64
		want float64
	}{
		{0, 0},
		{1e-9, 0.001},
		{1.2e-9, 0.001},
		{5e-9, 0},
	}
	for _, tt := range tests {
		got, err := p.Lookup("probe_in/power", tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "key %g", tt.key)
	}

	_, err = p.Lookup("probe_in/power", -1)
	assert.ErrorIs(t, err, vcd.ErrBeforeFirstSample)
	_, err = p.Lookup("nope", 0)
	assert.ErrorIs(t, err, vcd.ErrUnknownColumn)
}

func TestTable_Waveform(t *testing.T) {
	tables, err := parse(t, timeDomain).Extract()
	require.NoError(t, err)

	wf, err := tables.Detectors.Waveform("pdet/readout")
	require.NoError(t, err)
	require.NoError(t, wf.Validate())
	assert.Equal(t, 0.004, wf.At(1.7e-9))
}

const sweep = `$timescale 1 fs $end
$scope module SystemC $end
$scope module probe_out $end
$var real 64 a wavelength $end
$var real 64 b power $end
$var real 64 d abs $end
$upscope $end
$scope module pdet $end
$var real 64 c readout $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
r0 a
r0 b
r0 c
r0 d
#1
r1.5e-06 a
r0.2 b
r0.5 d
#2
r1.6e-06 a
r0.6 d
#3
r1.7e-06 a
r0.6 b
r0.7 d
`

func TestExtract_WavelengthSweep(t *testing.T) {
	tables, err := parse(t, sweep).Extract()
	require.NoError(t, err)
	require.True(t, tables.WavelengthSweep())
	assert.Nil(t, tables.Detectors, "detectors are not tabulated in a sweep")

	p := tables.Probes
	assert.Equal(t, vcd.Wavelength, p.Domain)
	assert.Equal(t, []string{"probe_out/power", "probe_out/abs"}, p.Columns)
	assert.Equal(t, []float64{1.5e-6, 1.6e-6, 1.7e-6}, p.Keys, "zero-wavelength row dropped")

	power, _ := p.Column("probe_out/power")
	assert.InDeltaSlice(t, []float64{0.2, 0.4, 0.6}, power, 1e-12, "gap interpolated")
}

func TestExtract_MultiWavelengthProbeSuffix(t *testing.T) {
	src := `$scope module SystemC $end
$scope module mlprobe $end
$var real 64 a power@1.55e-06 $end
$var real 64 b power@1.31e-06 $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
r1 a
r2 b
`
	tables, err := parse(t, src).Extract()
	require.NoError(t, err)
	require.NotNil(t, tables.Probes)
	assert.Equal(t, []string{"mlprobe/power@1.55e-06", "mlprobe/power@1.31e-06"}, tables.Probes.Columns)
}

func TestExtract_NoTopScope(t *testing.T) {
	_, err := parse(t, "$scope module top $end\n$upscope $end\n").Extract()
	assert.ErrorIs(t, err, vcd.ErrNoTopScope)
}

func TestParse_Values(t *testing.T) {
	src := `$scope module SystemC $end
$var reg 4 v bus $end
$var wire 1 w bit $end
$var wire 1 w alias $end
$upscope $end
#5
b1010 v
x w
#6
bz01 v
`
	d := parse(t, src)
	top, _ := d.Root.Child(vcd.TopScope)
	bus := top.Signals[0].Changes
	assert.Equal(t, vcd.Change{Tick: 5, Value: 10}, bus[0])
	assert.True(t, math.IsNaN(bus[1].Value))

	assert.True(t, math.IsNaN(top.Signals[1].Changes[0].Value))
	assert.Len(t, top.Signals[2].Changes, 1, "aliased identifiers share changes")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unterminated section", "$timescale 1 ps", vcd.ErrSyntax},
		{"bad timescale", "$timescale 3 years $end", vcd.ErrTimescale},
		{"stray upscope", "$upscope $end", vcd.ErrSyntax},
		{"short var", "$var real 64 $end", vcd.ErrSyntax},
		{"undeclared id", "#0\nr1.0 ?", vcd.ErrUnknownID},
		{"bad tick", "#abc", vcd.ErrSyntax},
		{"bad real", "$var real 64 a x $end\nrnope a", vcd.ErrSyntax},
		{"garbage", "hello", vcd.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vcd.Parse(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseTimescale(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1 s", 1},
		{"10ns", 10e-9},
		{"100 us", 100e-6},
		{"1 fs", 1e-15},
		{" 1  ms ", 1e-3},
	}
	for _, tt := range tests {
		got, err := vcd.ParseTimescale(tt.in)
		require.NoError(t, err, tt.in)
		assert.InEpsilon(t, tt.want, got, 1e-12, tt.in)
	}
	_, err := vcd.ParseTimescale("ps")
	assert.ErrorIs(t, err, vcd.ErrTimescale)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.vcd")
	require.NoError(t, os.WriteFile(path, []byte(timeDomain), 0o600))
	d, err := vcd.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), d.EndTick)

	_, err = vcd.ParseFile(filepath.Join(t.TempDir(), "missing.vcd"))
	assert.Error(t, err)
}
