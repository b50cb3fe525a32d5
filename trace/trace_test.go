package trace_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `id,t (s),tau (s),phi (rad),lambda (m),P (W)
1,0,1e-09,0,1.55e-06,0.001
2,5e-10,1e-09,0,1.55e-06,0.001
3,3e-09,1e-09,0,1.55e-06,0.002
`

func TestRead_Sample(t *testing.T) {
	res, err := trace.Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, res.Pulses, 3)

	assert.Equal(t, 3, res.Records)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, 1e-9, res.MinDuration)
	assert.Equal(t, pulse.Pulse{ID: 2, Start: 5e-10, Duration: 1e-9, Wavelength: 1.55e-6, Power: 1e-3}, res.Pulses[1])
	assert.Equal(t, uint64(4), res.Generator.Peek())
}

func TestRead_HeaderIsFlexible(t *testing.T) {
	in := "P(W), LAMBDA ,phi,Tau (s),t\n0.001,1.55e-6,0,1e-9,2e-9\n"
	res, err := trace.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Pulses, 1)
	p := res.Pulses[0]
	assert.Equal(t, 2e-9, p.Start)
	assert.Equal(t, 1e-9, p.Duration)
	assert.Equal(t, 1e-3, p.Power)
	assert.Equal(t, uint64(1), p.ID, "missing id column means generated ids")
}

func TestRead_AssignsIDsAfterObservingExplicitOnes(t *testing.T) {
	in := `id,t,tau,phi,lambda,p
,0,1e-9,0,1.55e-6,0.001
5,1e-9,1e-9,0,1.55e-6,0.001
,2e-9,1e-9,0,1.55e-6,0.001
`
	res, err := trace.Read(strings.NewReader(in))
	require.NoError(t, err)
	ids := []uint64{res.Pulses[0].ID, res.Pulses[1].ID, res.Pulses[2].ID}
	assert.Equal(t, []uint64{6, 5, 7}, ids)
}

func TestRead_Empty(t *testing.T) {
	res, err := trace.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, res.Pulses)
	assert.NotNil(t, res.Generator)

	res, err = trace.Read(strings.NewReader("t,tau,phi,lambda,p\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Pulses)
	assert.Zero(t, res.MinDuration)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := trace.Read(strings.NewReader("t,tau,phi,lambda\n0,1,0,1\n"), trace.WithPolicy(trace.Skip))
	require.Error(t, err, "a bad header aborts even under Skip")
	assert.ErrorIs(t, err, trace.ErrMissingColumn)
	assert.ErrorIs(t, err, trace.ErrMalformedRecord)

	var rerr *trace.RecordError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, rerr.Line)
	assert.Equal(t, "p", rerr.Field)
}

func TestRead_MalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		line  int
		field string
		cause error
	}{
		{"unparseable number", "1,0,abc,0,1.55e-6,0.001", 2, "tau", strconv.ErrSyntax},
		{"bad id", "x,0,1e-9,0,1.55e-6,0.001", 2, "id", strconv.ErrSyntax},
		{"short record", "1,0,1e-9", 2, "phi", trace.ErrMissingColumn},
		{"negative power", "1,0,1e-9,0,1.55e-6,-1", 2, "", pulse.ErrNegativePower},
		{"negative duration", "1,0,-1e-9,0,1.55e-6,1", 2, "", pulse.ErrNegativeDuration},
		{"infinite start", "1,+Inf,1e-9,0,1.55e-6,1", 2, "", pulse.ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "id,t,tau,phi,lambda,p\n" + tt.row + "\n"
			_, err := trace.Read(strings.NewReader(in))
			require.ErrorIs(t, err, trace.ErrMalformedRecord)
			assert.ErrorIs(t, err, tt.cause)

			var rerr *trace.RecordError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.line, rerr.Line)
			assert.Equal(t, tt.field, rerr.Field)
		})
	}
}

func TestRead_DuplicateID(t *testing.T) {
	in := `id,t,tau,phi,lambda,p
1,0,1e-9,0,1.55e-6,0.001
1,2e-9,1e-9,0,1.55e-6,0.001
`
	_, err := trace.Read(strings.NewReader(in))
	require.ErrorIs(t, err, trace.ErrDuplicateID)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "also on line 2")
}

func TestRead_ReservedID(t *testing.T) {
	in := "id,t,tau,phi,lambda,p\n18446744073709551615,0,1e-9,0,1.55e-6,0.001\n"
	_, err := trace.Read(strings.NewReader(in))
	require.ErrorIs(t, err, trace.ErrMalformedRecord)
	assert.ErrorIs(t, err, pulse.ErrReservedID)

	var rerr *trace.RecordError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, trace.ColID, rerr.Field)
	assert.Equal(t, 2, rerr.Line)
}

func TestRead_SkipPolicy(t *testing.T) {
	in := `id,t,tau,phi,lambda,p
1,0,1e-9,0,1.55e-6,0.001
2,oops,1e-9,0,1.55e-6,0.001
1,2e-9,1e-9,0,1.55e-6,0.001
4,3e-9,1e-9,0,1.55e-6,0.001
`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := trace.Read(strings.NewReader(in), trace.WithPolicy(trace.Skip), trace.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []uint64{1, 4}, []uint64{res.Pulses[0].ID, res.Pulses[1].ID})

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, "skipping malformed trace record"))
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "trace read")
}

func TestRead_WavelengthRounding(t *testing.T) {
	in := `t,tau,phi,lambda,p
0,1e-9,0,1.5500000000001e-6,0.001
5e-10,1e-9,0,1.5499999999999e-6,0.001
`
	res, err := trace.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, res.Pulses[0].Wavelength, res.Pulses[1].Wavelength, "float noise collapses onto one carrier")

	raw, err := trace.Read(strings.NewReader(in), trace.WithRawWavelength())
	require.NoError(t, err)
	assert.NotEqual(t, raw.Pulses[0].Wavelength, raw.Pulses[1].Wavelength)

	forced, err := trace.Read(strings.NewReader(in), trace.WithWavelengthOverride(1310e-9))
	require.NoError(t, err)
	for _, p := range forced.Pulses {
		assert.Equal(t, 1310e-9, p.Wavelength)
	}
}

func TestWithWavelengthOverride_Panics(t *testing.T) {
	assert.Panics(t, func() { trace.WithWavelengthOverride(0)(&trace.Options{}) })
	assert.Panics(t, func() { trace.WithWavelengthOverride(-1)(&trace.Options{}) })
}

func TestWriteRead_RoundTrip(t *testing.T) {
	in := []pulse.Pulse{
		{ID: 3, Start: 0.1e-9, Duration: 0.7e-9, Phase: 1.234567890123, Wavelength: 1550.12e-9, Power: 3.3e-4},
		{ID: 9, Start: 2e-9, Duration: 0, Phase: -0.5, Wavelength: 1550.12e-9, Power: 0},
	}
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, trace.WriteFile(path, in))

	res, err := trace.ReadFile(path, trace.WithRawWavelength())
	require.NoError(t, err)
	assert.Equal(t, in, res.Pulses)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := trace.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestResult_SetSharesGenerator(t *testing.T) {
	res, err := trace.Read(strings.NewReader(sample))
	require.NoError(t, err)

	set := res.Set()
	require.NoError(t, set.Reduce())
	assert.Same(t, res.Generator, set.Generator())
	assert.Equal(t, 4, set.Len())
	for _, p := range set.Pulses() {
		assert.NotEqual(t, uint64(0), p.ID)
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "abort", trace.Abort.String())
	assert.Equal(t, "skip", trace.Skip.String())
	assert.Equal(t, "Policy(7)", trace.Policy(7).String())
}
