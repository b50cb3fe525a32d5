package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pulsetrace/export"
	"github.com/katalvlaran/pulsetrace/waveform"
)

func sampleWaveform() waveform.Waveform {
	return waveform.Waveform{
		Time:  []float64{0, 1e-9, 2e-9, 3e-9},
		Power: []float64{0, 1e-3, 1e-3, 0},
	}
}

func TestFormats_Builtins(t *testing.T) {
	assert.Subset(t, export.Formats(), []string{"arrow", "csv", "json"})
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := export.Write("xlsx", io.Discard, sampleWaveform(), nil)
	require.ErrorIs(t, err, export.ErrUnknownFormat)
	assert.Contains(t, err.Error(), `"xlsx"`)
}

func TestWrite_RejectsInvalidWaveform(t *testing.T) {
	bad := waveform.Waveform{Time: []float64{0, 1}, Power: []float64{0}}
	err := export.Write("csv", io.Discard, bad, nil)
	assert.ErrorIs(t, err, waveform.ErrLengthMismatch)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write("csv", &buf, sampleWaveform(), nil))
	assert.Equal(t, "time_s,power_w\n0,0\n1e-09,0.001\n2e-09,0.001\n3e-09,0\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write("json", &buf, sampleWaveform(), export.Meta{"source": "unit"}))

	var doc struct {
		Time   []float64         `json:"time"`
		Power  []float64         `json:"power"`
		Energy float64           `json:"energy"`
		Meta   map[string]string `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, sampleWaveform().Time, doc.Time)
	assert.Equal(t, sampleWaveform().Power, doc.Power)
	// Trapezoid: 0.5 + 1 + 0.5 ns·mW
	assert.InEpsilon(t, 2e-12, doc.Energy, 1e-9)
	assert.Equal(t, "unit", doc.Meta["source"])
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write("json", &buf, waveform.Waveform{}, nil))
	assert.JSONEq(t, `{"time":[],"power":[],"energy":0}`, buf.String())
}

func TestWriteArrow_RoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	var buf bytes.Buffer
	meta := export.Meta{"source": "unit", "dt": "1e-09"}
	require.NoError(t, export.WriteArrow(&buf, sampleWaveform(), meta, mem))

	r, err := ipc.NewReader(bytes.NewReader(buf.Bytes()), ipc.WithAllocator(mem))
	require.NoError(t, err)
	defer r.Release()

	schema := r.Schema()
	require.Equal(t, 2, schema.NumFields())
	assert.Equal(t, export.ColumnTime, schema.Field(0).Name)
	assert.Equal(t, export.ColumnPower, schema.Field(1).Name)

	md := schema.Metadata()
	assert.Equal(t, []string{"dt", "source"}, md.Keys())
	assert.Equal(t, "unit", md.Values()[md.FindKey("source")])

	require.True(t, r.Next())
	rec := r.Record()
	assert.EqualValues(t, 4, rec.NumRows())
	assert.Equal(t, sampleWaveform().Time, rec.Column(0).(*array.Float64).Float64Values())
	assert.Equal(t, sampleWaveform().Power, rec.Column(1).(*array.Float64).Float64Values())
	assert.False(t, r.Next())
}

func TestWrite_ArrowRegistered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write("arrow", &buf, sampleWaveform(), nil))
	assert.NotZero(t, buf.Len())
}

func TestRegister_Custom(t *testing.T) {
	export.Register("count", func(w io.Writer, wf waveform.Waveform, _ export.Meta) error {
		_, err := fmt.Fprintf(w, "%d points", wf.Len())
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, export.Write("count", &buf, sampleWaveform(), nil))
	assert.Equal(t, "4 points", buf.String())
	assert.Contains(t, export.Formats(), "count")

	assert.Panics(t, func() { export.Register("", nil) })
}

func TestIsBrokenPipe(t *testing.T) {
	pr, pw := io.Pipe()
	require.NoError(t, pr.Close())
	err := export.Write("csv", pw, sampleWaveform(), nil)
	require.Error(t, err)
	assert.True(t, export.IsBrokenPipe(err))

	assert.True(t, export.IsBrokenPipe(fmt.Errorf("write: %w", syscall.EPIPE)))
	assert.False(t, export.IsBrokenPipe(errors.New("disk full")))
	assert.False(t, export.IsBrokenPipe(nil))
}
