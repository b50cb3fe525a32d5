package export

import (
	"fmt"
	"io"
	"slices"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/katalvlaran/pulsetrace/waveform"
)

// Arrow column names.
const (
	ColumnTime  = "time_s"
	ColumnPower = "power_w"
)

// Schema returns the Arrow schema of an exported waveform with meta
// attached as schema metadata (keys sorted).
func Schema(meta Meta) *arrow.Schema {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = meta[k]
	}
	md := arrow.NewMetadata(keys, values)

	return arrow.NewSchema([]arrow.Field{
		{Name: ColumnTime, Type: arrow.PrimitiveTypes.Float64},
		{Name: ColumnPower, Type: arrow.PrimitiveTypes.Float64},
	}, &md)
}

func writeArrow(w io.Writer, wf waveform.Waveform, meta Meta) error {
	return WriteArrow(w, wf, meta, memory.DefaultAllocator)
}

// WriteArrow writes wf as a single-batch Arrow IPC stream using mem for
// buffers.
func WriteArrow(w io.Writer, wf waveform.Waveform, meta Meta, mem memory.Allocator) error {
	schema := Schema(meta)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues(wf.Time, nil)
	b.Field(1).(*array.Float64Builder).AppendValues(wf.Power, nil)

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("export: arrow record: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("export: arrow close: %w", err)
	}

	return nil
}
