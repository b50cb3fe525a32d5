package export

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/katalvlaran/pulsetrace/waveform"
)

// ErrUnknownFormat indicates a format name with no registered writer.
var ErrUnknownFormat = errors.New("export: unknown format")

// Meta is free-form key/value metadata carried alongside a waveform.
type Meta map[string]string

// WriterFunc writes one waveform to w.
type WriterFunc func(w io.Writer, wf waveform.Waveform, meta Meta) error

var (
	mu      sync.RWMutex
	writers = map[string]WriterFunc{}
)

func init() {
	Register("csv", writeCSV)
	Register("json", writeJSON)
	Register("arrow", writeArrow)
}

// Register installs fn under format; the last registration wins.
// Panics on an empty name or a nil function.
func Register(format string, fn WriterFunc) {
	if format == "" || fn == nil {
		panic("export: Register needs a format name and a writer")
	}
	mu.Lock()
	defer mu.Unlock()
	writers[format] = fn
}

// Formats lists registered format names in lexical order.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Write validates wf and hands it to the writer registered for format.
func Write(format string, w io.Writer, wf waveform.Waveform, meta Meta) error {
	mu.RLock()
	fn, ok := writers[format]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w %q (have %v)", ErrUnknownFormat, format, Formats())
	}
	if err := wf.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return fn(w, wf, meta)
}
