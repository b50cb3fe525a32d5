package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/pulsetrace/internal/logging"
	"github.com/katalvlaran/pulsetrace/pulse"
)

// Canonical column names. Header cells are matched case-insensitively after
// trimming whitespace and a trailing unit in parentheses, so "P (W)",
// "p" and " P(W) " all name the power column.
const (
	ColID         = "id"
	ColStart      = "t"
	ColDuration   = "tau"
	ColPhase      = "phi"
	ColWavelength = "lambda"
	ColPower      = "p"
)

var requiredColumns = []string{ColStart, ColDuration, ColPhase, ColWavelength, ColPower}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, opts...)
}

// Read parses a detector trace: a CSV header followed by one pulse per row.
// Column order is irrelevant; the id column is optional.
//
// Ids: non-zero ids are kept and observed by the generator; a zero or empty
// id gets a fresh identity once every explicit id has been seen.
//
// Wavelengths are rounded to WavelengthResolution unless WithRawWavelength
// is given, and replaced outright by WithWavelengthOverride.
//
// Errors: a *RecordError matching ErrMalformedRecord for a bad header, and
// for a bad row under the Abort policy; I/O errors from r.
func Read(r io.Reader, opts ...Option) (*Result, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logging.OrDiscard(cfg.Logger)
	gen := cfg.Generator
	if gen == nil {
		gen = pulse.NewIDGenerator()
	}

	// 2) Header.
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Result{Generator: gen}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("trace: reading header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	// 3) Records.
	res := &Result{Generator: gen}
	seen := make(map[uint64]int)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("trace: reading record: %w", err)
			}
			if err := res.reject(cfg.Policy, log, &RecordError{Line: perr.Line, Err: perr.Err}); err != nil {
				return nil, err
			}
			continue
		}

		line, _ := cr.FieldPos(0)
		p, rerr := parseRecord(record, cols, line)
		if rerr == nil && p.ID != 0 {
			if first, dup := seen[p.ID]; dup {
				rerr = &RecordError{Line: line, Field: ColID,
					Err: fmt.Errorf("%w: %d also on line %d", ErrDuplicateID, p.ID, first)}
			}
		}
		if rerr != nil {
			if err := res.reject(cfg.Policy, log, rerr); err != nil {
				return nil, err
			}
			continue
		}
		if p.ID != 0 {
			seen[p.ID] = line
		}

		switch {
		case cfg.WavelengthOverride > 0:
			p.Wavelength = cfg.WavelengthOverride
		case !cfg.RawWavelength:
			p.Wavelength = roundWavelength(p.Wavelength)
		}

		res.Pulses = append(res.Pulses, p)
	}

	// 4) Identities: observe all explicit ids before handing out fresh ones.
	for _, p := range res.Pulses {
		if p.ID != 0 {
			gen.Observe(p.ID)
		}
	}
	for i := range res.Pulses {
		if res.Pulses[i].ID == 0 {
			res.Pulses[i].ID = gen.Next()
		}
	}

	// 5) Summary.
	res.Records = len(res.Pulses)
	for i, p := range res.Pulses {
		if i == 0 || p.Duration < res.MinDuration {
			res.MinDuration = p.Duration
		}
	}
	log.Debug("trace read",
		"records", res.Records,
		"skipped", res.Skipped,
		"min_duration", res.MinDuration)

	return res, nil
}

// reject applies the policy to one bad record.
func (res *Result) reject(policy Policy, log *slog.Logger, rerr *RecordError) error {
	if policy != Skip {
		return rerr
	}
	res.Skipped++
	log.Warn("skipping malformed trace record", "line", rerr.Line, "field", rerr.Field, "err", rerr.Err)

	return nil
}

// normalizeColumn maps a header cell to its canonical column name.
func normalizeColumn(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if i := strings.IndexByte(h, '('); i >= 0 && strings.HasSuffix(h, ")") {
		h = strings.TrimSpace(h[:i])
	}

	return h
}

// columnIndex resolves canonical column names to record positions.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumn(h)
		if _, dup := cols[name]; dup {
			return nil, &RecordError{Line: 1, Field: name, Err: errors.New("column appears twice")}
		}
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &RecordError{Line: 1, Field: name, Err: ErrMissingColumn}
		}
	}

	return cols, nil
}

// parseRecord converts one CSV record into a pulse with ID 0 when the id is
// absent or empty.
func parseRecord(record []string, cols map[string]int, line int) (pulse.Pulse, *RecordError) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}
	number := func(name string) (float64, *RecordError) {
		s, ok := field(name)
		if !ok {
			return 0, &RecordError{Line: line, Field: name, Err: ErrMissingColumn}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &RecordError{Line: line, Field: name, Err: err}
		}
		return v, nil
	}

	var p pulse.Pulse
	if s, ok := field(ColID); ok && s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return pulse.Pulse{}, &RecordError{Line: line, Field: ColID, Err: err}
		}
		if id > pulse.MaxID {
			return pulse.Pulse{}, &RecordError{Line: line, Field: ColID, Err: pulse.ErrReservedID}
		}
		p.ID = id
	}

	targets := []struct {
		name string
		dst  *float64
	}{
		{ColStart, &p.Start},
		{ColDuration, &p.Duration},
		{ColPhase, &p.Phase},
		{ColWavelength, &p.Wavelength},
		{ColPower, &p.Power},
	}
	for _, tg := range targets {
		v, rerr := number(tg.name)
		if rerr != nil {
			return pulse.Pulse{}, rerr
		}
		*tg.dst = v
	}

	if err := p.Validate(); err != nil {
		return pulse.Pulse{}, &RecordError{Line: line, Err: err}
	}

	return p, nil
}

// roundWavelength snaps lambda to the WavelengthResolution grid.
func roundWavelength(lambda float64) float64 {
	return math.Round(lambda/WavelengthResolution) * WavelengthResolution
}
