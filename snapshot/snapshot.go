// Package snapshot persists pulse sets so a long reduction can be inspected
// or resumed later.
//
// A Snapshot is a versioned, self-describing JSON document. It can be
// written to a file or kept in a SQLite store (see Open).
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/katalvlaran/pulsetrace/pulseset"
)

// Version is the document version written by this package.
const Version = 1

var (
	// ErrUnsupportedVersion indicates a document written by an unknown format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")

	// ErrInconsistent indicates a snapshot marked reduced whose pulses overlap.
	ErrInconsistent = errors.New("snapshot: marked reduced but pulses overlap")

	// ErrNotFound indicates an id with no stored snapshot.
	ErrNotFound = errors.New("snapshot: not found")
)

// Snapshot captures the contents of a pulse set at one moment.
type Snapshot struct {
	ID        uuid.UUID     `json:"id"`
	Version   int           `json:"version"`
	Label     string        `json:"label,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Reduced   bool          `json:"reduced"`
	NextID    uint64        `json:"next_id"`
	Energy    float64       `json:"energy,omitempty"` // set only when Reduced
	Pulses    []pulse.Pulse `json:"pulses"`
}

// Take captures set without reducing it.
func Take(set *pulseset.Set, label string) (*Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("snapshot: new id: %w", err)
	}

	s := &Snapshot{
		ID:        id,
		Version:   Version,
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Reduced:   set.Reduced(),
		NextID:    set.Generator().Peek(),
		Pulses:    set.Pulses(),
	}
	if s.Pulses == nil {
		s.Pulses = []pulse.Pulse{}
	}
	if s.Reduced {
		for _, p := range s.Pulses {
			s.Energy += p.Energy()
		}
	}

	return s, nil
}

// Restore rebuilds a pulse set from s. Identities continue from s.NextID.
// The Reduced mark is checked against the pulses, not trusted.
func Restore(s *Snapshot, opts ...pulseset.Option) (*pulseset.Set, error) {
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	gen := pulse.NewIDGenerator()
	if s.NextID > 1 {
		gen.Observe(s.NextID - 1)
	}
	opts = append([]pulseset.Option{pulseset.WithGenerator(gen)}, opts...)
	set := pulseset.New(s.Pulses, opts...)

	if s.Reduced && set.HasIntersections() {
		return nil, fmt.Errorf("%w: snapshot %s", ErrInconsistent, s.ID)
	}

	return set, nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads one snapshot and checks its version.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	return &s, nil
}

// WriteFile stores s at path, replacing any existing file.
func WriteFile(path string, s *Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(f, s)
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}
