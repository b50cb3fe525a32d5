package pulseset

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/katalvlaran/pulsetrace/internal/logging"
	"github.com/katalvlaran/pulsetrace/pulse"
)

// Set is an ordered collection of pulses with a cached "reduced" flag.
// Pulses are always kept sorted by (Start, ID). A Set is not safe for
// concurrent use.
type Set struct {
	pulses  []pulse.Pulse
	gen     *pulse.IDGenerator
	log     *slog.Logger
	opts    Options
	stats   ReduceStats
	reduced bool // valid only when known is true
	known   bool
}

// New returns a Set holding a sorted copy of pulses.
//
// Every non-zero input ID is observed by the identity generator so that
// combined segments never reuse it; pulses with ID 0 are given a fresh
// identity.
func New(pulses []pulse.Pulse, opts ...Option) *Set {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := cfg.Generator
	if gen == nil {
		gen = pulse.NewIDGenerator()
	}

	s := &Set{
		pulses: slices.Clone(pulses),
		gen:    gen,
		log:    logging.OrDiscard(cfg.Logger),
		opts:   cfg,
	}

	// 2) Observe explicit identities before assigning any fresh ones.
	s.adopt(s.pulses)
	slices.SortFunc(s.pulses, pulse.Compare)

	return s
}

// adopt registers ids on the generator and fills in unassigned ones.
func (s *Set) adopt(ps []pulse.Pulse) {
	for _, p := range ps {
		if p.ID != 0 {
			s.gen.Observe(p.ID)
		}
	}
	for i := range ps {
		if ps[i].ID == 0 {
			ps[i].ID = s.gen.Next()
		}
	}
}

// Len returns the number of pulses currently held.
func (s *Set) Len() int { return len(s.pulses) }

// Pulses returns a copy of the pulses in (Start, ID) order. The set is not
// reduced first; call Reduce when non-overlap matters.
func (s *Set) Pulses() []pulse.Pulse { return slices.Clone(s.pulses) }

// Generator returns the identity source used for combined segments.
func (s *Set) Generator() *pulse.IDGenerator { return s.gen }

// Stats returns counters from the most recent Reduce. A set that was already
// non-overlapping reports Input == Output and zero combines.
func (s *Set) Stats() ReduceStats { return s.stats }

// Add inserts pulses and invalidates the cached reduced flag.
func (s *Set) Add(ps ...pulse.Pulse) {
	if len(ps) == 0 {
		return
	}
	added := slices.Clone(ps)
	s.adopt(added)
	s.pulses = append(s.pulses, added...)
	slices.SortFunc(s.pulses, pulse.Compare)
	s.known = false
}

// HasIntersections reports whether any two pulses overlap.
// The answer is cached until the next mutation.
//
// Complexity: O(n) on a cache miss.
func (s *Set) HasIntersections() bool {
	if !s.known {
		_, _, found := firstOverlap(s.pulses)
		s.reduced = !found
		s.known = true
	}

	return !s.reduced
}

// Reduced reports whether the set is free of overlaps.
func (s *Set) Reduced() bool { return !s.HasIntersections() }

// Energy returns Σ Power·Duration over the reduced set, reducing first if
// needed. An empty set has zero energy.
func (s *Set) Energy() (float64, error) {
	if err := s.Reduce(); err != nil {
		return 0, err
	}

	var total float64
	for _, p := range s.pulses {
		total += p.Energy()
	}

	return total, nil
}

// String lists the pulses one per line.
func (s *Set) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PulseSet(%d pulses, reduced=%t)", len(s.pulses), s.Reduced())
	for _, p := range s.pulses {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}

	return b.String()
}

// firstOverlap scans a slice sorted by (Start, ID) and returns the first
// adjacent overlapping pair. Checking neighbours is enough: in sorted order
// any overlap implies an overlapping adjacent pair.
func firstOverlap(sorted []pulse.Pulse) (a, b pulse.Pulse, found bool) {
	for i := 1; i < len(sorted); i++ {
		if pulse.Intersects(sorted[i-1], sorted[i]) {
			return sorted[i-1], sorted[i], true
		}
	}

	return pulse.Pulse{}, pulse.Pulse{}, false
}
