package pulseset

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/pulsetrace/internal/logging"
	"github.com/katalvlaran/pulsetrace/pulse"
)

// Reduce merges every overlapping pair by coherent summation until no two
// pulses in the set overlap.
//
// Algorithm (sweep over a min-heap keyed by (Start, ID)):
//  1. Pop the two smallest unresolved pulses p and q.
//  2. If they do not intersect, p can never meet a later-starting pulse
//     again: finalize it and push q back.
//  3. Otherwise push back the 1..3 segments of pulse.Combine(p, q).
//  4. Finalize the last remaining pulse.
//  5. Sort the finalized pulses and re-check that none overlap.
//
// A set with no intersections is marked reduced without running the sweep,
// so Reduce is idempotent.
//
// Errors:
//   - pulse.ErrWavelengthMismatch      if overlapping pulses use different carriers.
//   - ErrStepLimitExceeded             if WithMaxSteps was set and exceeded.
//   - ErrReductionInvariantViolation   if step 5 finds a residual overlap.
//
// On error the set keeps its previous contents; no partial output is installed.
//
// Complexity: O((n + k) log(n + k)) for n pulses and k combine steps.
func (s *Set) Reduce() error {
	// 1) Short-circuit sets that are already non-overlapping.
	if !s.HasIntersections() {
		s.stats = ReduceStats{Input: len(s.pulses), Output: len(s.pulses)}
		return nil
	}

	r := &runner{
		gen:      s.gen,
		log:      s.log,
		progress: s.opts.Progress,
		maxSteps: s.opts.MaxSteps,
		total:    len(s.pulses),
		pq:       make(pulseQueue, 0, len(s.pulses)),
		out:      make([]pulse.Pulse, 0, len(s.pulses)),
	}

	s.log.Debug("reducing pulse set", "pulses", r.total)

	// 2) Run the sweep.
	r.init(s.pulses)
	if err := r.process(); err != nil {
		return err
	}

	// 3) Re-check and install.
	return s.install(r)
}

// install sorts the finalized pulses, verifies that none overlap and only
// then replaces the set's contents.
func (s *Set) install(r *runner) error {
	slices.SortFunc(r.out, pulse.Compare)
	if a, b, found := firstOverlap(r.out); found {
		return fmt.Errorf("%w: pulses %d [%g, %g) and %d [%g, %g)",
			ErrReductionInvariantViolation, a.ID, a.Start, a.End(), b.ID, b.Start, b.End())
	}

	s.stats = ReduceStats{
		Input:     r.total,
		Output:    len(r.out),
		Combines:  r.combines,
		Finalized: r.finalized,
	}
	s.pulses = r.out
	s.reduced = true
	s.known = true

	s.log.Debug("pulse set reduced",
		"input", s.stats.Input,
		"output", s.stats.Output,
		"combines", s.stats.Combines)

	return nil
}

// runner holds the mutable state for a single Reduce execution.
type runner struct {
	gen      *pulse.IDGenerator // identity source for combined segments
	log      *slog.Logger       // never nil
	progress ProgressFunc       // optional
	maxSteps int                // 0 = unlimited
	total    int                // pulses at sweep start

	pq  pulseQueue    // unresolved pulses
	out []pulse.Pulse // finalized, mutually non-overlapping pulses

	combines  int
	finalized int
}

// init loads the unresolved pulses into the heap.
func (r *runner) init(ps []pulse.Pulse) {
	r.pq = append(r.pq, ps...)
	heap.Init(&r.pq)
}

// process is the main sweep loop. It stops when at most one pulse is left
// unresolved, and finalizes that pulse.
func (r *runner) process() error {
	for r.pq.Len() > 1 {
		if r.progress != nil {
			r.progress(r.pq.Len(), r.total)
		}

		// 1) Pop the two smallest pulses.
		p := heap.Pop(&r.pq).(pulse.Pulse)
		q := heap.Pop(&r.pq).(pulse.Pulse)

		// 2) Disjoint: p is final, q stays in play.
		if !pulse.Intersects(p, q) {
			r.out = append(r.out, p)
			r.finalized++
			heap.Push(&r.pq, q)
			continue
		}

		// 3) Overlap: replace both with their segments.
		if r.maxSteps > 0 && r.combines >= r.maxSteps {
			return fmt.Errorf("%w: %d steps, %d pulses unresolved",
				ErrStepLimitExceeded, r.combines, r.pq.Len()+2)
		}
		segs, err := pulse.Combine(r.gen, p, q)
		if err != nil {
			return fmt.Errorf("pulseset: combining %d and %d: %w", p.ID, q.ID, err)
		}
		r.combines++
		r.log.Log(context.Background(), logging.LevelTrace, "combine",
			"a", p.ID, "b", q.ID, "segments", len(segs), "unresolved", r.pq.Len()+len(segs))
		for _, seg := range segs {
			heap.Push(&r.pq, seg)
		}
	}

	// 4) The last survivor cannot overlap anything left.
	if r.pq.Len() == 1 {
		r.out = append(r.out, heap.Pop(&r.pq).(pulse.Pulse))
		r.finalized++
	}
	if r.progress != nil {
		r.progress(0, r.total)
	}

	return nil
}

// pulseQueue is a min-heap of pulses ordered by (Start, ID).
type pulseQueue []pulse.Pulse

// Len returns the number of items in the heap.
func (pq pulseQueue) Len() int { return len(pq) }

// Less orders by start time, then identity.
func (pq pulseQueue) Less(i, j int) bool { return pulse.Less(pq[i], pq[j]) }

// Swap swaps two elements in the heap.
func (pq pulseQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
// Called by heap.Push; x must be a pulse.Pulse.
func (pq *pulseQueue) Push(x any) { *pq = append(*pq, x.(pulse.Pulse)) }

// Pop removes and returns the last element; heap.Pop has already moved the minimum there.
func (pq *pulseQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
