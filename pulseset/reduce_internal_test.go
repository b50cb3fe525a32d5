package pulseset

import (
	"container/heap"
	"testing"

	"github.com/katalvlaran/pulsetrace/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstOverlap(t *testing.T) {
	tests := []struct {
		name   string
		in     []pulse.Pulse
		found  bool
		wantID [2]uint64
	}{
		{"empty", nil, false, [2]uint64{}},
		{"touching", []pulse.Pulse{
			{ID: 1, Start: 0, Duration: 1},
			{ID: 2, Start: 1, Duration: 1},
		}, false, [2]uint64{}},
		{"second pair overlaps", []pulse.Pulse{
			{ID: 1, Start: 0, Duration: 1},
			{ID: 2, Start: 2, Duration: 1},
			{ID: 3, Start: 2.5, Duration: 1},
		}, true, [2]uint64{2, 3}},
		{"zero duration then long pulse at same start", []pulse.Pulse{
			{ID: 1, Start: 0, Duration: 0},
			{ID: 2, Start: 0, Duration: 0},
			{ID: 3, Start: 0, Duration: 1},
		}, true, [2]uint64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, found := firstOverlap(tt.in)
			require.Equal(t, tt.found, found)
			if found {
				assert.Equal(t, tt.wantID, [2]uint64{a.ID, b.ID})
			}
		})
	}
}

func TestPulseQueue_PopsInStartIDOrder(t *testing.T) {
	pq := pulseQueue{
		{ID: 5, Start: 2},
		{ID: 3, Start: 1},
		{ID: 1, Start: 2},
		{ID: 4, Start: 0},
	}
	heap.Init(&pq)
	heap.Push(&pq, pulse.Pulse{ID: 2, Start: 1})

	var got []uint64
	for pq.Len() > 0 {
		got = append(got, heap.Pop(&pq).(pulse.Pulse).ID)
	}
	assert.Equal(t, []uint64{4, 2, 3, 1, 5}, got)
}

func TestInstall_RejectsResidualOverlap(t *testing.T) {
	in := []pulse.Pulse{
		{ID: 1, Start: 0, Duration: 2},
		{ID: 2, Start: 3, Duration: 1},
	}
	s := New(in)

	r := &runner{
		total: 2,
		out: []pulse.Pulse{
			{ID: 4, Start: 1, Duration: 2},
			{ID: 3, Start: 0, Duration: 2},
		},
	}
	err := s.install(r)
	require.ErrorIs(t, err, ErrReductionInvariantViolation)
	assert.Contains(t, err.Error(), "pulses 3 [0, 2) and 4 [1, 3)")
	assert.Equal(t, in, s.Pulses(), "no partial output is installed")
}

func TestInstall_CommitsSortedOutput(t *testing.T) {
	s := New(nil)
	r := &runner{
		total:     1,
		combines:  2,
		finalized: 2,
		out: []pulse.Pulse{
			{ID: 9, Start: 5, Duration: 1},
			{ID: 8, Start: 0, Duration: 1},
		},
	}
	require.NoError(t, s.install(r))
	assert.Equal(t, []uint64{8, 9}, []uint64{s.Pulses()[0].ID, s.Pulses()[1].ID})
	assert.True(t, s.Reduced())
	assert.Equal(t, ReduceStats{Input: 1, Output: 2, Combines: 2, Finalized: 2}, s.Stats())
}
