package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/katalvlaran/pulsetrace/pulseset"
	"github.com/katalvlaran/pulsetrace/topology"
	"github.com/katalvlaran/pulsetrace/trace"
	"github.com/katalvlaran/pulsetrace/waveform"
)

const (
	defaultPulseLimit = 100
	defaultMaxPoints  = 1000
)

var errNoPath = errors.New("path is required")

// loadSet reads and reduces the trace named by in.
func (s *Server) loadSet(in TraceInput) (*trace.Result, *pulseset.Set, error) {
	if in.Path == "" {
		return nil, nil, errNoPath
	}

	opts := []trace.Option{trace.WithLogger(s.log)}
	if in.SkipMalformed || s.settings.Analysis.SkipMalformed {
		opts = append(opts, trace.WithPolicy(trace.Skip))
	}
	override := in.OverrideWavelength
	if override <= 0 {
		override = s.settings.Analysis.OverrideWavelength
	}
	if override > 0 {
		opts = append(opts, trace.WithWavelengthOverride(override))
	}

	res, err := trace.ReadFile(in.Path, opts...)
	if err != nil {
		return nil, nil, err
	}

	setOpts := []pulseset.Option{pulseset.WithLogger(s.log)}
	if s.settings.Analysis.MaxSteps > 0 {
		setOpts = append(setOpts, pulseset.WithMaxSteps(s.settings.Analysis.MaxSteps))
	}
	set := res.Set(setOpts...)
	if err := set.Reduce(); err != nil {
		return nil, nil, fmt.Errorf("reducing %s: %w", in.Path, err)
	}

	return res, set, nil
}

func (s *Server) handleReduce(ctx context.Context, req *sdk.CallToolRequest, args ReduceInput) (*sdk.CallToolResult, ReduceOutput, error) {
	res, set, err := s.loadSet(args.TraceInput)
	if err != nil {
		return nil, ReduceOutput{}, err
	}
	energy, err := set.Energy()
	if err != nil {
		return nil, ReduceOutput{}, err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultPulseLimit
	}
	pulses := set.Pulses()
	out := ReduceOutput{
		Records:  res.Records,
		Skipped:  res.Skipped,
		Combines: set.Stats().Combines,
		Count:    len(pulses),
		Energy:   energy,
	}
	if len(pulses) > limit {
		pulses, out.Truncated = pulses[:limit], true
	}
	out.Pulses = pulses

	return nil, out, nil
}

func (s *Server) handleEnergy(ctx context.Context, req *sdk.CallToolRequest, args EnergyInput) (*sdk.CallToolResult, EnergyOutput, error) {
	_, set, err := s.loadSet(args.TraceInput)
	if err != nil {
		return nil, EnergyOutput{}, err
	}
	energy, err := set.Energy()
	if err != nil {
		return nil, EnergyOutput{}, err
	}

	return nil, EnergyOutput{Energy: energy, Pulses: set.Len()}, nil
}

func (s *Server) handleWaveform(ctx context.Context, req *sdk.CallToolRequest, args WaveformInput) (*sdk.CallToolResult, WaveformOutput, error) {
	_, set, err := s.loadSet(args.TraceInput)
	if err != nil {
		return nil, WaveformOutput{}, err
	}

	dt := args.DT
	if dt <= 0 {
		dt = s.settings.Analysis.DT
	}
	var opts []waveform.Option
	tmax := args.TMax
	if tmax <= 0 {
		tmax = s.settings.Analysis.TMax
	}
	if tmax > 0 {
		opts = append(opts, waveform.WithTMax(tmax))
	}

	wf, err := waveform.Sampled(set, dt, opts...)
	if err != nil {
		return nil, WaveformOutput{}, err
	}

	energy, err := set.Energy()
	if err != nil {
		return nil, WaveformOutput{}, err
	}

	out := WaveformOutput{
		Samples: wf.Len(),
		Energy:  energy,
		Time:    wf.Time,
		Power:   wf.Power,
	}
	if wf.Len() > 0 {
		out.Peak = slices.Max(wf.Power)
	}
	maxPoints := args.MaxPoints
	if maxPoints <= 0 {
		maxPoints = defaultMaxPoints
	}
	if wf.Len() > maxPoints {
		out.Time, out.Power, out.Truncated = wf.Time[:maxPoints], wf.Power[:maxPoints], true
	}

	return nil, out, nil
}

func (s *Server) handleTopology(ctx context.Context, req *sdk.CallToolRequest, args TopologyInput) (*sdk.CallToolResult, TopologyOutput, error) {
	if args.Path == "" {
		return nil, TopologyOutput{}, errNoPath
	}
	c, err := topology.LoadFile(args.Path)
	if err != nil {
		return nil, TopologyOutput{}, err
	}
	if err := c.Validate(); err != nil {
		return nil, TopologyOutput{}, err
	}
	comps, err := c.Components(ctx)
	if err != nil {
		return nil, TopologyOutput{}, err
	}

	st := c.Stats()
	return nil, TopologyOutput{
		Nets:        st.Nets,
		Elements:    st.Elements,
		Connections: st.Connections,
		NetsByType:  st.NetsByType,
		Unconnected: st.Unconnected,
		Components:  len(comps),
	}, nil
}
