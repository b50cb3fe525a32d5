package mcpserver

import "github.com/katalvlaran/pulsetrace/pulse"

// TraceInput selects a detector trace and how to ingest it.
type TraceInput struct {
	Path               string  `json:"path" jsonschema:"Path to a detector trace CSV file"`
	SkipMalformed      bool    `json:"skip_malformed,omitempty" jsonschema:"Drop malformed records instead of failing"`
	OverrideWavelength float64 `json:"override_wavelength,omitempty" jsonschema:"If positive, force every pulse onto this wavelength in metres"`
}

// ReduceInput defines the input for the pulsetrace_reduce tool.
type ReduceInput struct {
	TraceInput
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of reduced pulses to return (default 100)"`
}

// ReduceOutput defines the output for the pulsetrace_reduce tool.
type ReduceOutput struct {
	Records   int           `json:"records" jsonschema:"Accepted trace records"`
	Skipped   int           `json:"skipped" jsonschema:"Malformed records dropped"`
	Combines  int           `json:"combines" jsonschema:"Overlapping pairs merged"`
	Count     int           `json:"count" jsonschema:"Pulses after reduction"`
	Energy    float64       `json:"energy" jsonschema:"Total energy in joules"`
	Pulses    []pulse.Pulse `json:"pulses" jsonschema:"Reduced pulses in start order, truncated to limit"`
	Truncated bool          `json:"truncated" jsonschema:"Whether pulses was cut at limit"`
}

// EnergyInput defines the input for the pulsetrace_energy tool.
type EnergyInput struct {
	TraceInput
}

// EnergyOutput defines the output for the pulsetrace_energy tool.
type EnergyOutput struct {
	Energy float64 `json:"energy" jsonschema:"Total energy in joules after coherent reduction"`
	Pulses int     `json:"pulses" jsonschema:"Pulses after reduction"`
}

// WaveformInput defines the input for the pulsetrace_waveform tool.
type WaveformInput struct {
	TraceInput
	DT        float64 `json:"dt,omitempty" jsonschema:"Sample step in seconds (default from config)"`
	TMax      float64 `json:"tmax,omitempty" jsonschema:"Sampling horizon in seconds (default end of last pulse)"`
	MaxPoints int     `json:"max_points,omitempty" jsonschema:"Maximum samples to return (default 1000)"`
}

// WaveformOutput defines the output for the pulsetrace_waveform tool.
type WaveformOutput struct {
	Samples   int       `json:"samples" jsonschema:"Number of samples on the grid"`
	Peak      float64   `json:"peak" jsonschema:"Largest sampled power in watts"`
	Energy    float64   `json:"energy" jsonschema:"Exact energy of the reduced trace in joules"`
	Time      []float64 `json:"time" jsonschema:"Sample times in seconds"`
	Power     []float64 `json:"power" jsonschema:"Sampled power in watts"`
	Truncated bool      `json:"truncated" jsonschema:"Whether time and power were cut at max_points"`
}

// TopologyInput defines the input for the pulsetrace_topology tool.
type TopologyInput struct {
	Path string `json:"path" jsonschema:"Path to a circuit description JSON file"`
}

// TopologyOutput defines the output for the pulsetrace_topology tool.
type TopologyOutput struct {
	Nets        int            `json:"nets"`
	Elements    int            `json:"elements"`
	Connections int            `json:"connections"`
	NetsByType  map[string]int `json:"nets_by_type"`
	Unconnected []string       `json:"unconnected,omitempty"`
	Components  int            `json:"components" jsonschema:"Number of disconnected sub-circuits"`
}
