// Package simulator drives the SPECS photonic circuit simulator and builds
// the stimulus files it consumes.
//
// Run executes the simulator binary on a netlist and reports exit code,
// captured output and wall time. The VCD file it writes is read back with
// package vcd, and detector traces with package trace.
//
// The stimulus helpers produce random bit streams, optionally differentially
// encoded with XOR, packed into n-bit values and written as a
// space-separated value file. WaveguideLength sizes a delay line for a
// given phase shift.
package simulator
