// Package pulsetrace analyzes detector traces from the SPECS photonic event
// simulator: trains of time-tagged, constant-amplitude optical pulses that
// may overlap arbitrarily.
//
// 🚀 What does it do?
//
//	Power at an instant is not the sum of the overlapping pulse powers: the
//	fields interfere. pulsetrace replaces every temporal overlap with the
//	coherent (complex-amplitude) sum, leaving an equivalent set of strictly
//	non-overlapping pulses whose energy and power waveform are well defined.
//
// ✨ Packages:
//
//	pulse/      the pulse record, (Start, ID) ordering, overlap test, coherent combiner
//	pulseset/   ordered pulse collection and the heap-driven overlap reducer
//	waveform/   fixed-step and exact step rendering, waveform comparison
//	dtw/        Dynamic Time Warping distance between two power series
//	trace/      detector-trace CSV reader and writer
//	export/     waveform writers: csv, json, Arrow IPC
//	snapshot/   versioned pulse-set snapshots, JSON files or SQLite
//	simulator/  simulator invocation and stimulus value files
//	vcd/        simulator VCD dumps to probe and detector tables
//	topology/   circuit descriptions, connected components, Graphviz DOT
//
// The command-line tool lives in cmd/pulsetrace:
//
//	pulsetrace reduce trace.csv -o reduced.csv
//	pulsetrace energy trace.csv
//	pulsetrace waveform trace.csv --dt 1e-12 -f arrow -o power.arrow
//
//	go install github.com/katalvlaran/pulsetrace/cmd/pulsetrace@latest
package pulsetrace
