// Package vcd reads the Value Change Dump files written by the SPECS
// photonic circuit simulator and turns them into tables of probe and
// detector signals.
//
// 🚀 What is parsed
//
//	$timescale, $scope/$upscope, $var and $enddefinitions in the header;
//	#tick, scalar (0!), vector (b101 !) and real (r1.5e-3 !) changes in the
//	body. Other sections ($date, $version, $comment) are skipped.
//
// ✨ Extract
//
//	The simulator places every probe and photodetector as a scope under the
//	"SystemC" top scope. A probe scope holds only wavelength, power, abs,
//	phase, real and imag signals (multi-wavelength probes suffix them with
//	"@<λ>"). A detector scope holds only readout and readout_no_interference.
//	Extract merges the change lists of each group into one Table keyed by
//	time, forward-filling gaps, or keyed by wavelength for a frequency
//	sweep, interpolating gaps.
//
// ⚙️ Usage:
//
//	dump, err := vcd.ParseFile("traces/run.vcd")
//	tables, err := dump.Extract()
//	p, err := tables.Detectors.Lookup("ROOT/pdet/readout", 1.5e-9)
package vcd
