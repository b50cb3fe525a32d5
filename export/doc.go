// Package export writes power waveforms in interchange formats.
//
// Writers are looked up by format name in a registry, the same way a CLI
// --format flag selects them:
//
//	err := export.Write("arrow", os.Stdout, wf, export.Meta{"source": "run-7"})
//
// Built-in formats:
//
//	csv    header time_s,power_w; one row per point.
//	json   {"time":[…],"power":[…],"energy":…,"meta":{…}}
//	arrow  Apache Arrow IPC stream, columns time_s and power_w (float64),
//	       Meta stored as schema metadata.
//
// Register adds or replaces a format. Write validates the waveform before
// dispatch, so writers may assume equal-length, non-decreasing series.
package export
