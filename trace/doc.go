// Package trace reads and writes pulse traces in CSV form.
//
// A trace has a header row naming the columns and one pulse per record:
//
//	id,t (s),tau (s),phi (rad),lambda (m),P (W)
//	1,0,1e-09,0,1.55e-06,0.001
//	2,5e-10,1e-09,0,1.55e-06,0.001
//
// Column names are case-insensitive and may carry a unit in parentheses.
// The id column is optional; records without an id get a fresh one that
// never collides with an explicit id elsewhere in the trace.
//
// Malformed records are reported as *RecordError with the offending line and
// field. With WithPolicy(Skip) they are logged and counted instead.
package trace
