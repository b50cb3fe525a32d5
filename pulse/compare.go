package pulse

// Compare orders pulses by (Start, ID). It returns -1 if a sorts before b,
// +1 if after, and 0 only when both keys are equal (the same identity).
func Compare(a, b Pulse) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}

	return 0
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Pulse) bool { return Compare(a, b) < 0 }

// Ordered returns its arguments sorted by (Start, ID).
func Ordered(a, b Pulse) (first, second Pulse) {
	if Less(b, a) {
		return b, a
	}

	return a, b
}

// Intersects reports whether a and b overlap by more than Epsilon.
// The predicate is symmetric: with A the earlier-starting pulse,
// it is true iff A.End() − B.Start > Epsilon.
func Intersects(a, b Pulse) bool {
	if a.Start <= b.Start && a.End()-b.Start > Epsilon {
		return true
	}
	if b.Start <= a.Start && b.End()-a.Start > Epsilon {
		return true
	}

	return false
}
