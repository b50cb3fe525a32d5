package dtw

import (
	"fmt"
	"math"
	"slices"
)

// DTW computes the Dynamic Time Warping distance between a and b.
// A nil opts means DefaultOptions().
//
// Recurrence, with D[0][0] = 0 and D[i][0] = D[0][j] = +∞:
//
//	D[i][j] = |a[i-1] − b[j-1]| + min(D[i-1][j]   + SlopePenalty,
//	                                  D[i][j-1]   + SlopePenalty,
//	                                  D[i-1][j-1])
//
// The distance is D[n][m]; it is +Inf when the window makes (n, m)
// unreachable. When opts.ReturnPath is set, the optimal path from (0,0) to
// (n-1, m-1) is returned, preferring diagonal steps on ties.
//
// Errors: ErrEmptyInput, ErrBadInput, ErrPathNeedsMatrix.
//
// Complexity: O(n·m) time; memory depends on MemoryMode.
func DTW(a, b []float64, opts *Options) (float64, []Coord, error) {
	// 1) Resolve options.
	cfg := DefaultOptions()
	if opts != nil {
		cfg = *opts
	}

	// 2) Validate.
	if len(a) == 0 || len(b) == 0 {
		return 0, nil, ErrEmptyInput
	}
	if cfg.Window < -1 {
		return 0, nil, fmt.Errorf("%w: Window=%d", ErrBadInput, cfg.Window)
	}
	if cfg.SlopePenalty < 0 || math.IsNaN(cfg.SlopePenalty) {
		return 0, nil, fmt.Errorf("%w: SlopePenalty=%g", ErrBadInput, cfg.SlopePenalty)
	}
	if cfg.ReturnPath && cfg.MemoryMode != FullMatrix {
		return 0, nil, ErrPathNeedsMatrix
	}
	if slices.ContainsFunc(a, math.IsNaN) || slices.ContainsFunc(b, math.IsNaN) {
		return 0, nil, fmt.Errorf("%w: NaN sample", ErrBadInput)
	}

	// 3) Dispatch on storage strategy.
	switch cfg.MemoryMode {
	case FullMatrix:
		d := fullMatrix(a, b, cfg)
		dist := d[len(a)][len(b)]
		if !cfg.ReturnPath {
			return dist, nil, nil
		}
		if math.IsInf(dist, 1) {
			return dist, nil, nil
		}
		return dist, backtrack(d, cfg.SlopePenalty), nil
	case TwoRows:
		return twoRows(a, b, cfg), nil, nil
	case NoMemory:
		return singleRow(a, b, cfg), nil, nil
	default:
		return 0, nil, fmt.Errorf("%w: %v", ErrBadInput, cfg.MemoryMode)
	}
}

// outside reports whether cell (i, j) falls outside the Sakoe–Chiba band.
func outside(i, j, window int) bool {
	if window < 0 {
		return false
	}
	d := i - j
	if d < 0 {
		d = -d
	}
	return d > window
}

// fullMatrix fills and returns the (n+1)x(m+1) cumulative-cost matrix.
func fullMatrix(a, b []float64, cfg Options) [][]float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)

	d := make([][]float64, n+1)
	for i := range d {
		d[i] = make([]float64, m+1)
	}
	for i := 1; i <= n; i++ {
		d[i][0] = inf
	}
	for j := 1; j <= m; j++ {
		d[0][j] = inf
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if outside(i, j, cfg.Window) {
				d[i][j] = inf
				continue
			}
			cost := math.Abs(a[i-1] - b[j-1])
			d[i][j] = cost + min(d[i-1][j]+cfg.SlopePenalty, d[i][j-1]+cfg.SlopePenalty, d[i-1][j-1])
		}
	}

	return d
}

// twoRows computes D[n][m] keeping only the previous and current rows.
func twoRows(a, b []float64, cfg Options) float64 {
	m := len(b)
	inf := math.Inf(1)

	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if outside(i, j, cfg.Window) {
				curr[j] = inf
				continue
			}
			cost := math.Abs(a[i-1] - b[j-1])
			curr[j] = cost + min(prev[j]+cfg.SlopePenalty, curr[j-1]+cfg.SlopePenalty, prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// singleRow computes D[n][m] in one row; diag carries D[i-1][j-1] across
// the in-place update of row[j-1].
func singleRow(a, b []float64, cfg Options) float64 {
	m := len(b)
	inf := math.Inf(1)

	row := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		row[j] = inf
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = inf
		for j := 1; j <= m; j++ {
			up := row[j]
			if outside(i, j, cfg.Window) {
				row[j] = inf
			} else {
				cost := math.Abs(a[i-1] - b[j-1])
				row[j] = cost + min(up+cfg.SlopePenalty, row[j-1]+cfg.SlopePenalty, diag)
			}
			diag = up
		}
	}

	return row[m]
}

// backtrack walks the filled matrix from (n, m) back to (1, 1) and returns
// the zero-based path in forward order. Ties prefer the diagonal, then the
// vertical step.
func backtrack(d [][]float64, penalty float64) []Coord {
	i, j := len(d)-1, len(d[0])-1
	path := make([]Coord, 0, i+j)

	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}

		switch {
		case i == 1:
			j--
		case j == 1:
			i--
		default:
			diag := d[i-1][j-1]
			up := d[i-1][j] + penalty
			left := d[i][j-1] + penalty
			switch {
			case diag <= up && diag <= left:
				i, j = i-1, j-1
			case up <= left:
				i--
			default:
				j--
			}
		}
	}

	slices.Reverse(path)

	return path
}
