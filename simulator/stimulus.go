package simulator

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
)

var (
	// ErrBadWidth indicates a value width outside 1..64 bits.
	ErrBadWidth = errors.New("simulator: bits per value must be in 1..64")

	// ErrBadIndex indicates a non-positive effective index.
	ErrBadIndex = errors.New("simulator: effective index must be positive")
)

// Bitstream returns n uniformly random bits.
func Bitstream(rng *rand.Rand, n int) []uint8 {
	bits := make([]uint8, n)
	for i := range bits {
		bits[i] = uint8(rng.IntN(2))
	}
	return bits
}

// XOR differentially encodes bits: out[i] = bits[i] ^ bits[i-1], with a
// leading 0.
func XOR(bits []uint8) []uint8 {
	out := make([]uint8, len(bits))
	var prev uint8
	for i, b := range bits {
		out[i] = b ^ prev
		prev = b
	}
	return out
}

// Values packs bits MSB-first into width-bit values. A trailing partial
// group is completed with pad bits.
func Values(bits []uint8, width int, pad uint8) ([]uint64, error) {
	if width < 1 || width > 64 {
		return nil, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	n := (len(bits) + width - 1) / width
	values := make([]uint64, n)
	for i := range values {
		var v uint64
		for k := i * width; k < (i+1)*width; k++ {
			b := pad
			if k < len(bits) {
				b = bits[k]
			}
			v = v<<1 | uint64(b&1)
		}
		values[i] = v
	}
	return values, nil
}

// WriteValues writes values space-separated, the value-file format the
// simulator's sources read.
func WriteValues(w io.Writer, values []uint64) error {
	buf := make([]byte, 0, 4*len(values)+1)
	for i, v := range values {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendUint(buf, v, 10)
	}
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

// WaveguideLength returns the length of waveguide that shifts the phase by
// phi at the given wavelength and effective index. phi is taken modulo 2π,
// and a multiple of 2π asks for one full turn rather than zero length.
func WaveguideLength(phi, wavelength, neff float64) (float64, error) {
	if !(neff > 0) {
		return 0, fmt.Errorf("%w: %g", ErrBadIndex, neff)
	}
	phi = math.Mod(phi, 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	if phi == 0 {
		phi = 2 * math.Pi
	}

	return phi * wavelength / (2 * math.Pi * neff), nil
}
