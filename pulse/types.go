package pulse

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the overlap tolerance in seconds. Two pulses overlap only when the
// earlier one extends past the later one's start by more than Epsilon; this
// absorbs floating round-off from the upstream simulator.
const Epsilon = 1e-20

// MaxID is the largest identity a pulse may carry. math.MaxUint64 is
// reserved so that the generator can always step past an observed id.
const MaxID = math.MaxUint64 - 1

// Sentinel errors for pulse operations.
var (
	// ErrWavelengthMismatch indicates an attempt to superpose pulses on different carriers.
	ErrWavelengthMismatch = errors.New("pulse: cannot combine pulses of different wavelengths")

	// ErrNegativePower indicates a pulse with Power < 0.
	ErrNegativePower = errors.New("pulse: power must be non-negative")

	// ErrNegativeDuration indicates a pulse with Duration < 0.
	ErrNegativeDuration = errors.New("pulse: duration must be non-negative")

	// ErrNonFinite indicates a NaN or infinite field value.
	ErrNonFinite = errors.New("pulse: field is NaN or infinite")

	// ErrNilGenerator indicates that an operation requiring fresh identities got a nil IDGenerator.
	ErrNilGenerator = errors.New("pulse: id generator is nil")

	// ErrReservedID indicates an identity above MaxID.
	ErrReservedID = errors.New("pulse: id is reserved")

	// ErrIDSpaceExhausted indicates that every identity up to MaxID is taken.
	ErrIDSpaceExhausted = errors.New("pulse: id space exhausted")
)

// Pulse is one optical pulse. Values are immutable by convention: operations
// return new pulses instead of modifying their inputs.
//
// JSON tags follow the trace column names (id, t, tau, phi, lambda, P).
type Pulse struct {
	ID         uint64  `json:"id"`     // unique identity, never reused
	Start      float64 `json:"t"`      // start time (s)
	Duration   float64 `json:"tau"`    // duration (s), ≥ 0
	Phase      float64 `json:"phi"`    // phase (rad)
	Wavelength float64 `json:"lambda"` // carrier wavelength (m)
	Power      float64 `json:"P"`      // optical power (W), ≥ 0
}

// New returns a pulse carrying a fresh identity drawn from gen.
// Panics if gen is nil.
func New(gen *IDGenerator, power, duration, phase, start, wavelength float64) Pulse {
	if gen == nil {
		panic(ErrNilGenerator.Error())
	}
	return Pulse{
		ID:         gen.Next(),
		Start:      start,
		Duration:   duration,
		Phase:      phase,
		Wavelength: wavelength,
		Power:      power,
	}
}

// End returns Start + Duration.
func (p Pulse) End() float64 { return p.Start + p.Duration }

// Energy returns Power * Duration (J).
func (p Pulse) Energy() float64 { return p.Power * p.Duration }

// Validate reports whether the pulse satisfies the data-model constraints.
// The returned error wraps one of ErrNonFinite, ErrNegativePower,
// ErrNegativeDuration or ErrReservedID.
func (p Pulse) Validate() error {
	if p.ID > MaxID {
		return fmt.Errorf("%w: %d", ErrReservedID, p.ID)
	}
	for _, v := range [...]float64{p.Start, p.Duration, p.Phase, p.Wavelength, p.Power} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: pulse %d", ErrNonFinite, p.ID)
		}
	}
	if p.Power < 0 {
		return fmt.Errorf("%w: pulse %d has P=%g", ErrNegativePower, p.ID, p.Power)
	}
	if p.Duration < 0 {
		return fmt.Errorf("%w: pulse %d has tau=%g", ErrNegativeDuration, p.ID, p.Duration)
	}

	return nil
}

// String renders the pulse in the same field order as the simulator log.
func (p Pulse) String() string {
	return fmt.Sprintf("t=%g, P=%g, tau=%g, phi=%g, lambda=%g, id=%d",
		p.Start, p.Power, p.Duration, p.Phase, p.Wavelength, p.ID)
}

// IDGenerator hands out monotonically increasing pulse identities.
// The zero ID is reserved for "not assigned", so the first identity is 1.
// An IDGenerator is owned by one ingest / pulse set and is not safe for
// concurrent use.
type IDGenerator struct {
	next uint64
}

// NewIDGenerator returns a generator whose first identity is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

// Next returns a fresh identity.
// Panics with ErrIDSpaceExhausted once MaxID has been handed out or observed.
func (g *IDGenerator) Next() uint64 {
	if g.next == 0 {
		g.next = 1
	}
	if g.next > MaxID {
		panic(ErrIDSpaceExhausted.Error())
	}
	id := g.next
	g.next++

	return id
}

// Observe records an explicitly supplied identity so that later calls to Next
// never return it (or anything below it). Ids above MaxID saturate the
// generator instead of wrapping.
func (g *IDGenerator) Observe(id uint64) {
	if id < g.next {
		return
	}
	if id >= MaxID {
		g.next = math.MaxUint64
		return
	}
	g.next = id + 1
}

// Peek returns the identity the next call to Next would return.
func (g *IDGenerator) Peek() uint64 {
	if g.next == 0 {
		return 1
	}

	return g.next
}
