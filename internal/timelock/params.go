package timelock

import "errors"

// Parameter validation errors returned by Params.Validate.
var (
	// ErrZeroFinalHopDelta is returned when the final-hop delta is zero.
	// A zero final delta would make every forwarded HTLC look terminal.
	ErrZeroFinalHopDelta = errors.New("invalid params: final hop delta must be positive")

	// ErrZeroMinPerHopDelta is returned when the per-hop minimum is zero.
	// The hop estimator divides by this value.
	ErrZeroMinPerHopDelta = errors.New("invalid params: minimum per-hop delta must be positive")

	// ErrInvalidPadRange is returned when the random padding bounds are
	// inverted (min greater than max).
	ErrInvalidPadRange = errors.New("invalid params: random pad min exceeds max")

	// ErrZeroMaxHopEstimate is returned when the hop estimate cap is zero.
	ErrZeroMaxHopEstimate = errors.New("invalid params: max hop estimate must be positive")
)

// Params holds the heuristic constants consumed by the timelock model and
// the route confidence scorer.
//
// The defaults reflect values commonly advertised by real node
// implementations, which is exactly why they are useful to an observer: a
// payment built with default settings leaks a predictable timelock shape.
type Params struct {
	// FinalHopDelta is the canonical delta a recipient requires on the
	// final hop. Route enumeration and final-hop detection use this fixed
	// value rather than the true recipient's configured delta, since an
	// observer cannot know recipient settings in advance, and the
	// heuristic deliberately preserves that blind spot.
	FinalHopDelta uint32 `yaml:"final_hop_delta"`

	// MinPerHopDelta is the smallest per-hop delta seen in practice. It
	// doubles as the fallback when a node's delta is unknown, and as the
	// divisor for the most-hops-possible estimate.
	MinPerHopDelta uint32 `yaml:"min_per_hop_delta"`

	// RandomPadMin and RandomPadMax bound the random shadow offset sender
	// implementations add to the final expiry to frustrate exactly this
	// kind of analysis.
	RandomPadMin uint32 `yaml:"random_pad_min"`
	RandomPadMax uint32 `yaml:"random_pad_max"`

	// MaxHopEstimate caps the remaining-hops bound. Deep searches past a
	// handful of hops explode combinatorially without improving the
	// ranking, so the estimate is clamped.
	MaxHopEstimate int `yaml:"max_hop_estimate"`
}

// DefaultParams returns the heuristic constants used when no scenario file
// overrides them. The final delta of 40 and the 3x padding ceiling match
// widespread node defaults; 14 is the minimum per-hop delta observed in the
// wild.
func DefaultParams() Params {
	const finalHopDelta = 40
	return Params{
		FinalHopDelta:  finalHopDelta,
		MinPerHopDelta: 14,
		RandomPadMin:   0,
		RandomPadMax:   3 * finalHopDelta,
		MaxHopEstimate: 5,
	}
}

// Validate reports whether the parameter set is internally consistent.
func (p Params) Validate() error {
	if p.FinalHopDelta == 0 {
		return ErrZeroFinalHopDelta
	}
	if p.MinPerHopDelta == 0 {
		return ErrZeroMinPerHopDelta
	}
	if p.RandomPadMin > p.RandomPadMax {
		return ErrInvalidPadRange
	}
	if p.MaxHopEstimate <= 0 {
		return ErrZeroMaxHopEstimate
	}
	return nil
}
