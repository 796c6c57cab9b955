package timelock

import (
	"github.com/cltvscan/cltvscan/internal/model"
)

// Assessment is the derived, ephemeral result of analyzing one observation's
// timelock value. It is recomputed on demand and never cached.
type Assessment struct {
	// RemainingBudget is the timelock headroom left at observation time,
	// in blocks. Zero means the budget is exhausted.
	RemainingBudget uint32

	// EstimatedFinalDelta is the budget that would remain after reserving
	// the canonical final-hop delta.
	EstimatedFinalDelta uint32

	// CouldBeFinalHop reports whether the remaining budget is consistent
	// with the observer being the last relay before the recipient.
	CouldBeFinalHop bool

	// MaxRemainingHops bounds how many further hops the payment could
	// still traverse, assuming every remaining node charges the minimum
	// delta. Capped by Params.MaxHopEstimate.
	MaxRemainingHops int
}

// RemainingBudget returns the timelock headroom for an observation:
// expiry minus observed height, saturating at zero. An expiry at or below
// the observed height means the budget is exhausted, not that the input is
// malformed.
func RemainingBudget(obs model.Observation) uint32 {
	if obs.CLTVExpiry <= obs.ObservedAtBlock {
		return 0
	}
	return obs.CLTVExpiry - obs.ObservedAtBlock
}

// IsLikelyNearDestination reports whether the observation's remaining
// budget fits within one final-hop delta plus the maximum random padding a
// sender could have added. Payments deeper in a route carry more headroom
// than that.
func IsLikelyNearDestination(obs model.Observation, p Params) bool {
	return RemainingBudget(obs) <= p.FinalHopDelta+p.RandomPadMax
}

// EstimatedFinalDelta returns the budget remaining after reserving the
// canonical final-hop delta, saturating at zero.
func EstimatedFinalDelta(obs model.Observation, p Params) uint32 {
	return saturatingSub(RemainingBudget(obs), p.FinalHopDelta)
}

// CouldBeFinalHop reports whether the excess over the canonical final delta
// is small enough to be explained entirely by sender-added random padding.
func CouldBeFinalHop(obs model.Observation, p Params) bool {
	return EstimatedFinalDelta(obs, p) <= p.RandomPadMax
}

// MaxRemainingHops estimates the largest number of hops the payment could
// still take: the budget left after the final-hop reservation, divided by
// the minimum per-hop delta, capped at p.MaxHopEstimate.
//
// The estimate is monotonically non-decreasing in the remaining budget and
// never exceeds the cap no matter how large the budget grows.
func MaxRemainingHops(obs model.Observation, p Params) int {
	theoretical := int(saturatingSub(RemainingBudget(obs), p.FinalHopDelta) / p.MinPerHopDelta)
	return min(theoretical, p.MaxHopEstimate)
}

// Assess derives the full timelock assessment for one observation.
func Assess(obs model.Observation, p Params) Assessment {
	return Assessment{
		RemainingBudget:     RemainingBudget(obs),
		EstimatedFinalDelta: EstimatedFinalDelta(obs, p),
		CouldBeFinalHop:     CouldBeFinalHop(obs, p),
		MaxRemainingHops:    MaxRemainingHops(obs, p),
	}
}

// saturatingSub returns a-b, or zero when b >= a. Height and delta
// arithmetic saturates rather than underflows: a stale expiry is treated
// as an exhausted budget.
func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
