package analyzer

import (
	"math"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/timelock"
)

// Confidence adjustment factors. The absolute values are heuristic; what
// matters is their relative effect on the ranking within one analysis call.
const (
	// finalHopBonus boosts very short routes when the timelock assessment
	// already says the payment could be on its final hop.
	finalHopBonus = 1.5

	// standardDeltaBonus boosts routes terminating at a node whose
	// configured delta sits within standardDeltaTolerance of the canonical
	// final-hop delta. Default-configured nodes are the common case.
	standardDeltaBonus     = 1.3
	standardDeltaTolerance = 5

	// inconsistencyPenalty collapses the score of a route containing a
	// hop with no recorded channel.
	inconsistencyPenalty = 0.1
)

// ConfidenceScore computes the relative ranking score for one candidate
// route given the observation's timelock assessment and the network graph.
//
// The score starts at 1.0 and is adjusted multiplicatively, in order:
//
//  1. Length penalty: shorter routes are more likely, so the score is
//     divided by the square root of the route length.
//  2. Final-hop bonus: applied when the assessment allows a final hop and
//     the route has at most one hop beyond the observer.
//  3. Standard-delta bonus: applied when the terminal node advertises a
//     near-default timelock delta.
//  4. Consistency penalty: applied once at the first consecutive pair with
//     no channel between them; further pairs are not checked.
//
// The function is pure and reads only immutable graph state, so independent
// routes may be scored concurrently.
func ConfidenceScore(route model.CandidateRoute, a timelock.Assessment, n *graph.Network, p timelock.Params) float64 {
	confidence := 1.0

	confidence *= 1.0 / math.Sqrt(float64(len(route)))

	if a.CouldBeFinalHop && len(route) <= 2 {
		confidence *= finalHopBonus
	}

	if terminal, ok := route.Terminal(); ok {
		if node, found := n.Node(terminal); found {
			diff := int64(node.CLTVDelta) - int64(p.FinalHopDelta)
			if diff < 0 {
				diff = -diff
			}
			if diff <= standardDeltaTolerance {
				confidence *= standardDeltaBonus
			}
		}
	}

	for i := 0; i+1 < len(route); i++ {
		if !n.HasChannel(route[i], route[i+1]) {
			confidence *= inconsistencyPenalty
			break
		}
	}

	return confidence
}
