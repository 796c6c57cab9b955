package analyzer

import (
	"github.com/cltvscan/cltvscan/internal/model"
)

// Correlate groups observations by payment hash and analyzes the
// observation closest to the recipient in each group.
//
// Among overlapping observers of the same payment, the relay closest to the
// receiver sees the largest absolute expiry, so the observation with the
// numerically largest CLTV expiry is selected as the group's
// representative. Ties are broken arbitrarily. Groups of size one degrade
// to plain single-observation analysis.
//
// The result maps payment hashes to their ranked candidates and includes
// only hashes that produced at least one candidate.
func (a *Analyzer) Correlate(observations []model.Observation) map[string][]model.RankedCandidate {
	groups := make(map[string][]model.Observation)
	for _, obs := range observations {
		groups[obs.PaymentHash] = append(groups[obs.PaymentHash], obs)
	}

	results := make(map[string][]model.RankedCandidate, len(groups))

	for hash, group := range groups {
		representative := group[0]
		for _, obs := range group[1:] {
			if obs.CLTVExpiry > representative.CLTVExpiry {
				representative = obs
			}
		}

		a.logger.Debug("correlating payment",
			"payment_hash", hash,
			"observations", len(group),
			"representative", representative.ObservedBy,
		)

		if candidates := a.Analyze(representative); len(candidates) > 0 {
			results[hash] = candidates
		}
	}

	return results
}
