package report

import (
	"sort"
	"time"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
)

// Report is the render-ready view of a correlation run. All node
// references are resolved to aliases at build time so that writers do
// not need access to the network graph.
type Report struct {
	// GeneratedAt is the report creation timestamp.
	GeneratedAt time.Time `json:"generated_at"`

	// BlockHeight is the chain height the analysis ran against.
	BlockHeight uint32 `json:"block_height"`

	// NodeCount is the number of nodes in the analyzed network.
	NodeCount int `json:"node_count"`

	// ChannelCount is the number of channels in the analyzed network.
	ChannelCount int `json:"channel_count"`

	// Observers lists the aliases of the surveillance nodes.
	Observers []string `json:"observers"`

	// Observations is the total number of forwards recorded.
	Observations int `json:"observations"`

	// Payments holds one entry per correlated payment, sorted by
	// payment hash for stable output.
	Payments []PaymentResult `json:"payments"`
}

// PaymentResult is the analysis outcome for a single payment.
type PaymentResult struct {
	// PaymentHash identifies the payment across observers.
	PaymentHash string `json:"payment_hash"`

	// Amount is the forwarded amount in millisatoshi, taken from the
	// representative observation.
	Amount uint64 `json:"amount_msat"`

	// CLTVExpiry is the representative (largest) expiry seen.
	CLTVExpiry uint32 `json:"cltv_expiry"`

	// ObservedBy is the alias of the observer closest to the sender.
	ObservedBy string `json:"observed_by"`

	// Candidates are the suspected recipients, best first.
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a suspected payment recipient with its supporting route.
type Candidate struct {
	// NodeID is the candidate's public key.
	NodeID string `json:"node_id"`

	// Alias is the candidate's human-readable name.
	Alias string `json:"alias"`

	// Confidence is the heuristic score, higher is more likely.
	Confidence float64 `json:"confidence"`

	// Route is the suspected path from observer to candidate,
	// expressed as node aliases.
	Route []string `json:"route"`
}

// TopCandidate returns the best-ranked candidate and true, or the zero
// Candidate and false when the payment produced no candidates.
func (p PaymentResult) TopCandidate() (Candidate, bool) {
	if len(p.Candidates) == 0 {
		return Candidate{}, false
	}
	return p.Candidates[0], true
}

// New builds a Report from a correlation result. The representative
// observation per payment is the one with the largest CLTV expiry,
// matching the selection the correlation engine makes. Payments are
// sorted by hash so repeated runs render identically.
func New(network *graph.Network, observers []string, observations []model.Observation, results map[string][]model.RankedCandidate) *Report {
	representative := make(map[string]model.Observation, len(results))
	for _, obs := range observations {
		best, ok := representative[obs.PaymentHash]
		if !ok || obs.CLTVExpiry > best.CLTVExpiry {
			representative[obs.PaymentHash] = obs
		}
	}

	aliases := make([]string, 0, len(observers))
	for _, id := range observers {
		aliases = append(aliases, network.Alias(id))
	}
	sort.Strings(aliases)

	payments := make([]PaymentResult, 0, len(results))
	for hash, ranked := range results {
		obs := representative[hash]
		payments = append(payments, PaymentResult{
			PaymentHash: hash,
			Amount:      obs.Amount,
			CLTVExpiry:  obs.CLTVExpiry,
			ObservedBy:  network.Alias(obs.ObservedBy),
			Candidates:  resolveCandidates(network, ranked),
		})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentHash < payments[j].PaymentHash
	})

	return &Report{
		GeneratedAt:  time.Now(),
		BlockHeight:  network.BlockHeight(),
		NodeCount:    network.NodeCount(),
		ChannelCount: network.ChannelCount(),
		Observers:    aliases,
		Observations: len(observations),
		Payments:     payments,
	}
}

// resolveCandidates converts ranked candidates into their render-ready
// form, translating route node IDs to aliases.
func resolveCandidates(network *graph.Network, ranked []model.RankedCandidate) []Candidate {
	out := make([]Candidate, 0, len(ranked))
	for _, rc := range ranked {
		route := make([]string, 0, len(rc.Route))
		for _, id := range rc.Route {
			route = append(route, network.Alias(id))
		}
		out = append(out, Candidate{
			NodeID:     rc.NodeID,
			Alias:      rc.Alias,
			Confidence: rc.Confidence,
			Route:      route,
		})
	}
	return out
}
