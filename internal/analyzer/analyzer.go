package analyzer

import (
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/timelock"
)

// defaultScoreWorkers bounds the scoring fan-out per analysis call. Scoring
// is CPU-bound and cheap; a small fixed limit keeps goroutine churn low on
// the usual candidate counts while still overlapping work on large graphs.
const defaultScoreWorkers = 8

// Analyzer ranks hypothesized recipients for HTLC observations against a
// shared, read-only network graph.
//
// All analysis is a one-shot deterministic computation over the graph
// snapshot and the given observation: nothing is cached and identical
// inputs reproduce identical outputs.
type Analyzer struct {
	// network is the shared graph. The analyzer only reads it.
	network *graph.Network

	// params holds the heuristic constants for assessment and scoring.
	params timelock.Params

	// workers is the scoring concurrency limit per Analyze call.
	workers int

	// logger receives per-analysis debug output.
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithParams overrides the default heuristic parameters.
func WithParams(p timelock.Params) Option {
	return func(a *Analyzer) {
		a.params = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithScoreWorkers sets the scoring concurrency limit. Values below one are
// ignored.
func WithScoreWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// New creates an Analyzer over the given network graph.
func New(network *graph.Network, opts ...Option) *Analyzer {
	a := &Analyzer{
		network: network,
		params:  timelock.DefaultParams(),
		workers: defaultScoreWorkers,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Params returns the heuristic parameters the analyzer runs under.
func (a *Analyzer) Params() timelock.Params {
	return a.params
}

// Analyze ranks the potential recipients of the payment behind one
// observation.
//
// It derives the timelock assessment, enumerates candidate routes from the
// observing node within the assessed budget and hop bound, scores every
// route, and returns the candidates ordered by strictly non-increasing
// confidence (ties broken arbitrarily). A route whose terminal node is
// somehow absent from the graph is skipped silently. An observation that
// yields no candidate routes produces an empty result; that is an answer,
// not an error.
func (a *Analyzer) Analyze(obs model.Observation) []model.RankedCandidate {
	assessment := timelock.Assess(obs, a.params)

	// The hop estimate counts the relays the payment could still traverse
	// before its final hop. The enumerated path additionally contains the
	// observer itself and the recipient, so the path-length bound is the
	// estimate plus two.
	maxPathLen := assessment.MaxRemainingHops + 2

	routes := a.network.RoutesWithinBudget(
		obs.ObservedBy,
		assessment.RemainingBudget,
		maxPathLen,
		a.params,
	)

	a.logger.Debug("analyzing observation",
		"payment_hash", obs.PaymentHash,
		"observed_by", obs.ObservedBy,
		"remaining_budget", assessment.RemainingBudget,
		"max_remaining_hops", assessment.MaxRemainingHops,
		"could_be_final_hop", assessment.CouldBeFinalHop,
		"candidate_routes", len(routes),
	)

	if len(routes) == 0 {
		return nil
	}

	// Score candidates in parallel. Each slot is written by exactly one
	// goroutine and the graph is read-only, so no further coordination is
	// needed. Slots stay nil for routes whose terminal node is unknown.
	scored := make([]*model.RankedCandidate, len(routes))

	var g errgroup.Group
	g.SetLimit(a.workers)

	for i, route := range routes {
		g.Go(func() error {
			terminal, ok := route.Terminal()
			if !ok {
				return nil
			}

			var alias string
			node, known := a.network.Node(terminal)
			if !known {
				return nil
			}
			alias = node.Alias

			scored[i] = &model.RankedCandidate{
				NodeID:     terminal,
				Alias:      alias,
				Route:      route,
				Confidence: ConfidenceScore(route, assessment, a.network, a.params),
			}
			return nil
		})
	}
	// Scoring never produces an error; Wait only synchronizes the workers.
	_ = g.Wait()

	candidates := make([]model.RankedCandidate, 0, len(scored))
	for _, c := range scored {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return candidates
}
