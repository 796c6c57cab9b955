package surveil

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cltvscan/cltvscan/internal/analyzer"
	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
)

// Operation is one surveillance session over a fixed network snapshot.
//
// Observers are registered up front; observations then accumulate in an
// append-only log until the session is analyzed or cleared. Observations
// reported by nodes outside the observer set are dropped with a log line;
// they model noise, not errors.
type Operation struct {
	// network is the shared graph snapshot for the session.
	network *graph.Network

	// analyzer runs the per-observation and correlation analysis.
	analyzer *analyzer.Analyzer

	// logger receives session events.
	logger *slog.Logger

	// mu serializes every access to observers and log. Appends are
	// single-writer by construction: one mutex, taken for the shortest
	// possible span.
	mu        sync.Mutex
	observers map[string]struct{}
	log       []model.Observation
}

// Option configures an Operation.
type Option func(*Operation)

// WithLogger sets a custom logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Operation) {
		o.logger = logger
	}
}

// WithAnalyzer replaces the default analyzer, allowing custom heuristic
// parameters or scoring concurrency.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(o *Operation) {
		o.analyzer = a
	}
}

// New creates a surveillance Operation over the given network.
func New(network *graph.Network, opts ...Option) *Operation {
	op := &Operation{
		network:   network,
		observers: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(op)
	}

	if op.logger == nil {
		op.logger = slog.Default()
	}
	if op.analyzer == nil {
		op.analyzer = analyzer.New(network, analyzer.WithLogger(op.logger))
	}

	return op
}

// RegisterObserver adds a node to the observer set. The node must exist in
// the network graph: registering a node the attacker does not actually
// control in the topology is a caller error.
func (o *Operation) RegisterObserver(nodeID string) error {
	if _, ok := o.network.Node(nodeID); !ok {
		return fmt.Errorf("register observer %q: %w", nodeID, graph.ErrUnknownNode)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.observers[nodeID]; !ok {
		o.observers[nodeID] = struct{}{}
		o.logger.Info("registered observer", "node", nodeID, "alias", o.network.Alias(nodeID))
	}
	return nil
}

// Observers returns the registered observer node identifiers. The order is
// unspecified.
func (o *Operation) Observers() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, 0, len(o.observers))
	for id := range o.observers {
		out = append(out, id)
	}
	return out
}

// IsObserver reports whether the node is a registered observer.
func (o *Operation) IsObserver(nodeID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.observers[nodeID]
	return ok
}

// Record appends an observation to the session log. Observations from
// nodes that are not registered observers are ignored; it returns whether
// the observation was recorded.
func (o *Operation) Record(obs model.Observation) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.observers[obs.ObservedBy]; !ok {
		o.logger.Debug("ignoring observation from non-observer node",
			"node", obs.ObservedBy,
			"payment_hash", obs.PaymentHash,
		)
		return false
	}

	o.log = append(o.log, obs)
	o.logger.Debug("recorded observation",
		"node", obs.ObservedBy,
		"payment_hash", obs.PaymentHash,
		"cltv_expiry", obs.CLTVExpiry,
		"amount", obs.Amount,
	)
	return true
}

// RecordBatch appends multiple observations and returns how many were
// recorded.
func (o *Operation) RecordBatch(observations ...model.Observation) int {
	recorded := 0
	for _, obs := range observations {
		if o.Record(obs) {
			recorded++
		}
	}
	return recorded
}

// Observations returns a copy of the session log in append order.
func (o *Operation) Observations() []model.Observation {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]model.Observation, len(o.log))
	copy(out, o.log)
	return out
}

// ObservationCount returns the number of recorded observations.
func (o *Operation) ObservationCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.log)
}

// Clear empties the observation log between sessions. The observer set is
// kept.
func (o *Operation) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.log = nil
	o.logger.Info("cleared observation log")
}

// AnalyzeObservation ranks potential recipients for a single observation
// without touching the session log.
func (o *Operation) AnalyzeObservation(obs model.Observation) []model.RankedCandidate {
	return o.analyzer.Analyze(obs)
}

// Run correlates everything recorded so far and returns the ranked
// candidates per payment hash. The log is read under the mutex and the
// analysis itself runs on a copy, so producers may keep appending while an
// analysis is in flight.
func (o *Operation) Run() map[string][]model.RankedCandidate {
	observations := o.Observations()

	o.logger.Info("running surveillance analysis",
		"observations", len(observations),
		"observers", len(o.Observers()),
	)

	return o.analyzer.Correlate(observations)
}
