package simulation

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/surveil"
	"github.com/cltvscan/cltvscan/internal/timelock"
)

// ErrNotEnoughNodes is returned when the network is too small to pick a
// distinct sender and receiver.
var ErrNotEnoughNodes = errors.New("not enough nodes to simulate a payment")

// Payment amount range in millisatoshis.
const (
	amountMin = 10_000
	amountMax = 1_000_000
)

// Simulator walks payments through the network and feeds the resulting
// HTLC observations into a surveillance operation.
type Simulator struct {
	network *graph.Network
	op      *surveil.Operation
	params  timelock.Params

	// ids holds node identifiers in creation order. Random choices index
	// into this slice, which is what keeps a seeded run reproducible.
	ids []string

	rng    *rand.Rand
	logger *slog.Logger
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSimulatorLogger sets a custom logger.
func WithSimulatorLogger(logger *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithSimulatorParams overrides the timelock parameters used to construct
// payment expiries. These should match the parameters the analyzer runs
// under, or the simulation measures nothing meaningful.
func WithSimulatorParams(p timelock.Params) SimulatorOption {
	return func(s *Simulator) {
		s.params = p
	}
}

// NewSimulator creates a Simulator over the given network and surveillance
// operation. ids must list the network's node identifiers in a stable
// order; seed drives all random choices.
func NewSimulator(network *graph.Network, op *surveil.Operation, ids []string, seed uint64, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		network: network,
		op:      op,
		params:  timelock.DefaultParams(),
		ids:     ids,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// newPaymentHash derives a payment hash the way the protocol does: the
// double-SHA256 of a random 32-byte preimage.
func (s *Simulator) newPaymentHash() string {
	var preimage [32]byte
	for i := 0; i < len(preimage); i += 8 {
		binary.BigEndian.PutUint64(preimage[i:], s.rng.Uint64())
	}
	return chainhash.HashH(preimage[:]).String()
}

// SimulatePayment walks one payment between a random sender and receiver
// and reports whether any registered observer saw it. A pair with no
// connecting path is skipped, not an error.
func (s *Simulator) SimulatePayment() (bool, error) {
	if len(s.ids) < 2 {
		return false, ErrNotEnoughNodes
	}

	senderIdx := s.rng.IntN(len(s.ids))
	receiverIdx := s.rng.IntN(len(s.ids))
	for receiverIdx == senderIdx {
		receiverIdx = s.rng.IntN(len(s.ids))
	}

	return s.simulateBetween(s.ids[senderIdx], s.ids[receiverIdx])
}

// simulateBetween walks one payment along a path from sender to receiver,
// records observations at every registered observer on the path, and
// reports whether anything was observed.
func (s *Simulator) simulateBetween(sender, receiver string) (bool, error) {
	path := randomizedPath(s.network, s.rng, s.ids, sender, receiver)
	if len(path) < 2 {
		s.logger.Debug("no path between endpoints, skipping payment",
			"sender", sender,
			"receiver", receiver,
		)
		return false, nil
	}

	height := s.network.BlockHeight()
	paymentHash := s.newPaymentHash()
	amount := uint64(amountMin + s.rng.Uint32N(amountMax-amountMin))

	// Shadow offset: the sender pads the final expiry by a random number
	// of blocks to blur exactly the analysis this tool performs.
	pad := s.params.RandomPadMin
	if span := s.params.RandomPadMax - s.params.RandomPadMin; span > 0 {
		pad += s.rng.Uint32N(span)
	}
	finalExpiry := height + s.params.FinalHopDelta + pad

	expiries := s.hopExpiries(path, finalExpiry)

	observed := false
	for i, nodeID := range path {
		if !s.op.IsObserver(nodeID) {
			continue
		}
		obs := model.NewObservation(paymentHash, expiries[i], amount, height, nodeID)
		if s.op.Record(obs) {
			observed = true
		}
	}

	s.logger.Debug("simulated payment",
		"payment_hash", paymentHash,
		"hops", path.Hops(),
		"amount", amount,
		"observed", observed,
	)
	return observed, nil
}

// hopExpiries computes the absolute CLTV expiry the HTLC carries at each
// position along the path. Timelocks are built backwards from the
// recipient: each relay sees the final expiry plus the accumulated deltas
// of the relays from its own position onward. A node with an unknown delta
// is charged the minimum.
func (s *Simulator) hopExpiries(path model.CandidateRoute, finalExpiry uint32) []uint32 {
	expiries := make([]uint32, len(path))
	expiries[len(path)-1] = finalExpiry

	accumulated := uint32(0)
	for i := len(path) - 2; i >= 0; i-- {
		delta := s.params.MinPerHopDelta
		if node, ok := s.network.Node(path[i]); ok {
			delta = node.CLTVDelta
		}
		accumulated += delta
		expiries[i] = finalExpiry + accumulated
	}
	return expiries
}

// SimulatePayments walks count payments and returns how many were seen by
// at least one observer.
func (s *Simulator) SimulatePayments(count int) (int, error) {
	observed := 0
	for range count {
		saw, err := s.SimulatePayment()
		if err != nil {
			return observed, err
		}
		if saw {
			observed++
		}
	}

	s.logger.Info("simulation complete",
		"payments", count,
		"observed", observed,
	)
	return observed, nil
}
