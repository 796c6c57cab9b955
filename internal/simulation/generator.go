package simulation

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/google/uuid"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
)

// ErrTooFewNodes is returned when a topology is requested with fewer nodes
// than the topology shape can support.
var ErrTooFewNodes = errors.New("topology requires at least two nodes")

// Per-node timelock delta distribution. Real networks cluster around a few
// implementation defaults with a long tail of custom settings.
const (
	deltaDefaultA = 40 // most common implementation default
	deltaDefaultB = 34
	deltaDefaultC = 42
	deltaRandMin  = 14
	deltaRandMax  = 50
)

// Channel capacity ranges in millisatoshis.
const (
	ringCapacityBase    = 1_000_000
	ringCapacityJitter  = 5_000_000
	extraCapacityBase   = 500_000
	extraCapacityJitter = 3_000_000
)

// Generator builds synthetic network topologies.
type Generator struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets a custom logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator seeded for reproducible topology shapes.
func NewGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// newNodeID derives a compressed secp256k1 public key in hex, the
// identifier format routing nodes actually publish. The key material
// comes from the seeded source so the same seed regenerates the same
// network, which is what lets a stored session be re-analyzed later.
func (g *Generator) newNodeID() string {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(g.rng.Uint32N(256))
	}
	priv, _ := btcec.PrivKeyFromBytes(seed[:])
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}

// nodeDelta picks a per-hop timelock delta for the i-th node: a rotation of
// common implementation defaults with a random tail.
func (g *Generator) nodeDelta(i int) uint32 {
	switch i % 10 {
	case 0:
		return deltaDefaultA
	case 1:
		return deltaDefaultB
	case 2:
		return deltaDefaultC
	default:
		return deltaRandMin + g.rng.Uint32N(deltaRandMax-deltaRandMin+1)
	}
}

// addNodes creates nodeCount nodes and returns their identifiers in
// creation order. The index order is what keeps downstream random choices
// reproducible; the map-backed graph cannot provide one.
func (g *Generator) addNodes(n *graph.Network, nodeCount int) []string {
	ids := make([]string, 0, nodeCount)
	for i := range nodeCount {
		id := g.newNodeID()
		n.AddNode(model.NewNode(id, fmt.Sprintf("Node %d", i+1), g.nodeDelta(i)))
		ids = append(ids, id)
	}
	return ids
}

// RingNetwork builds a connected ring topology with random cross links and
// returns the node identifiers in creation order.
//
// The ring guarantees reachability; the cross links (about half as many as
// nodes) roughen it into something less regular.
func (g *Generator) RingNetwork(n *graph.Network, nodeCount int) ([]string, error) {
	if nodeCount < 2 {
		return nil, ErrTooFewNodes
	}

	ids := g.addNodes(n, nodeCount)

	for i := range nodeCount {
		n.AddChannel(model.NewChannel(
			uuid.NewString(),
			ids[i],
			ids[(i+1)%nodeCount],
			ringCapacityBase+uint64(g.rng.Uint32N(ringCapacityJitter)),
		))
	}

	extra := nodeCount / 2
	for range extra {
		a := g.rng.IntN(nodeCount)
		b := g.rng.IntN(nodeCount)
		for a == b {
			b = g.rng.IntN(nodeCount)
		}
		n.AddChannel(model.NewChannel(
			uuid.NewString(),
			ids[a],
			ids[b],
			extraCapacityBase+uint64(g.rng.Uint32N(extraCapacityJitter)),
		))
	}

	g.logger.Info("generated ring topology",
		"nodes", nodeCount,
		"channels", n.ChannelCount(),
	)
	return ids, nil
}

// ScaleFreeNetwork builds a scale-free topology by preferential attachment:
// an initial fully-connected cluster, then each new node links to the
// highest-degree existing nodes. Hubs emerge the way they do in the real
// network. Returns the node identifiers in creation order.
func (g *Generator) ScaleFreeNetwork(n *graph.Network, nodeCount, minConnections int) ([]string, error) {
	if nodeCount < 2 {
		return nil, ErrTooFewNodes
	}
	if minConnections < 1 {
		minConnections = 1
	}

	ids := g.addNodes(n, nodeCount)

	initial := min(nodeCount, minConnections)
	for i := range initial {
		for j := i + 1; j < initial; j++ {
			n.AddChannel(model.NewChannel(
				uuid.NewString(),
				ids[i],
				ids[j],
				ringCapacityBase+uint64(g.rng.Uint32N(ringCapacityJitter)),
			))
		}
	}

	for i := initial; i < nodeCount; i++ {
		// Rank existing nodes by current degree, highest first. Stable
		// order on ties keeps the attachment deterministic.
		type degree struct {
			idx     int
			degrees int
		}
		ranked := make([]degree, 0, i)
		for j := range i {
			ranked = append(ranked, degree{idx: j, degrees: len(n.Neighbors(ids[j]))})
		}
		for a := 1; a < len(ranked); a++ {
			for b := a; b > 0 && ranked[b].degrees > ranked[b-1].degrees; b-- {
				ranked[b], ranked[b-1] = ranked[b-1], ranked[b]
			}
		}

		for k := range min(minConnections, i) {
			n.AddChannel(model.NewChannel(
				uuid.NewString(),
				ids[i],
				ids[ranked[k].idx],
				extraCapacityBase+uint64(g.rng.Uint32N(extraCapacityJitter)),
			))
		}
	}

	g.logger.Info("generated scale-free topology",
		"nodes", nodeCount,
		"channels", n.ChannelCount(),
		"min_connections", minConnections,
	)
	return ids, nil
}

// SelectObservers picks count distinct node identifiers from ids at random.
// Fewer than count ids yields all of them, shuffled.
func (g *Generator) SelectObservers(ids []string, count int) []string {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
