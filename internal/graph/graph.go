package graph

import (
	"errors"
	"sync"

	"github.com/cltvscan/cltvscan/internal/model"
)

// ErrUnknownNode is returned by operations addressed to a node identifier
// that does not exist in the graph, where an explicit failure is the right
// answer (for example, requesting paths between two named endpoints).
//
// Operations that model an observer's incomplete knowledge (neighbor
// deltas, route enumeration from an unknown start) degrade gracefully
// instead of returning this error.
var ErrUnknownNode = errors.New("unknown node identifier")

// Network is the payment network graph: nodes keyed by identifier, a
// symmetric adjacency map in channel insertion order, the raw channel list,
// and the reference block height for the session.
//
// Invariant: adjacency is symmetric. If B appears in A's neighbor list,
// A appears in B's.
type Network struct {
	mu          sync.RWMutex
	nodes       map[string]model.Node
	channels    []model.Channel
	adjacency   map[string][]string
	blockHeight uint32
}

// New creates an empty Network with the given reference block height.
func New(blockHeight uint32) *Network {
	return &Network{
		nodes:       make(map[string]model.Node),
		adjacency:   make(map[string][]string),
		blockHeight: blockHeight,
	}
}

// AddNode adds a node to the graph. Nodes are immutable once added: adding
// a node with an existing identifier replaces the stored value but leaves
// its adjacency untouched.
func (n *Network) AddNode(node model.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.adjacency[node.ID]; !ok {
		n.adjacency[node.ID] = nil
	}
	n.nodes[node.ID] = node
}

// AddChannel adds a channel and records both directions in the adjacency
// map, preserving the symmetry invariant. Endpoints do not have to exist as
// nodes yet; the graph models an observer's partial view of the network.
func (n *Network) AddChannel(ch model.Channel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.adjacency[ch.Node1] = append(n.adjacency[ch.Node1], ch.Node2)
	n.adjacency[ch.Node2] = append(n.adjacency[ch.Node2], ch.Node1)
	n.channels = append(n.channels, ch)
}

// Node returns the node with the given identifier and whether it exists.
func (n *Network) Node(id string) (model.Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	node, ok := n.nodes[id]
	return node, ok
}

// Neighbors returns a copy of the node's neighbor list in insertion order.
// An unknown node has no neighbors.
func (n *Network) Neighbors(id string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	adj := n.adjacency[id]
	if len(adj) == 0 {
		return nil
	}
	out := make([]string, len(adj))
	copy(out, adj)
	return out
}

// HasChannel reports whether the graph records a channel from one node to
// another. Adjacency is symmetric, so the argument order does not matter.
func (n *Network) HasChannel(from, to string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.hasChannelLocked(from, to)
}

// hasChannelLocked is the lock-free adjacency check used internally by
// operations that already hold the read lock.
func (n *Network) hasChannelLocked(from, to string) bool {
	for _, nb := range n.adjacency[from] {
		if nb == to {
			return true
		}
	}
	return false
}

// NodeIDs returns the identifiers of all nodes in the graph. The order is
// unspecified.
func (n *Network) NodeIDs() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ids := make([]string, 0, len(n.nodes))
	for id := range n.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Channels returns a copy of the channel list.
func (n *Network) Channels() []model.Channel {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]model.Channel, len(n.channels))
	copy(out, n.channels)
	return out
}

// NodeCount returns the number of nodes in the graph.
func (n *Network) NodeCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.nodes)
}

// ChannelCount returns the number of channels in the graph.
func (n *Network) ChannelCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.channels)
}

// BlockHeight returns the session's reference block height.
func (n *Network) BlockHeight() uint32 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.blockHeight
}

// Alias returns the alias of the node with the given identifier, or the
// identifier itself when the node is unknown. Reports and logs prefer
// aliases but must never fail over a gap in network knowledge.
func (n *Network) Alias(id string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if node, ok := n.nodes[id]; ok && node.Alias != "" {
		return node.Alias
	}
	return id
}
