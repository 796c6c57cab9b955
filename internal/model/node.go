package model

// Node represents a single routing node in the payment network.
// Nodes are immutable once added to a network: the analysis heuristics
// assume a node's advertised timelock delta does not change mid-session.
type Node struct {
	// ID is the node's public identifier. In a real network this is a
	// compressed secp256k1 public key in hex; the core only treats it
	// as an opaque string key.
	ID string `json:"id"`

	// Alias is the node's human-readable name. Aliases are advisory and
	// not unique; they are carried through to reports for readability.
	Alias string `json:"alias"`

	// CLTVDelta is the per-hop timelock delta (in blocks) this node adds
	// to a payment's absolute expiry when forwarding. Typical node
	// implementations default to values between 14 and 144.
	CLTVDelta uint32 `json:"cltv_delta"`
}

// NewNode creates a Node with the given identifier, alias and timelock delta.
func NewNode(id, alias string, cltvDelta uint32) Node {
	return Node{
		ID:        id,
		Alias:     alias,
		CLTVDelta: cltvDelta,
	}
}

// Channel represents a payment channel between two nodes.
// Channels are symmetric: a channel between A and B means payments can be
// forwarded in either direction.
//
// Capacity is carried because topology generators and future heuristics
// need it, but the timelock analysis itself never reads it.
type Channel struct {
	// ID is the channel's unique identifier.
	ID string `json:"id"`

	// Node1 and Node2 are the identifiers of the channel endpoints.
	// The order carries no meaning.
	Node1 string `json:"node1"`
	Node2 string `json:"node2"`

	// Capacity is the channel capacity in millisatoshis.
	Capacity uint64 `json:"capacity"`
}

// NewChannel creates a Channel between two node identifiers.
func NewChannel(id, node1, node2 string, capacity uint64) Channel {
	return Channel{
		ID:       id,
		Node1:    node1,
		Node2:    node2,
		Capacity: capacity,
	}
}
