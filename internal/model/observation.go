package model

// Observation records an HTLC forward as seen by one surveillance node.
// It is the raw input to all timelock analysis: a single point-in-time view
// of a payment passing through a relay the observer controls.
//
// An observation whose expiry is at or below the observed height is still
// valid input: it models a payment with an exhausted timelock budget, not
// a malformed record.
type Observation struct {
	// PaymentHash identifies the payment. All HTLCs belonging to one
	// payment share the same hash, which is what makes multi-observer
	// correlation possible.
	PaymentHash string `json:"payment_hash"`

	// CLTVExpiry is the absolute block height at which this HTLC expires.
	CLTVExpiry uint32 `json:"cltv_expiry"`

	// Amount is the forwarded amount in millisatoshis.
	Amount uint64 `json:"amount"`

	// ObservedAtBlock is the chain height at the moment of observation.
	ObservedAtBlock uint32 `json:"observed_at_block"`

	// ObservedBy is the identifier of the surveillance node that saw
	// this HTLC. It must reference a node present in the network graph.
	ObservedBy string `json:"observed_by"`
}

// NewObservation creates an Observation for the given payment hash as seen
// by the named node.
func NewObservation(paymentHash string, cltvExpiry uint32, amount uint64, observedAtBlock uint32, observedBy string) Observation {
	return Observation{
		PaymentHash:     paymentHash,
		CLTVExpiry:      cltvExpiry,
		Amount:          amount,
		ObservedAtBlock: observedAtBlock,
		ObservedBy:      observedBy,
	}
}
