package model

// CandidateRoute is an ordered, cycle-free sequence of node identifiers
// produced by budget-constrained route enumeration. The first element is
// always the observing node and the last element is the hypothesized
// recipient, so a valid candidate has at least two elements.
type CandidateRoute []string

// Terminal returns the final node identifier of the route (the hypothesized
// recipient) and false if the route is too short to have one.
func (r CandidateRoute) Terminal() (string, bool) {
	if len(r) < 2 {
		return "", false
	}
	return r[len(r)-1], true
}

// Hops returns the number of hops in the route (edges, not nodes).
func (r CandidateRoute) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// Contains reports whether the route already visits the given node.
// Route enumeration uses this for per-branch cycle detection: the set of
// visited nodes on a branch is exactly the current path.
func (r CandidateRoute) Contains(id string) bool {
	for _, n := range r {
		if n == id {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the route.
func (r CandidateRoute) Clone() CandidateRoute {
	out := make(CandidateRoute, len(r))
	copy(out, r)
	return out
}

// RankedCandidate pairs a candidate route with its hypothesized recipient
// and a confidence score.
//
// Confidence is an unnormalized, strictly positive value meaningful only
// for ranking candidates produced by the same analysis call. Comparing
// confidences across different observations or parameterizations is
// meaningless.
type RankedCandidate struct {
	// NodeID is the hypothesized recipient (the route's terminal node).
	NodeID string `json:"node_id"`

	// Alias is the recipient's alias if known in the graph, empty otherwise.
	Alias string `json:"alias,omitempty"`

	// Route is the full candidate route from the observing node to the
	// hypothesized recipient.
	Route CandidateRoute `json:"route"`

	// Confidence is the relative ranking score for this candidate.
	Confidence float64 `json:"confidence"`
}
