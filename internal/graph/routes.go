package graph

import (
	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/timelock"
)

// searchFrame is one branch of the iterative depth-first search. Each frame
// owns its path copy, so branches never alias each other's state.
type searchFrame struct {
	path model.CandidateRoute
	used uint32
}

// RoutesWithinBudget enumerates candidate routes from start whose
// accumulated per-hop timelock deltas are consistent with the given budget.
//
// The search is a depth-first traversal: descending into a neighbor adds
// that neighbor's configured delta to the consumed budget, or
// p.MinPerHopDelta when the neighbor's delta is unknown. An observer has
// incomplete network knowledge, and assuming the minimum keeps the most
// destinations in play. A branch is pruned once the path length exceeds
// maxHops or the consumed budget exceeds the budget.
//
// A path is emitted as a candidate when it has at least one hop and its
// consumed budget lands in the acceptance window
//
//	[budget − p.FinalHopDelta, budget]
//
// with the lower bound saturating at zero. The window uses the canonical
// final-hop constant, never the true recipient's configured delta: an
// observer cannot know recipient settings in advance, and the heuristic
// deliberately preserves that blind spot. Overlapping candidates sharing a
// prefix are all retained.
//
// The result order is unspecified; callers may rely only on content. An
// unknown start node yields an empty result rather than an error.
func (n *Network) RoutesWithinBudget(start string, budget uint32, maxHops int, p timelock.Params) []model.CandidateRoute {
	n.mu.RLock()
	defer n.mu.RUnlock()

	lower := uint32(0)
	if budget > p.FinalHopDelta {
		lower = budget - p.FinalHopDelta
	}

	var routes []model.CandidateRoute
	stack := []searchFrame{{path: model.CandidateRoute{start}}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(frame.path) > maxHops || frame.used > budget {
			continue
		}

		if len(frame.path) > 1 && frame.used >= lower {
			routes = append(routes, frame.path)
		}

		current := frame.path[len(frame.path)-1]
		for _, neighbor := range n.adjacency[current] {
			if frame.path.Contains(neighbor) {
				continue
			}

			delta := p.MinPerHopDelta
			if node, ok := n.nodes[neighbor]; ok {
				delta = node.CLTVDelta
			}

			next := frame.path.Clone()
			stack = append(stack, searchFrame{
				path: append(next, neighbor),
				used: frame.used + delta,
			})
		}
	}

	return routes
}

// SimplePaths enumerates all simple paths between two named endpoints with
// at most maxHops hops, ignoring timelock budgets entirely. It is used by
// path-generation utilities, not by the analyzer.
//
// Unlike RoutesWithinBudget, addressing an endpoint that does not exist in
// the graph is a caller error and returns ErrUnknownNode.
func (n *Network) SimplePaths(from, to string, maxHops int) ([]model.CandidateRoute, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if _, ok := n.nodes[from]; !ok {
		return nil, ErrUnknownNode
	}
	if _, ok := n.nodes[to]; !ok {
		return nil, ErrUnknownNode
	}

	var paths []model.CandidateRoute
	stack := []searchFrame{{path: model.CandidateRoute{from}}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		current := frame.path[len(frame.path)-1]
		if current == to && len(frame.path) > 1 {
			paths = append(paths, frame.path)
			continue
		}

		if frame.path.Hops() >= maxHops {
			continue
		}

		for _, neighbor := range n.adjacency[current] {
			if frame.path.Contains(neighbor) {
				continue
			}
			next := frame.path.Clone()
			stack = append(stack, searchFrame{path: append(next, neighbor)})
		}
	}

	return paths, nil
}
