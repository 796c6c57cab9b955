package simulation

import (
	"math/rand/v2"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
)

// shortestPath finds one shortest path between two nodes with a
// breadth-first search, or nil when no path exists. Payments in the
// simulation mostly follow shortest routes, the way real pathfinding does.
func shortestPath(n *graph.Network, from, to string) model.CandidateRoute {
	if from == to {
		return nil
	}

	visited := map[string]bool{from: true}
	pred := make(map[string]string)
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == to {
			break
		}

		for _, neighbor := range n.Neighbors(current) {
			if !visited[neighbor] {
				visited[neighbor] = true
				pred[neighbor] = current
				queue = append(queue, neighbor)
			}
		}
	}

	if _, ok := pred[to]; !ok {
		return nil
	}

	var path model.CandidateRoute
	for current := to; current != from; current = pred[current] {
		path = append(path, current)
	}
	path = append(path, from)

	// Reconstructed backwards; reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// randomizedPath finds a path from sender to receiver that sometimes routes
// through one or two random intermediate nodes instead of taking the
// shortest route. Real senders do not always pick the shortest path, and
// route diversity is what gives the surveillance heuristics something to
// chew on.
//
// Falls back to the plain shortest path whenever a detour segment cannot be
// completed.
func randomizedPath(n *graph.Network, rng *rand.Rand, ids []string, from, to string) model.CandidateRoute {
	// Most of the time, take a detour; one time in five, go direct.
	if len(ids) < 3 || rng.IntN(5) == 0 {
		return shortestPath(n, from, to)
	}

	intermediates := make([]string, 0, 2)
	want := 1 + rng.IntN(2)
	for range want {
		candidate := ids[rng.IntN(len(ids))]
		if candidate == from || candidate == to {
			continue
		}
		duplicate := false
		for _, existing := range intermediates {
			if existing == candidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			intermediates = append(intermediates, candidate)
		}
	}
	if len(intermediates) == 0 {
		return shortestPath(n, from, to)
	}

	var path model.CandidateRoute
	current := from
	for _, via := range append(intermediates, to) {
		segment := shortestPath(n, current, via)
		if segment == nil {
			return shortestPath(n, from, to)
		}
		if len(path) == 0 {
			path = append(path, segment...)
		} else {
			path = append(path, segment[1:]...)
		}
		current = via
	}

	// Detour segments can revisit a node; such a walk is not a valid
	// payment path, so fall back.
	seen := make(map[string]bool, len(path))
	for _, id := range path {
		if seen[id] {
			return shortestPath(n, from, to)
		}
		seen[id] = true
	}
	return path
}
