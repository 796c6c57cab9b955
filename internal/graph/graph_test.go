package graph

import (
	"errors"
	"testing"

	"github.com/cltvscan/cltvscan/internal/model"
)

// lineNetwork builds n1-n2-...-nN in a line, every node with the given
// timelock delta.
func lineNetwork(t *testing.T, count int, delta uint32) *Network {
	t.Helper()

	n := New(700_000)
	ids := []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8"}
	if count > len(ids) {
		t.Fatalf("lineNetwork supports at most %d nodes", len(ids))
	}

	for i := range count {
		n.AddNode(model.NewNode(ids[i], "Node "+ids[i], delta))
	}
	for i := range count - 1 {
		n.AddChannel(model.NewChannel("chan"+ids[i], ids[i], ids[i+1], 1_000_000))
	}
	return n
}

// TestAddNode tests node insertion and lookup.
func TestAddNode(t *testing.T) {
	t.Parallel()

	n := New(700_000)
	n.AddNode(model.NewNode("key1", "Node One", 40))

	if n.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", n.NodeCount())
	}

	node, ok := n.Node("key1")
	if !ok {
		t.Fatal("expected node key1 to exist")
	}
	if node.Alias != "Node One" || node.CLTVDelta != 40 {
		t.Errorf("unexpected node: %+v", node)
	}

	if _, ok := n.Node("missing"); ok {
		t.Error("expected unknown node lookup to fail")
	}
}

// TestAddChannelSymmetry tests the adjacency symmetry invariant.
func TestAddChannelSymmetry(t *testing.T) {
	t.Parallel()

	n := New(700_000)
	n.AddNode(model.NewNode("key1", "Node One", 40))
	n.AddNode(model.NewNode("key2", "Node Two", 40))
	n.AddChannel(model.NewChannel("chan1", "key1", "key2", 1_000_000))

	if n.ChannelCount() != 1 {
		t.Errorf("ChannelCount() = %d, want 1", n.ChannelCount())
	}
	if !n.HasChannel("key1", "key2") {
		t.Error("expected key2 in key1's neighbor list")
	}
	if !n.HasChannel("key2", "key1") {
		t.Error("expected key1 in key2's neighbor list")
	}
}

// TestNeighborsReturnsCopy tests that callers cannot corrupt adjacency.
func TestNeighborsReturnsCopy(t *testing.T) {
	t.Parallel()

	n := lineNetwork(t, 3, 40)

	neighbors := n.Neighbors("n2")
	if len(neighbors) != 2 {
		t.Fatalf("Neighbors(n2) = %v, want 2 entries", neighbors)
	}

	neighbors[0] = "corrupted"
	if fresh := n.Neighbors("n2"); fresh[0] == "corrupted" {
		t.Error("mutating the returned slice corrupted the adjacency map")
	}

	if got := n.Neighbors("missing"); got != nil {
		t.Errorf("Neighbors(missing) = %v, want nil", got)
	}
}

// TestAlias tests alias resolution with graceful fallback.
func TestAlias(t *testing.T) {
	t.Parallel()

	n := New(700_000)
	n.AddNode(model.NewNode("key1", "Carol", 40))

	if got := n.Alias("key1"); got != "Carol" {
		t.Errorf("Alias(key1) = %q, want Carol", got)
	}
	if got := n.Alias("stranger"); got != "stranger" {
		t.Errorf("Alias(stranger) = %q, want the identifier itself", got)
	}
}

// TestSimplePaths tests the unconstrained path enumeration between two
// named endpoints.
func TestSimplePaths(t *testing.T) {
	t.Parallel()

	t.Run("line graph has exactly one path", func(t *testing.T) {
		t.Parallel()

		n := lineNetwork(t, 4, 20)
		paths, err := n.SimplePaths("n1", "n4", 5)
		if err != nil {
			t.Fatalf("SimplePaths() error = %v", err)
		}
		if len(paths) != 1 {
			t.Fatalf("SimplePaths() = %v, want exactly one path", paths)
		}
		want := model.CandidateRoute{"n1", "n2", "n3", "n4"}
		if !equalRoute(paths[0], want) {
			t.Errorf("SimplePaths()[0] = %v, want %v", paths[0], want)
		}
	})

	t.Run("hop ceiling cuts long paths", func(t *testing.T) {
		t.Parallel()

		n := lineNetwork(t, 4, 20)
		paths, err := n.SimplePaths("n1", "n4", 2)
		if err != nil {
			t.Fatalf("SimplePaths() error = %v", err)
		}
		if len(paths) != 0 {
			t.Errorf("SimplePaths() = %v, want none under a 2-hop ceiling", paths)
		}
	})

	t.Run("unknown endpoint is an input error", func(t *testing.T) {
		t.Parallel()

		n := lineNetwork(t, 3, 20)
		if _, err := n.SimplePaths("n1", "ghost", 5); !errors.Is(err, ErrUnknownNode) {
			t.Errorf("SimplePaths() error = %v, want ErrUnknownNode", err)
		}
		if _, err := n.SimplePaths("ghost", "n1", 5); !errors.Is(err, ErrUnknownNode) {
			t.Errorf("SimplePaths() error = %v, want ErrUnknownNode", err)
		}
	})

	t.Run("diamond graph finds both paths", func(t *testing.T) {
		t.Parallel()

		n := New(700_000)
		for _, id := range []string{"a", "b", "c", "d"} {
			n.AddNode(model.NewNode(id, "", 20))
		}
		n.AddChannel(model.NewChannel("1", "a", "b", 1))
		n.AddChannel(model.NewChannel("2", "a", "c", 1))
		n.AddChannel(model.NewChannel("3", "b", "d", 1))
		n.AddChannel(model.NewChannel("4", "c", "d", 1))

		paths, err := n.SimplePaths("a", "d", 3)
		if err != nil {
			t.Fatalf("SimplePaths() error = %v", err)
		}
		if len(paths) != 2 {
			t.Errorf("SimplePaths() returned %d paths, want 2: %v", len(paths), paths)
		}
	})
}

// equalRoute compares two routes element-wise.
func equalRoute(a, b model.CandidateRoute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsRoute reports whether routes contains an element equal to want.
func containsRoute(routes []model.CandidateRoute, want model.CandidateRoute) bool {
	for _, r := range routes {
		if equalRoute(r, want) {
			return true
		}
	}
	return false
}
