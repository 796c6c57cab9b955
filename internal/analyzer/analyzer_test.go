package analyzer

import (
	"testing"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/timelock"
)

// lineNetwork builds n1-n2-n3-n4 in a line, every node with delta 20.
func lineNetwork() *graph.Network {
	n := graph.New(700_000)
	ids := []string{"n1", "n2", "n3", "n4"}
	for _, id := range ids {
		n.AddNode(model.NewNode(id, "Node "+id, 20))
	}
	for i := range len(ids) - 1 {
		n.AddChannel(model.NewChannel("chan"+ids[i], ids[i], ids[i+1], 1_000_000))
	}
	return n
}

// TestAnalyzeRanksNextHopRecipient tests the end-to-end scenario: an
// observation at n2 with a remaining budget of 40 must identify n3 as the
// top candidate with confidence above 0.5.
func TestAnalyzeRanksNextHopRecipient(t *testing.T) {
	t.Parallel()

	n := lineNetwork()
	a := New(n)

	obs := model.NewObservation("payment-1", 700_040, 100_000, 700_000, "n2")
	candidates := a.Analyze(obs)

	if len(candidates) == 0 {
		t.Fatal("expected candidates, got none")
	}

	top := candidates[0]
	if top.NodeID != "n3" {
		t.Errorf("top candidate = %s, want n3 (all: %v)", top.NodeID, candidates)
	}
	if top.Confidence <= 0.5 {
		t.Errorf("top confidence = %f, want > 0.5", top.Confidence)
	}
	if top.Alias != "Node n3" {
		t.Errorf("top alias = %q, want the graph alias", top.Alias)
	}

	// The route behind the top candidate must be the direct hop.
	want := model.CandidateRoute{"n2", "n3"}
	if len(top.Route) != len(want) || top.Route[0] != want[0] || top.Route[1] != want[1] {
		t.Errorf("top route = %v, want %v", top.Route, want)
	}
}

// TestAnalyzeOrdering tests that candidates come back strictly
// non-increasing by confidence.
func TestAnalyzeOrdering(t *testing.T) {
	t.Parallel()

	n := lineNetwork()
	a := New(n)

	// A larger budget produces several candidates at different depths.
	obs := model.NewObservation("payment-2", 700_060, 100_000, 700_000, "n2")
	candidates := a.Analyze(obs)

	if len(candidates) < 2 {
		t.Fatalf("expected multiple candidates, got %v", candidates)
	}
	for i := 0; i+1 < len(candidates); i++ {
		if candidates[i].Confidence < candidates[i+1].Confidence {
			t.Errorf("ordering violated at %d: %f < %f",
				i, candidates[i].Confidence, candidates[i+1].Confidence)
		}
	}
}

// TestAnalyzeEmptyEnumeration tests that no candidates is a result, not an
// error condition.
func TestAnalyzeEmptyEnumeration(t *testing.T) {
	t.Parallel()

	n := lineNetwork()
	a := New(n)

	t.Run("exhausted budget", func(t *testing.T) {
		t.Parallel()

		// Expiry below the observed height: budget saturates to zero and
		// the hop bound collapses.
		obs := model.NewObservation("stale", 699_000, 100_000, 700_000, "n2")
		if got := a.Analyze(obs); len(got) != 0 {
			t.Errorf("Analyze() = %v, want empty", got)
		}
	})

	t.Run("unknown observer", func(t *testing.T) {
		t.Parallel()

		obs := model.NewObservation("ghostly", 700_080, 100_000, 700_000, "ghost")
		if got := a.Analyze(obs); len(got) != 0 {
			t.Errorf("Analyze() = %v, want empty", got)
		}
	})
}

// TestAnalyzeDeterministic tests that repeated analysis of the same
// observation yields the same ranking.
func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	n := lineNetwork()
	a := New(n)
	obs := model.NewObservation("payment-3", 700_080, 100_000, 700_000, "n2")

	first := a.Analyze(obs)
	for range 5 {
		again := a.Analyze(obs)
		if len(again) != len(first) {
			t.Fatalf("candidate count changed: %d vs %d", len(again), len(first))
		}
		for i := range first {
			if again[i].Confidence != first[i].Confidence {
				t.Errorf("confidence at %d changed: %f vs %f",
					i, again[i].Confidence, first[i].Confidence)
			}
		}
	}
}

// TestAnalyzeCustomParams tests that injected parameters reach both the
// assessment and the enumeration.
func TestAnalyzeCustomParams(t *testing.T) {
	t.Parallel()

	n := lineNetwork()

	// A tiny final-hop delta narrows the acceptance window so far that the
	// direct hop no longer qualifies under the same budget.
	p := timelock.DefaultParams()
	p.FinalHopDelta = 1
	p.RandomPadMax = 1

	a := New(n, WithParams(p))
	obs := model.NewObservation("payment-4", 700_040, 100_000, 700_000, "n2")

	for _, c := range a.Analyze(obs) {
		if c.Route.Hops() == 1 && c.NodeID == "n3" && c.Confidence > 1 {
			t.Errorf("unexpected high-confidence direct hop under narrowed params: %+v", c)
		}
	}

	if got := a.Params(); got.FinalHopDelta != 1 {
		t.Errorf("Params().FinalHopDelta = %d, want 1", got.FinalHopDelta)
	}
}
