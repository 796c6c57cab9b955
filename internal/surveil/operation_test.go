package surveil

import (
	"errors"
	"sync"
	"testing"

	"github.com/cltvscan/cltvscan/internal/graph"
	"github.com/cltvscan/cltvscan/internal/model"
)

// testNetwork builds n1-n2-n3-n4 in a line, every node with delta 20.
func testNetwork() *graph.Network {
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

// TestRegisterObserver tests observer registration and validation.
func TestRegisterObserver(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())

	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatalf("RegisterObserver(n2) error = %v", err)
	}
	if !op.IsObserver("n2") {
		t.Error("n2 should be a registered observer")
	}

	// Re-registration is idempotent.
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatalf("second RegisterObserver(n2) error = %v", err)
	}
	if got := len(op.Observers()); got != 1 {
		t.Errorf("observer count = %d, want 1", got)
	}

	// Unknown node is an input error.
	if err := op.RegisterObserver("ghost"); !errors.Is(err, graph.ErrUnknownNode) {
		t.Errorf("RegisterObserver(ghost) error = %v, want ErrUnknownNode", err)
	}
}

// TestRecordFiltersNonObservers tests that only observer reports land in
// the log.
func TestRecordFiltersNonObservers(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}

	if !op.Record(model.NewObservation("h1", 700_080, 100_000, 700_000, "n2")) {
		t.Error("observation from registered observer should be recorded")
	}
	if op.Record(model.NewObservation("h2", 700_080, 100_000, 700_000, "n3")) {
		t.Error("observation from non-observer should be ignored")
	}
	if got := op.ObservationCount(); got != 1 {
		t.Errorf("ObservationCount() = %d, want 1", got)
	}
}

// TestRecordBatch tests batch appends.
func TestRecordBatch(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}

	recorded := op.RecordBatch(
		model.NewObservation("h1", 700_080, 1, 700_000, "n2"),
		model.NewObservation("h2", 700_080, 1, 700_000, "n1"), // ignored
		model.NewObservation("h3", 700_080, 1, 700_000, "n2"),
	)
	if recorded != 2 {
		t.Errorf("RecordBatch() = %d, want 2", recorded)
	}
}

// TestObservationsIsACopy tests that the returned log cannot corrupt
// session state.
func TestObservationsIsACopy(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}
	op.Record(model.NewObservation("h1", 700_080, 1, 700_000, "n2"))

	snapshot := op.Observations()
	snapshot[0].PaymentHash = "tampered"

	if got := op.Observations()[0].PaymentHash; got != "h1" {
		t.Errorf("log entry = %q after tampering with a snapshot, want h1", got)
	}
}

// TestClear tests that clearing empties the log but keeps observers.
func TestClear(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}
	op.Record(model.NewObservation("h1", 700_080, 1, 700_000, "n2"))

	op.Clear()

	if got := op.ObservationCount(); got != 0 {
		t.Errorf("ObservationCount() = %d after Clear, want 0", got)
	}
	if !op.IsObserver("n2") {
		t.Error("Clear must not drop registered observers")
	}
}

// TestConcurrentAppends tests the single-writer append discipline under
// concurrent producers.
func TestConcurrentAppends(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				op.Record(model.NewObservation("h", 700_080+uint32(i), 1, 700_000, "n2"))
			}
		}()
	}
	wg.Wait()

	if got := op.ObservationCount(); got != producers*perProducer {
		t.Errorf("ObservationCount() = %d, want %d", got, producers*perProducer)
	}
}

// TestRun tests end-to-end session analysis.
func TestRun(t *testing.T) {
	t.Parallel()

	op := New(testNetwork())
	if err := op.RegisterObserver("n2"); err != nil {
		t.Fatal(err)
	}

	op.Record(model.NewObservation("payment-1", 700_040, 100_000, 700_000, "n2"))

	results := op.Run()
	candidates, ok := results["payment-1"]
	if !ok || len(candidates) == 0 {
		t.Fatalf("Run() = %v, want candidates for payment-1", results)
	}
	if candidates[0].NodeID != "n3" {
		t.Errorf("top candidate = %s, want n3", candidates[0].NodeID)
	}
}
