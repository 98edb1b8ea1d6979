package graph

import (
	"errors"
	"math"
	"testing"
)

// TestAddEdge_ImplicitNodes tests that both endpoints are created by insertion
func TestAddEdge_ImplicitNodes(t *testing.T) {
	g := New()

	if err := g.AddEdge("attacker", "srv:jumpbox", "remote_logon", 2); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	if !g.HasNode("attacker") {
		t.Error("Expected source node to exist after AddEdge")
	}
	if !g.HasNode("srv:jumpbox") {
		t.Error("Expected destination node to exist after AddEdge")
	}
	if g.NodeCount() != 2 {
		t.Errorf("Expected 2 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

// TestAddEdge_NegativeWeight tests rejection of negative weights
func TestAddEdge_NegativeWeight(t *testing.T) {
	g := New()

	err := g.AddEdge("a", "b", "move", -1)
	if err == nil {
		t.Fatal("Expected error for negative weight, got nil")
	}
	if !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("Expected ErrInvalidWeight, got %v", err)
	}

	// A rejected edge must not register its endpoints
	if g.HasNode("a") || g.HasNode("b") {
		t.Error("Rejected edge should leave no nodes behind")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("Expected 0 edges after rejection, got %d", g.EdgeCount())
	}
}

// TestAddEdge_NonFiniteWeight tests rejection of NaN and infinite weights
func TestAddEdge_NonFiniteWeight(t *testing.T) {
	g := New()

	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := g.AddEdge("a", "b", "move", w)
		if !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("Expected ErrInvalidWeight for weight %v, got %v", w, err)
		}
	}
}

// TestAddEdge_EmptyEndpoint tests rejection of empty node identifiers
func TestAddEdge_EmptyEndpoint(t *testing.T) {
	g := New()

	if err := g.AddEdge("", "b", "move", 1); !errors.Is(err, ErrEmptyNode) {
		t.Errorf("Expected ErrEmptyNode for empty source, got %v", err)
	}
	if err := g.AddEdge("a", "", "move", 1); !errors.Is(err, ErrEmptyNode) {
		t.Errorf("Expected ErrEmptyNode for empty destination, got %v", err)
	}
	if err := g.AddEdge("a", "b", "", 1); !errors.Is(err, ErrEmptyAction) {
		t.Errorf("Expected ErrEmptyAction for empty action, got %v", err)
	}
}

// TestAddEdge_ZeroWeight tests that zero-weight edges are ordinary
func TestAddEdge_ZeroWeight(t *testing.T) {
	g := New()

	if err := g.AddEdge("a", "b", "free_move", 0); err != nil {
		t.Fatalf("AddEdge with zero weight failed: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

// TestAddEdge_SelfLoop tests that self-loops are accepted as ordinary edges
func TestAddEdge_SelfLoop(t *testing.T) {
	g := New()

	if err := g.AddEdge("core", "core", "noop", 0); err != nil {
		t.Fatalf("AddEdge self-loop failed: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("Expected 1 node, got %d", g.NodeCount())
	}
	if len(g.Neighbors("core")) != 1 {
		t.Errorf("Expected 1 outgoing edge, got %d", len(g.Neighbors("core")))
	}
}

// TestNeighbors_InsertionOrder tests deterministic adjacency ordering
func TestNeighbors_InsertionOrder(t *testing.T) {
	g := New()

	g.AddEdge("a", "b", "first", 3)
	g.AddEdge("a", "c", "second", 1)
	g.AddEdge("a", "b", "third", 2) // parallel edge

	edges := g.Neighbors("a")
	if len(edges) != 3 {
		t.Fatalf("Expected 3 outgoing edges, got %d", len(edges))
	}

	wantActions := []string{"first", "second", "third"}
	for i, want := range wantActions {
		if edges[i].Action != want {
			t.Errorf("Expected edge %d action %q, got %q", i, want, edges[i].Action)
		}
	}
}

// TestNeighbors_ParallelEdgesRetained tests that parallel edges are all kept
func TestNeighbors_ParallelEdgesRetained(t *testing.T) {
	g := New()

	g.AddEdge("a", "b", "l1", 5)
	g.AddEdge("a", "b", "l2", 2)

	edges := g.Neighbors("a")
	if len(edges) != 2 {
		t.Fatalf("Expected 2 parallel edges, got %d", len(edges))
	}
	if edges[0].Weight != 5 || edges[1].Weight != 2 {
		t.Errorf("Expected weights [5 2], got [%v %v]", edges[0].Weight, edges[1].Weight)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("Expected edge count 2, got %d", g.EdgeCount())
	}
}

// TestNeighbors_SinkAndUnknown tests empty results for sinks and unknown nodes
func TestNeighbors_SinkAndUnknown(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", "move", 1)

	if got := g.Neighbors("b"); len(got) != 0 {
		t.Errorf("Expected no outgoing edges for sink node, got %v", got)
	}
	if got := g.Neighbors("ghost"); len(got) != 0 {
		t.Errorf("Expected no outgoing edges for unknown node, got %v", got)
	}
}

// TestNeighbors_ReturnsCopy tests that callers cannot mutate the store
func TestNeighbors_ReturnsCopy(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", "move", 1)

	edges := g.Neighbors("a")
	edges[0].Weight = 99

	again := g.Neighbors("a")
	if again[0].Weight != 1 {
		t.Errorf("Neighbors should return a copy; stored weight changed to %v", again[0].Weight)
	}
}

// TestNodes_FirstSeenOrder tests deterministic node listing
func TestNodes_FirstSeenOrder(t *testing.T) {
	g := New()

	g.AddEdge("c", "a", "x", 1)
	g.AddEdge("a", "b", "y", 1)

	want := []string{"c", "a", "b"}
	got := g.Nodes()
	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected node %d to be %q, got %q", i, want[i], got[i])
		}
	}
}

// TestNodes_CaseSensitive tests that identifiers are compared exactly
func TestNodes_CaseSensitive(t *testing.T) {
	g := New()

	g.AddEdge("Host", "host", "alias", 1)

	if g.NodeCount() != 2 {
		t.Errorf("Expected case-sensitive identifiers to be distinct nodes, got %d", g.NodeCount())
	}
}

// TestOutDegree tests out-degree accounting including parallels
func TestOutDegree(t *testing.T) {
	g := New()

	g.AddEdge("a", "b", "l1", 1)
	g.AddEdge("a", "b", "l2", 2)
	g.AddEdge("a", "c", "l3", 3)

	if d := g.OutDegree("a"); d != 3 {
		t.Errorf("Expected out-degree 3, got %d", d)
	}
	if d := g.OutDegree("b"); d != 0 {
		t.Errorf("Expected out-degree 0 for sink, got %d", d)
	}
}

// TestEdgeError_Message tests the structured error rendering
func TestEdgeError_Message(t *testing.T) {
	err := invalidWeightError("a", "b", -2)

	var ee *EdgeError
	if !errors.As(err, &ee) {
		t.Fatalf("Expected *EdgeError, got %T", err)
	}
	if ee.Op != "AddEdge" || ee.From != "a" || ee.To != "b" {
		t.Errorf("Unexpected error fields: %+v", ee)
	}
	if ee.Error() == "" {
		t.Error("Expected non-empty error message")
	}
}

// TestGraph_ConcurrentReads tests that a built graph serves parallel readers
func TestGraph_ConcurrentReads(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", "l1", 1)
	g.AddEdge("b", "c", "l2", 2)
	g.AddEdge("c", "a", "l3", 3)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if len(g.Neighbors("a")) != 1 {
					t.Error("Unexpected neighbor count under concurrent reads")
					return
				}
				if !g.HasNode("c") {
					t.Error("Node lookup failed under concurrent reads")
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
