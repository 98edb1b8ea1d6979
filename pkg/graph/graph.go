// Package graph implements the in-memory attack graph: directed, weighted,
// labeled edges between string-identified infrastructure nodes. Nodes come
// into existence the first time they appear as an edge endpoint. The store is
// built once and then queried; after construction finishes it is safe for
// concurrent readers.
package graph

import (
	"math"
	"sync"
)

// Edge is a directed attacker action from one node to another with a
// non-negative cost. Parallel edges between the same pair are allowed and
// all retained. Edges are immutable once added.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Action string  `json:"action"`
	Weight float64 `json:"weight"`
}

// Graph stores adjacency keyed by source node. Each node's outgoing edge
// slice preserves insertion order, which keeps traversal order deterministic
// across runs for identical insertion sequences.
type Graph struct {
	mu        sync.RWMutex
	adjacency map[string][]Edge
	nodeOrder []string
	edgeCount int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]Edge),
	}
}

// AddEdge inserts a directed edge and implicitly registers both endpoints.
// The weight must be non-negative and finite: +Inf is reserved as the
// unreachable sentinel on the query side, and NaN would poison every
// distance it touches. A rejected edge leaves the graph unchanged, including
// node membership.
func (g *Graph) AddEdge(from, to, action string, weight float64) error {
	if from == "" || to == "" {
		return emptyNodeError(from, to)
	}
	if action == "" {
		return &EdgeError{Op: "AddEdge", From: from, To: to, Cause: ErrEmptyAction}
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return invalidWeightError(from, to, weight)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.registerNode(from)
	g.registerNode(to)

	g.adjacency[from] = append(g.adjacency[from], Edge{
		From:   from,
		To:     to,
		Action: action,
		Weight: weight,
	})
	g.edgeCount++

	return nil
}

// registerNode records a node the first time it is seen. Callers hold the
// write lock.
func (g *Graph) registerNode(node string) {
	if _, exists := g.adjacency[node]; exists {
		return
	}
	g.adjacency[node] = nil
	g.nodeOrder = append(g.nodeOrder, node)
}

// HasNode reports whether the node has appeared as an edge endpoint.
func (g *Graph) HasNode(node string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.adjacency[node]
	return exists
}

// Neighbors returns a copy of the node's outgoing edges in insertion order.
// Sink nodes and unknown nodes both yield an empty slice.
func (g *Graph) Neighbors(node string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := g.adjacency[node]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(node string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adjacency[node])
}

// Nodes returns a copy of all node identifiers in first-seen order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodeOrder)
}

// EdgeCount returns the total number of edges, counting parallels.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgeCount
}
