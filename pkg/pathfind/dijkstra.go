// Package pathfind implements the shortest-path engine over an attack graph:
// single-source Dijkstra with a lazy-deletion heap frontier, path
// reconstruction along predecessor edges, asset ranking from one run, and
// hop-count exposure analysis.
package pathfind

import (
	"container/heap"
	"math"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

// PathTree holds the result of one single-source shortest-path run: the
// finalized cost of every reached node and, per reached node, the edge along
// which its final cost was set. One tree answers any number of path and
// ranking queries for its start node.
type PathTree struct {
	start string
	g     *graph.Graph
	dist  map[string]float64
	prev  map[string]graph.Edge
}

// ShortestPathTree runs Dijkstra from start over non-negative edge weights.
// Returns ErrUnknownStart if the start node has never appeared in the graph.
//
// The frontier is a binary heap of (node, cost) entries with lazy deletion:
// relaxing a node pushes a fresh entry rather than decreasing an existing
// key, and entries for already-finalized nodes are skipped on extraction.
// A neighbor's tentative cost is overwritten only when strictly smaller, so
// among equal-cost routes the first relaxation wins and the predecessor
// choice is reproducible for identical input graphs.
func ShortestPathTree(g *graph.Graph, start string) (*PathTree, error) {
	if !g.HasNode(start) {
		return nil, unknownStartError("ShortestPathTree", start)
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]graph.Edge)
	finalized := make(map[string]bool)

	pq := &frontier{{node: start, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(frontierItem)
		if finalized[current.node] {
			continue // stale entry, a cheaper route already settled this node
		}
		finalized[current.node] = true

		for _, edge := range g.Neighbors(current.node) {
			candidate := current.cost + edge.Weight
			if old, seen := dist[edge.To]; !seen || candidate < old {
				dist[edge.To] = candidate
				prev[edge.To] = edge
				heap.Push(pq, frontierItem{node: edge.To, cost: candidate})
			}
		}
	}

	return &PathTree{start: start, g: g, dist: dist, prev: prev}, nil
}

// Start returns the entry point this tree was computed from.
func (t *PathTree) Start() string {
	return t.start
}

// Distance returns the finalized cost from the start to the node and whether
// the node was reached. Unreached and unknown nodes both report (+Inf, false).
func (t *PathTree) Distance(node string) (float64, bool) {
	d, ok := t.dist[node]
	if !ok {
		return math.Inf(1), false
	}
	return d, true
}

// Reached returns the number of nodes with a finalized cost, including the
// start itself.
func (t *PathTree) Reached() int {
	return len(t.dist)
}
