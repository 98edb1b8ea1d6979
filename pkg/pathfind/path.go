package pathfind

import (
	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

// Path is an ordered walk from a start node to a target node. TotalCost is
// the finalized shortest-path cost and equals the sum of the step weights.
// A path from a node to itself has no steps and cost zero.
type Path struct {
	Start     string       `json:"start"`
	Target    string       `json:"target"`
	Steps     []graph.Edge `json:"steps"`
	TotalCost float64      `json:"total_cost"`
}

// Hops returns the number of edges on the path.
func (p *Path) Hops() int {
	return len(p.Steps)
}

// PathTo reconstructs the cheapest path from the tree's start to target by
// walking predecessor edges back to the start and reversing.
//
// Returns ErrUnknownTarget when the target has never appeared in the graph
// and ErrNotReachable when it exists but no route from the start reaches it.
// Not-reachable is an expected analysis outcome, not an engine failure.
func (t *PathTree) PathTo(target string) (*Path, error) {
	if !t.g.HasNode(target) {
		return nil, unknownTargetError("PathTo", target)
	}
	cost, ok := t.dist[target]
	if !ok {
		return nil, notReachableError("PathTo", target)
	}

	var steps []graph.Edge
	for node := target; node != t.start; {
		edge := t.prev[node]
		steps = append(steps, edge)
		node = edge.From
	}

	// Reverse into start -> target order
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return &Path{
		Start:     t.start,
		Target:    target,
		Steps:     steps,
		TotalCost: cost,
	}, nil
}

// ShortestPath is the one-shot convenience: compute the tree for start, then
// reconstruct the path to target.
func ShortestPath(g *graph.Graph, start, target string) (*Path, error) {
	tree, err := ShortestPathTree(g, start)
	if err != nil {
		return nil, err
	}
	return tree.PathTo(target)
}
