package pathfind

import (
	"fmt"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

// Exposure holds the hop-count neighbourhood of an entry point: every node
// within MaxHops edges, grouped by minimum hop distance. The start node is
// never included in the groups.
type Exposure struct {
	Start          string           `json:"start"`
	MaxHops        int              `json:"max_hops"`
	ByHop          map[int][]string `json:"by_hop"`
	HopDistance    map[string]int   `json:"hop_distance"`
	TotalReachable int              `json:"total_reachable"`
}

type hopEntry struct {
	node string
	hop  int
}

// HopExposure performs a BFS from start up to maxHops levels. Hop counts
// ignore edge weights; this is the blast-radius counterpart to cost-based
// path queries. maxHops 0 is legal and reports nothing beyond the start.
func HopExposure(g *graph.Graph, start string, maxHops int) (*Exposure, error) {
	if maxHops < 0 {
		return nil, fmt.Errorf("max hops must be >= 0, got %d", maxHops)
	}
	if !g.HasNode(start) {
		return nil, unknownStartError("HopExposure", start)
	}

	visited := map[string]bool{start: true}
	byHop := make(map[int][]string)
	hopDistance := make(map[string]int)
	total := 0

	queue := []hopEntry{{node: start, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= maxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, edge := range g.Neighbors(current.node) {
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			hopDistance[edge.To] = nextHop
			byHop[nextHop] = append(byHop[nextHop], edge.To)
			total++

			queue = append(queue, hopEntry{node: edge.To, hop: nextHop})
		}
	}

	return &Exposure{
		Start:          start,
		MaxHops:        maxHops,
		ByHop:          byHop,
		HopDistance:    hopDistance,
		TotalReachable: total,
	}, nil
}
