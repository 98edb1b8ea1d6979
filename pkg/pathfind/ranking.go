package pathfind

import (
	"sort"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

// AssetCost is one row of an asset ranking: the cheapest cost at which the
// tree's start reaches the asset. Unreachable assets, including assets that
// never appear in the graph, carry Cost +Inf and Reachable false. Callers
// serializing rankings must handle the +Inf sentinel themselves.
type AssetCost struct {
	Asset     string
	Cost      float64
	Reachable bool
}

// Rank prices every asset from this tree's single run. No per-asset
// recomputation happens; each entry is a map lookup.
//
// Entries are ordered reachable-first ascending by cost. The sort is stable,
// so equal-cost assets keep their input order and unreachable assets trail
// in input order. An asset equal to the start ranks like any other, at cost
// zero.
func (t *PathTree) Rank(assets []string) []AssetCost {
	out := make([]AssetCost, 0, len(assets))
	for _, asset := range assets {
		cost, reachable := t.Distance(asset)
		out = append(out, AssetCost{
			Asset:     asset,
			Cost:      cost,
			Reachable: reachable,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Reachable != out[j].Reachable {
			return out[i].Reachable
		}
		return out[i].Cost < out[j].Cost
	})

	return out
}

// RankAssets is the one-shot convenience: compute the tree for start, then
// rank the assets from it.
func RankAssets(g *graph.Graph, start string, assets []string) ([]AssetCost, error) {
	tree, err := ShortestPathTree(g, start)
	if err != nil {
		return nil, err
	}
	return tree.Rank(assets), nil
}
