// Package sweep runs asset rankings from many origins at once. One worker
// pool fans the origins out, each origin gets its own shortest-path tree,
// and the report keeps rows in the caller's origin order.
package sweep

import (
	"errors"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/pathfind"
)

var (
	ErrNilGraph  = errors.New("graph cannot be nil")
	ErrNoOrigins = errors.New("at least one origin is required")
)

// Options configures a sweep run
type Options struct {
	// Workers caps the worker pool size. Zero or negative means one
	// worker per CPU.
	Workers int
}

// Row holds the ranking produced from a single origin. Err is set when the
// origin could not be evaluated, for example when it is not in the graph;
// the sweep still completes for the remaining origins.
type Row struct {
	Origin   string
	Rankings []pathfind.AssetCost
	Err      error
}

// Entry identifies one origin/asset pair and its attack cost
type Entry struct {
	Origin string
	Asset  string
	Cost   float64
}

// Report is the outcome of a sweep across all origins
type Report struct {
	Rows  []Row
	Pairs int
}

// AssetSweep ranks the given assets from every origin. Rows come back in
// origin input order regardless of which worker finished first.
func AssetSweep(g *graph.Graph, origins, assets []string, opts Options) (*Report, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if len(origins) == 0 {
		return nil, ErrNoOrigins
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool, err := NewPool(workers)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(origins))
	var wg sync.WaitGroup
	for i, origin := range origins {
		wg.Add(1)
		submitted := pool.Submit(func() {
			defer wg.Done()
			rows[i] = rankFrom(g, origin, assets)
		})
		if !submitted {
			wg.Done()
			rows[i] = Row{Origin: origin, Err: errors.New("worker pool closed")}
		}
	}
	wg.Wait()
	pool.Close()

	return &Report{
		Rows:  rows,
		Pairs: len(origins) * len(assets),
	}, nil
}

func rankFrom(g *graph.Graph, origin string, assets []string) Row {
	tree, err := pathfind.ShortestPathTree(g, origin)
	if err != nil {
		return Row{Origin: origin, Err: err}
	}
	return Row{Origin: origin, Rankings: tree.Rank(assets)}
}

// CheapestEntry returns the lowest-cost reachable origin/asset pair in the
// report. Ties keep the earliest row, then the earliest asset within it.
// The second return is false when no pair is reachable.
func (r *Report) CheapestEntry() (Entry, bool) {
	var best Entry
	found := false

	for _, row := range r.Rows {
		if row.Err != nil {
			continue
		}
		for _, ac := range row.Rankings {
			if !ac.Reachable {
				continue
			}
			if !found || ac.Cost < best.Cost {
				best = Entry{Origin: row.Origin, Asset: ac.Asset, Cost: ac.Cost}
				found = true
			}
		}
	}

	return best, found
}

// CheapestFor returns the origin that reaches one asset cheapest. Ties keep
// the earliest row. The second return is false when no origin reaches the
// asset.
func (r *Report) CheapestFor(asset string) (Entry, bool) {
	var best Entry
	found := false

	for _, row := range r.Rows {
		if row.Err != nil {
			continue
		}
		for _, ac := range row.Rankings {
			if ac.Asset != asset || !ac.Reachable {
				continue
			}
			if !found || ac.Cost < best.Cost {
				best = Entry{Origin: row.Origin, Asset: ac.Asset, Cost: ac.Cost}
				found = true
			}
		}
	}

	return best, found
}
