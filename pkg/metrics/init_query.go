package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackpath_queries_total",
			Help: "Total number of path queries executed",
		},
		[]string{"query_type", "status"},
	)

	r.PathQueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attackpath_query_duration_seconds",
			Help:    "Path query execution duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"query_type"},
	)

	r.PathQueryNodesSettled = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attackpath_query_nodes_settled",
			Help:    "Number of nodes settled per path query",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"query_type"},
	)

	r.PathQueryHops = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attackpath_query_hops",
			Help:    "Number of edges in the returned path",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
		[]string{"query_type"},
	)

	r.SlowQueries = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackpath_slow_queries_total",
			Help: "Total number of slow path queries (>1s)",
		},
		[]string{"query_type"},
	)
}
