package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackpath_graph_nodes_total",
			Help: "Number of nodes in the loaded attack graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackpath_graph_edges_total",
			Help: "Number of edges in the loaded attack graph",
		},
	)

	r.ScenarioReloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackpath_scenario_reloads_total",
			Help: "Total number of scenario reload attempts",
		},
		[]string{"status"},
	)

	r.ScenarioLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackpath_scenario_load_duration_seconds",
			Help:    "Scenario parse, validate and build duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)
}
