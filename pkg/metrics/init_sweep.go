package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSweepMetrics() {
	r.SweepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackpath_sweeps_total",
			Help: "Total number of multi-origin sweep runs",
		},
		[]string{"status"},
	)

	r.SweepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackpath_sweep_duration_seconds",
			Help:    "Sweep execution duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.SweepPairsEvaluated = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackpath_sweep_pairs_evaluated",
			Help:    "Number of origin/asset pairs evaluated per sweep",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)
}
