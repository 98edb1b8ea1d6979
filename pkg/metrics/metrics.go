package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordPathQuery records a path query execution. The query type is one of
// "path", "rank" or "exposure"; hops is the edge count of the returned path,
// or zero when the query produced no single path.
func (r *Registry) RecordPathQuery(queryType, status string, duration time.Duration, nodesSettled, hops int) {
	r.PathQueriesTotal.WithLabelValues(queryType, status).Inc()
	r.PathQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	r.PathQueryNodesSettled.WithLabelValues(queryType).Observe(float64(nodesSettled))
	if hops > 0 {
		r.PathQueryHops.WithLabelValues(queryType).Observe(float64(hops))
	}

	if duration > time.Second {
		r.SlowQueries.WithLabelValues(queryType).Inc()
	}
}

// SetGraphSize updates the graph size gauges after a build or reload
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordScenarioReload records a scenario reload attempt
func (r *Registry) RecordScenarioReload(status string, duration time.Duration) {
	r.ScenarioReloadsTotal.WithLabelValues(status).Inc()
	r.ScenarioLoadDuration.Observe(duration.Seconds())
}

// RecordSweep records a completed sweep run
func (r *Registry) RecordSweep(status string, duration time.Duration, pairs int) {
	r.SweepsTotal.WithLabelValues(status).Inc()
	r.SweepDuration.Observe(duration.Seconds())
	r.SweepPairsEvaluated.Observe(float64(pairs))
}

// UpdateSystemMetrics refreshes the runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
