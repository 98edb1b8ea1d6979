package api

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-attackpath/pkg/audit"
	"github.com/dd0wney/cluso-attackpath/pkg/auth"
	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/graphql"
	"github.com/dd0wney/cluso-attackpath/pkg/logging"
	"github.com/dd0wney/cluso-attackpath/pkg/metrics"
	"github.com/dd0wney/cluso-attackpath/pkg/scenario"
)

// snapshot pairs a scenario with the graph built from it. Snapshots are
// immutable once stored; reloads swap the pointer and in-flight queries keep
// the snapshot they started with.
type snapshot struct {
	scn *scenario.Scenario
	g   *graph.Graph
}

// Config holds API server configuration.
type Config struct {
	ScenarioPath string // empty selects the built-in demo scenario
	Version      string
	HistorySize  int              // query history buffer, 0 uses the audit default
	JWT          *auth.JWTManager // nil disables authentication
	Logger       logging.Logger
	Metrics      *metrics.Registry
}

// Server represents the HTTP API over one scenario graph.
type Server struct {
	current         atomic.Pointer[snapshot]
	graphqlHandler  *graphql.Handler
	recorder        *audit.Recorder
	jwt             *auth.JWTManager
	logger          logging.Logger
	metricsRegistry *metrics.Registry
	scenarioPath    string
	version         string
	maxBodyBytes    int64
	startTime       time.Time
}

// NewServer loads the configured scenario and assembles the API server.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	registry := cfg.Metrics
	if registry == nil {
		registry = metrics.DefaultRegistry()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		recorder:        audit.NewRecorder(cfg.HistorySize),
		jwt:             cfg.JWT,
		logger:          logger.With(logging.Component("api")),
		metricsRegistry: registry,
		scenarioPath:    cfg.ScenarioPath,
		version:         version,
		maxBodyBytes:    1 << 20,
		startTime:       time.Now(),
	}

	snap, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	registry.SetGraphSize(snap.g.NodeCount(), snap.g.EdgeCount())

	// Resolvers read the current snapshot on every request so a reload is
	// visible without rebuilding the schema.
	schema, err := graphql.BuildSchema(func() *graph.Graph { return s.graph() })
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	s.graphqlHandler = graphql.NewHandler(schema)

	s.logger.Info("scenario loaded",
		logging.Scenario(snap.scn.Name),
		logging.Int("nodes", snap.g.NodeCount()),
		logging.Int("edges", snap.g.EdgeCount()))

	return s, nil
}

// loadSnapshot builds a snapshot from the scenario path, or from the demo
// scenario when no path is configured.
func (s *Server) loadSnapshot() (*snapshot, error) {
	var scn *scenario.Scenario
	if s.scenarioPath != "" {
		loaded, err := scenario.Load(s.scenarioPath)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		scn = loaded
	} else {
		scn = scenario.Demo()
	}

	g, err := scn.Build()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return &snapshot{scn: scn, g: g}, nil
}

func (s *Server) graph() *graph.Graph {
	return s.current.Load().g
}

func (s *Server) scenario() *scenario.Scenario {
	return s.current.Load().scn
}

// Reload rebuilds the graph from the scenario path and swaps it in.
func (s *Server) Reload() error {
	start := time.Now()

	snap, err := s.loadSnapshot()
	if err != nil {
		s.metricsRegistry.RecordScenarioReload("error", time.Since(start))
		s.logger.Error("scenario reload failed", logging.Error(err))
		return err
	}
	s.current.Store(snap)

	s.metricsRegistry.RecordScenarioReload("ok", time.Since(start))
	s.metricsRegistry.SetGraphSize(snap.g.NodeCount(), snap.g.EdgeCount())
	s.recorder.Record(&audit.Event{
		Kind:   audit.KindReload,
		Status: audit.StatusOK,
		Detail: snap.scn.Name,
	})
	s.logger.Info("scenario reloaded",
		logging.Scenario(snap.scn.Name),
		logging.Int("nodes", snap.g.NodeCount()),
		logging.Int("edges", snap.g.EdgeCount()),
		logging.Latency(time.Since(start)))
	return nil
}

// Handler assembles the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	// Query endpoints
	mux.HandleFunc("/api/v1/nodes", s.requireRole(auth.RoleViewer, s.handleNodes))
	mux.HandleFunc("/api/v1/paths", s.requireRole(auth.RoleViewer, s.handlePath))
	mux.HandleFunc("/api/v1/rank", s.requireRole(auth.RoleViewer, s.handleRank))
	mux.HandleFunc("/api/v1/exposure", s.requireRole(auth.RoleViewer, s.handleExposure))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.requireRole(auth.RoleViewer, s.handleGraphQL))

	// Analyst endpoints
	mux.HandleFunc("/api/v1/sweep", s.requireRole(auth.RoleAnalyst, s.handleSweep))
	mux.HandleFunc("/api/v1/history", s.requireRole(auth.RoleAnalyst, s.handleHistory))

	// Admin endpoints
	mux.HandleFunc("/api/v1/admin/reload", s.requireRole(auth.RoleAdmin, s.handleReload))

	var handler http.Handler = mux
	handler = s.bodySizeLimitMiddleware(handler, s.maxBodyBytes)
	handler = s.corsMiddleware(handler)
	handler = s.metricsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// History exposes the query history recorder.
func (s *Server) History() *audit.Recorder {
	return s.recorder
}

// RunMetricsUpdater refreshes system and graph gauges every 10 seconds until
// stop closes.
func (s *Server) RunMetricsUpdater(stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.metricsRegistry.UpdateSystemMetrics(s.startTime)
			g := s.graph()
			s.metricsRegistry.SetGraphSize(g.NodeCount(), g.EdgeCount())
		case <-stop:
			return
		}
	}
}
