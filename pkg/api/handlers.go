package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-attackpath/pkg/audit"
	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/logging"
	"github.com/dd0wney/cluso-attackpath/pkg/pathfind"
	"github.com/dd0wney/cluso-attackpath/pkg/sweep"
)

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Scenario:  snap.scn.Name,
		Nodes:     snap.g.NodeCount(),
		Edges:     snap.g.EdgeCount(),
		Uptime:    time.Since(s.startTime).String(),
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	nodes := s.graph().Nodes()
	sort.Strings(nodes)
	s.respondJSON(w, http.StatusOK, NodesResponse{
		Nodes: nodes,
		Count: len(nodes),
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Start == "" || req.Target == "" {
		s.respondError(w, http.StatusBadRequest, "Fields start and target are required")
		return
	}

	start := time.Now()

	tree, err := pathfind.ShortestPathTree(s.graph(), req.Start)
	if err != nil {
		s.metricsRegistry.RecordPathQuery("path", "unknown_start", time.Since(start), 0, 0)
		s.recordQuery(r, audit.KindPath, req.Start, req.Target, audit.StatusRejected, 0, 0)
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	path, err := tree.PathTo(req.Target)
	switch {
	case err == nil:
	case errors.Is(err, pathfind.ErrUnknownTarget):
		s.metricsRegistry.RecordPathQuery("path", "unknown_target", time.Since(start), tree.Reached(), 0)
		s.recordQuery(r, audit.KindPath, req.Start, req.Target, audit.StatusRejected, 0, 0)
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pathfind.ErrNotReachable):
		elapsed := time.Since(start)
		s.metricsRegistry.RecordPathQuery("path", "not_reachable", elapsed, tree.Reached(), 0)
		s.recordQuery(r, audit.KindPath, req.Start, req.Target, audit.StatusNotReachable, 0, 0)
		s.respondJSON(w, http.StatusOK, PathResponse{
			Start:     req.Start,
			Target:    req.Target,
			Reachable: false,
			Time:      elapsed.String(),
		})
		return
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	elapsed := time.Since(start)
	s.metricsRegistry.RecordPathQuery("path", "ok", elapsed, tree.Reached(), path.Hops())
	s.recordQuery(r, audit.KindPath, req.Start, req.Target, audit.StatusOK, path.TotalCost, path.Hops())

	s.respondJSON(w, http.StatusOK, PathResponse{
		Start:     path.Start,
		Target:    path.Target,
		Reachable: true,
		TotalCost: &path.TotalCost,
		Hops:      path.Hops(),
		Steps:     stepsToResponse(path.Steps),
		Time:      elapsed.String(),
	})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Start == "" {
		s.respondError(w, http.StatusBadRequest, "Field start is required")
		return
	}

	snap := s.current.Load()
	if len(req.Assets) == 0 {
		req.Assets = snap.scn.Assets
	}

	start := time.Now()

	tree, err := pathfind.ShortestPathTree(snap.g, req.Start)
	if err != nil {
		s.metricsRegistry.RecordPathQuery("rank", "unknown_start", time.Since(start), 0, 0)
		s.recordQuery(r, audit.KindRank, req.Start, "", audit.StatusRejected, 0, 0)
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	elapsed := time.Since(start)
	ranked := tree.Rank(req.Assets)
	s.metricsRegistry.RecordPathQuery("rank", "ok", elapsed, tree.Reached(), 0)
	s.recordQuery(r, audit.KindRank, req.Start, "", audit.StatusOK, 0, 0)

	s.respondJSON(w, http.StatusOK, RankResponse{
		Start:   req.Start,
		Entries: rankingToResponse(ranked),
		Time:    elapsed.String(),
	})
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ExposureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Start == "" {
		s.respondError(w, http.StatusBadRequest, "Field start is required")
		return
	}
	if req.MaxHops < 0 {
		s.respondError(w, http.StatusBadRequest, "Field max_hops must be >= 0")
		return
	}

	start := time.Now()

	exposure, err := pathfind.HopExposure(s.graph(), req.Start, req.MaxHops)
	if err != nil {
		s.metricsRegistry.RecordPathQuery("exposure", "unknown_start", time.Since(start), 0, 0)
		s.recordQuery(r, audit.KindExposure, req.Start, "", audit.StatusRejected, 0, 0)
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	elapsed := time.Since(start)
	s.metricsRegistry.RecordPathQuery("exposure", "ok", elapsed, exposure.TotalReachable, 0)
	s.recordQuery(r, audit.KindExposure, req.Start, "", audit.StatusOK, 0, 0)

	s.respondJSON(w, http.StatusOK, ExposureResponse{
		Start:          exposure.Start,
		MaxHops:        exposure.MaxHops,
		ByHop:          exposure.ByHop,
		TotalReachable: exposure.TotalReachable,
		Time:           elapsed.String(),
	})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap := s.current.Load()
	if len(req.Origins) == 0 {
		req.Origins = nonHubNodes(snap)
	}
	if len(req.Assets) == 0 {
		req.Assets = snap.scn.Assets
	}

	start := time.Now()

	report, err := sweep.AssetSweep(snap.g, req.Origins, req.Assets, sweep.Options{
		Workers: req.Workers,
	})
	if err != nil {
		s.metricsRegistry.RecordSweep("error", time.Since(start), 0)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	elapsed := time.Since(start)
	s.metricsRegistry.RecordSweep("ok", elapsed, report.Pairs)

	event := audit.NewEvent(audit.KindSweep, s.requestOrigin(r), "", "", audit.StatusOK)
	event.Detail = strconv.Itoa(len(req.Origins)) + " origins x " + strconv.Itoa(len(req.Assets)) + " assets"
	s.recorder.Record(event)

	response := SweepResponse{
		Rows:  make([]SweepRowResponse, 0, len(report.Rows)),
		Pairs: report.Pairs,
		Time:  elapsed.String(),
	}
	for _, row := range report.Rows {
		rowResp := SweepRowResponse{Origin: row.Origin}
		if row.Err != nil {
			rowResp.Error = row.Err.Error()
		} else {
			rowResp.Rankings = rankingToResponse(row.Rankings)
		}
		response.Rows = append(response.Rows, rowResp)
	}
	if entry, ok := report.CheapestEntry(); ok {
		response.Cheapest = &CheapestResponse{
			Origin: entry.Origin,
			Asset:  entry.Asset,
			Cost:   entry.Cost,
		}
	}

	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "Parameter limit must be a positive integer")
			return
		}
		limit = parsed
	}

	var events []*audit.Event
	if kind := r.URL.Query().Get("kind"); kind != "" {
		// Filtered events come oldest first; trim to the newest and flip.
		filtered := s.recorder.Events(&audit.Filter{Kind: audit.Kind(kind)})
		if len(filtered) > limit {
			filtered = filtered[len(filtered)-limit:]
		}
		events = make([]*audit.Event, 0, len(filtered))
		for i := len(filtered) - 1; i >= 0; i-- {
			events = append(events, filtered[i])
		}
	} else {
		events = s.recorder.Recent(limit)
	}

	s.respondJSON(w, http.StatusOK, HistoryResponse{
		Events: events,
		Count:  len(events),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	start := time.Now()
	if err := s.Reload(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := s.current.Load()
	s.respondJSON(w, http.StatusOK, ReloadResponse{
		Scenario: snap.scn.Name,
		Nodes:    snap.g.NodeCount(),
		Edges:    snap.g.EdgeCount(),
		Time:     time.Since(start).String(),
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	s.graphqlHandler.ServeHTTP(w, r)
}

// Helper methods

// nonHubNodes lists every node in insertion order, minus the hub when the
// scenario wires one. Hub routes exist for connectivity, not as entry points
// worth sweeping.
func nonHubNodes(snap *snapshot) []string {
	nodes := snap.g.Nodes()
	if snap.scn.Hub == nil {
		return nodes
	}

	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node != snap.scn.Hub.Node {
			out = append(out, node)
		}
	}
	return out
}

func stepsToResponse(steps []graph.Edge) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for _, step := range steps {
		out = append(out, StepResponse{
			From:   step.From,
			To:     step.To,
			Action: step.Action,
			Weight: step.Weight,
		})
	}
	return out
}

func rankingToResponse(ranked []pathfind.AssetCost) []RankEntryResponse {
	out := make([]RankEntryResponse, 0, len(ranked))
	for _, ac := range ranked {
		out = append(out, RankEntryResponse{
			Asset:     ac.Asset,
			Cost:      costPtr(ac.Cost, ac.Reachable),
			Reachable: ac.Reachable,
		})
	}
	return out
}

// recordQuery appends one query to the history buffer. The origin is the
// authenticated subject when present, the client address otherwise.
func (s *Server) recordQuery(r *http.Request, kind audit.Kind, start, target string, status audit.Status, cost float64, hops int) {
	event := audit.NewEvent(kind, s.requestOrigin(r), start, target, status)
	event.Cost = cost
	event.Hops = hops
	s.recorder.Record(event)
}

func (s *Server) requestOrigin(r *http.Request) string {
	if claims, ok := claimsFromContext(r.Context()); ok {
		return claims.Subject
	}
	return getIPAddress(r)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response failed", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}
