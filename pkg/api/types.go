package api

import (
	"time"

	"github.com/dd0wney/cluso-attackpath/pkg/audit"
)

// API Request/Response Types

// PathRequest represents a cheapest-path query between two nodes.
type PathRequest struct {
	Start  string `json:"start"`
	Target string `json:"target"`
}

// StepResponse represents one attacker action along a path.
type StepResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Action string  `json:"action"`
	Weight float64 `json:"weight"`
}

// PathResponse represents a cheapest-path result. TotalCost is omitted when
// the target is not reachable.
type PathResponse struct {
	Start     string         `json:"start"`
	Target    string         `json:"target"`
	Reachable bool           `json:"reachable"`
	TotalCost *float64       `json:"total_cost,omitempty"`
	Hops      int            `json:"hops"`
	Steps     []StepResponse `json:"steps,omitempty"`
	Time      string         `json:"time"`
}

// RankRequest represents an asset ranking request from one entry point.
type RankRequest struct {
	Start  string   `json:"start"`
	Assets []string `json:"assets"`
}

// RankEntryResponse represents one ranked asset. Cost is omitted when the
// asset is not reachable.
type RankEntryResponse struct {
	Asset     string   `json:"asset"`
	Cost      *float64 `json:"cost,omitempty"`
	Reachable bool     `json:"reachable"`
}

// RankResponse represents ranking results in ascending cost order with
// unreachable assets last.
type RankResponse struct {
	Start   string              `json:"start"`
	Entries []RankEntryResponse `json:"entries"`
	Time    string              `json:"time"`
}

// ExposureRequest represents a hop-count blast radius request.
type ExposureRequest struct {
	Start   string `json:"start"`
	MaxHops int    `json:"max_hops"`
}

// ExposureResponse represents the nodes within MaxHops of the start, grouped
// by minimum hop distance.
type ExposureResponse struct {
	Start          string           `json:"start"`
	MaxHops        int              `json:"max_hops"`
	ByHop          map[int][]string `json:"by_hop"`
	TotalReachable int              `json:"total_reachable"`
	Time           string           `json:"time"`
}

// SweepRequest represents a multi-origin ranking sweep.
type SweepRequest struct {
	Origins []string `json:"origins"`
	Assets  []string `json:"assets"`
	Workers int      `json:"workers,omitempty"`
}

// SweepRowResponse represents the rankings from one origin. Error is set when
// the origin was unknown; its rankings are empty in that case.
type SweepRowResponse struct {
	Origin   string              `json:"origin"`
	Rankings []RankEntryResponse `json:"rankings,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// CheapestResponse identifies the single cheapest origin/asset pair across a
// sweep.
type CheapestResponse struct {
	Origin string  `json:"origin"`
	Asset  string  `json:"asset"`
	Cost   float64 `json:"cost"`
}

// SweepResponse represents sweep results, one row per origin in request
// order. Cheapest is omitted when no pair was reachable.
type SweepResponse struct {
	Rows     []SweepRowResponse `json:"rows"`
	Pairs    int                `json:"pairs"`
	Cheapest *CheapestResponse  `json:"cheapest,omitempty"`
	Time     string             `json:"time"`
}

// NodesResponse lists every node in sorted order.
type NodesResponse struct {
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}

// HistoryResponse represents recent query history, newest first.
type HistoryResponse struct {
	Events []*audit.Event `json:"events"`
	Count  int            `json:"count"`
}

// ReloadResponse reports the scenario swapped in by a reload.
type ReloadResponse struct {
	Scenario string `json:"scenario"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	Time     string `json:"time"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Scenario  string    `json:"scenario"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Uptime    string    `json:"uptime"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// costPtr converts a ranking cost to its wire form: nil when unreachable so
// +Inf never reaches the JSON encoder.
func costPtr(cost float64, reachable bool) *float64 {
	if !reachable {
		return nil
	}
	c := cost
	return &c
}
