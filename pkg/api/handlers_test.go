package api

import (
	"encoding/json"
	"net/http"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dd0wney/cluso-attackpath/pkg/auth"
)

// TestHandleNodes tests the sorted node listing
func TestHandleNodes(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "GET", "/api/v1/nodes", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response NodesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Count != 19 {
		t.Errorf("Count = %d, want 19", response.Count)
	}
	if !sort.StringsAreSorted(response.Nodes) {
		t.Error("Expected nodes to be sorted")
	}
	if response.Nodes[0] != "Customer_Database" {
		t.Errorf("Nodes[0] = %s, want Customer_Database", response.Nodes[0])
	}
}

// TestHandlePath tests the cheapest path across the demo estate
func TestHandlePath(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/paths", PathRequest{
		Start:  "attacker",
		Target: "Customer_Database",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response PathResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Reachable {
		t.Fatal("Expected Customer_Database to be reachable")
	}
	if response.TotalCost == nil || *response.TotalCost != 7 {
		t.Errorf("TotalCost = %v, want 7", response.TotalCost)
	}
	if response.Hops != 3 {
		t.Errorf("Hops = %d, want 3", response.Hops)
	}
	if len(response.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(response.Steps))
	}
	if response.Steps[0].To != "web:public_site" {
		t.Errorf("Steps[0].To = %s, want web:public_site", response.Steps[0].To)
	}
	if response.Steps[2].Action != "sql_access" {
		t.Errorf("Steps[2].Action = %s, want sql_access", response.Steps[2].Action)
	}
}

// TestHandlePath_SameStartAndTarget tests the zero-length path
func TestHandlePath_SameStartAndTarget(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/paths", PathRequest{
		Start:  "attacker",
		Target: "attacker",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response PathResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Reachable {
		t.Fatal("Expected start to reach itself")
	}
	if response.TotalCost == nil || *response.TotalCost != 0 {
		t.Errorf("TotalCost = %v, want 0", response.TotalCost)
	}
	if response.Hops != 0 || len(response.Steps) != 0 {
		t.Errorf("Hops/Steps = %d/%d, want 0/0", response.Hops, len(response.Steps))
	}
}

// TestHandlePath_NotReachable tests that an isolated target is a result, not
// an error
func TestHandlePath_NotReachable(t *testing.T) {
	path := writeScenario(t, testScenarioYAML)
	srv := setupTestServer(t, Config{ScenarioPath: path})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/paths", PathRequest{
		Start:  "entry",
		Target: "island",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response PathResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Reachable {
		t.Error("Expected island to be unreachable")
	}
	if response.TotalCost != nil {
		t.Errorf("TotalCost = %v, want omitted", *response.TotalCost)
	}
}

// TestHandlePath_UnknownStart tests the 404 for an absent start node
func TestHandlePath_UnknownStart(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/paths", PathRequest{
		Start:  "ghost",
		Target: "Customer_Database",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(response.Message, "unknown start node") {
		t.Errorf("Message = %q, want unknown start node mention", response.Message)
	}
}

// TestHandlePath_UnknownTarget tests the 404 for an absent target node
func TestHandlePath_UnknownTarget(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/paths", PathRequest{
		Start:  "attacker",
		Target: "ghost",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
}

// TestHandlePath_BadRequest tests input validation
func TestHandlePath_BadRequest(t *testing.T) {
	srv := setupTestServer(t, Config{})
	handler := srv.Handler()

	tests := []struct {
		name string
		body any
	}{
		{"missing start", PathRequest{Target: "Customer_Database"}},
		{"missing target", PathRequest{Start: "attacker"}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, handler, "POST", "/api/v1/paths", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
		})
	}
}

// TestHandlePath_MethodNotAllowed tests the POST-only constraint
func TestHandlePath_MethodNotAllowed(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "GET", "/api/v1/paths", nil)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}

// TestHandleRank tests asset ranking with an absent asset last
func TestHandleRank(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/rank", RankRequest{
		Start:  "attacker",
		Assets: []string{"Finance_Database", "ghost:db", "Customer_Database"},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response RankResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(response.Entries))
	}

	first := response.Entries[0]
	if first.Asset != "Customer_Database" || first.Cost == nil || *first.Cost != 7 {
		t.Errorf("Entries[0] = %+v, want Customer_Database@7", first)
	}
	second := response.Entries[1]
	if second.Asset != "Finance_Database" || second.Cost == nil || *second.Cost != 12 {
		t.Errorf("Entries[1] = %+v, want Finance_Database@12", second)
	}
	last := response.Entries[2]
	if last.Asset != "ghost:db" || last.Reachable || last.Cost != nil {
		t.Errorf("Entries[2] = %+v, want unreachable ghost:db with no cost", last)
	}
}

// TestHandleRank_UnknownStart tests the 404 for an absent start node
func TestHandleRank_UnknownStart(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/rank", RankRequest{
		Start:  "ghost",
		Assets: []string{"Customer_Database"},
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

// TestHandleExposure tests the one-hop blast radius of the entry point
func TestHandleExposure(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/exposure", ExposureRequest{
		Start:   "attacker",
		MaxHops: 1,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response ExposureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.TotalReachable != 3 {
		t.Errorf("TotalReachable = %d, want 3", response.TotalReachable)
	}

	hop1 := response.ByHop[1]
	want := []string{"web:public_site", "ws:employee_pc", "net:core"}
	if len(hop1) != len(want) {
		t.Fatalf("ByHop[1] = %v, want %v", hop1, want)
	}
	for i, w := range want {
		if hop1[i] != w {
			t.Errorf("ByHop[1][%d] = %s, want %s", i, hop1[i], w)
		}
	}
}

// TestHandleExposure_NegativeHops tests input validation
func TestHandleExposure_NegativeHops(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/exposure", ExposureRequest{
		Start:   "attacker",
		MaxHops: -1,
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

// TestHandleSweep tests the multi-origin ranking matrix
func TestHandleSweep(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/sweep", SweepRequest{
		Origins: []string{"attacker", "web:public_site"},
		Assets:  []string{"Customer_Database", "Orders_Database"},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response SweepResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Pairs != 4 {
		t.Errorf("Pairs = %d, want 4", response.Pairs)
	}
	if len(response.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(response.Rows))
	}
	if response.Rows[0].Origin != "attacker" || response.Rows[1].Origin != "web:public_site" {
		t.Errorf("Row order = %s, %s; want request order", response.Rows[0].Origin, response.Rows[1].Origin)
	}

	// The public site is one hop closer to the customer data
	if response.Cheapest == nil {
		t.Fatal("Expected a cheapest entry")
	}
	if response.Cheapest.Origin != "web:public_site" || response.Cheapest.Asset != "Customer_Database" || response.Cheapest.Cost != 5 {
		t.Errorf("Cheapest = %+v, want web:public_site/Customer_Database@5", response.Cheapest)
	}
}

// TestHandleSweep_UnknownOriginRow tests that a bad origin fails its row only
func TestHandleSweep_UnknownOriginRow(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/sweep", SweepRequest{
		Origins: []string{"attacker", "ghost"},
		Assets:  []string{"Customer_Database"},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response SweepResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Rows[0].Error != "" {
		t.Errorf("Rows[0].Error = %q, want empty", response.Rows[0].Error)
	}
	if response.Rows[1].Error == "" {
		t.Error("Expected an error on the ghost row")
	}
}

// TestHandleSweep_Defaults tests that an empty request sweeps every non-hub
// node against the scenario assets
func TestHandleSweep_Defaults(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/sweep", SweepRequest{})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response SweepResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// 18 non-hub nodes against the 6 demo assets
	if len(response.Rows) != 18 {
		t.Errorf("Expected 18 rows, got %d", len(response.Rows))
	}
	if response.Pairs != 18*6 {
		t.Errorf("Pairs = %d, want %d", response.Pairs, 18*6)
	}
	for _, row := range response.Rows {
		if row.Origin == "net:core" {
			t.Error("Hub node should not be swept as an origin")
		}
	}
}

// TestHandleHistory tests that queries land in the history buffer newest
// first
func TestHandleHistory(t *testing.T) {
	srv := setupTestServer(t, Config{})
	handler := srv.Handler()

	doJSON(t, handler, "POST", "/api/v1/paths", PathRequest{Start: "attacker", Target: "Customer_Database"})
	doJSON(t, handler, "POST", "/api/v1/rank", RankRequest{Start: "attacker", Assets: []string{"Logs"}})

	rr := doJSON(t, handler, "GET", "/api/v1/history?limit=10", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response HistoryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Count != 2 {
		t.Fatalf("Count = %d, want 2", response.Count)
	}
	if response.Events[0].Kind != "rank" || response.Events[1].Kind != "path" {
		t.Errorf("Event order = %s, %s; want rank then path", response.Events[0].Kind, response.Events[1].Kind)
	}
	if response.Events[1].Cost != 7 {
		t.Errorf("Path event cost = %v, want 7", response.Events[1].Cost)
	}
}

// TestHandleHistory_KindFilter tests the kind query parameter
func TestHandleHistory_KindFilter(t *testing.T) {
	srv := setupTestServer(t, Config{})
	handler := srv.Handler()

	doJSON(t, handler, "POST", "/api/v1/paths", PathRequest{Start: "attacker", Target: "Logs"})
	doJSON(t, handler, "POST", "/api/v1/rank", RankRequest{Start: "attacker", Assets: []string{"Logs"}})

	rr := doJSON(t, handler, "GET", "/api/v1/history?kind=rank", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response HistoryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Count != 1 {
		t.Fatalf("Count = %d, want 1", response.Count)
	}
	if response.Events[0].Kind != "rank" {
		t.Errorf("Kind = %s, want rank", response.Events[0].Kind)
	}
}

// TestHandleHistory_BadLimit tests limit validation
func TestHandleHistory_BadLimit(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "GET", "/api/v1/history?limit=zero", nil)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

// TestHandleReload tests the admin reload endpoint
func TestHandleReload(t *testing.T) {
	manager, err := auth.NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	admin, err := manager.GenerateToken("root", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	path := writeScenario(t, testScenarioYAML)
	srv := setupTestServer(t, Config{ScenarioPath: path, JWT: manager})
	handler := srv.Handler()

	grown := testScenarioYAML + `  - from: db
    to: backup
    action: replication
    weight: 1
`
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatalf("Failed to rewrite scenario file: %v", err)
	}

	rr := doJSONAuth(t, handler, "POST", "/api/v1/admin/reload", admin, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response ReloadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Nodes != 5 {
		t.Errorf("Nodes = %d, want 5", response.Nodes)
	}
}

// TestHandleReload_RefusedWithoutAuth tests that an open instance cannot be
// reloaded over the network
func TestHandleReload_RefusedWithoutAuth(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/admin/reload", nil)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}
}

// TestHandleRank_DefaultAssets tests that an empty asset list ranks the
// scenario's assets
func TestHandleRank_DefaultAssets(t *testing.T) {
	srv := setupTestServer(t, Config{})
	rr := doJSON(t, srv.Handler(), "POST", "/api/v1/rank", RankRequest{
		Start: "attacker",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var response RankResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Entries) != 6 {
		t.Fatalf("Expected 6 entries, got %d", len(response.Entries))
	}
	if response.Entries[0].Asset != "Customer_Database" {
		t.Errorf("Entries[0].Asset = %s, want Customer_Database", response.Entries[0].Asset)
	}
	if response.Entries[5].Asset != "Logs" {
		t.Errorf("Entries[5].Asset = %s, want Logs", response.Entries[5].Asset)
	}
}
