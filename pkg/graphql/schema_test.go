package graphql

import (
	"testing"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

// buildTestGraph builds a small topology: a reaches c cheaply through b,
// expensively direct, and the island is unreachable.
func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.New()
	edges := []struct {
		from, to, action string
		weight           float64
	}{
		{"a", "b", "l1", 2},
		{"b", "c", "l2", 3},
		{"a", "c", "l3", 10},
		{"island", "island", "idle", 0},
	}
	for _, e := range edges {
		if err := g.AddEdge(e.from, e.to, e.action, e.weight); err != nil {
			t.Fatalf("AddEdge(%s->%s) failed: %v", e.from, e.to, err)
		}
	}
	return g
}

func staticProvider(g *graph.Graph) Provider {
	return func() *graph.Graph { return g }
}

// TestBuildSchema tests schema construction
func TestBuildSchema(t *testing.T) {
	g := buildTestGraph(t)

	if _, err := BuildSchema(staticProvider(g)); err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}
}

// TestQuery_Health tests the health field
func TestQuery_Health(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{ health }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["health"] != "ok" {
		t.Errorf("health = %v, want ok", data["health"])
	}
}

// TestQuery_Nodes tests node listing in insertion order
func TestQuery_Nodes(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{ nodes }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	nodes := result.Data.(map[string]any)["nodes"].([]any)
	want := []string{"a", "b", "c", "island"}
	if len(nodes) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, w := range want {
		if nodes[i] != w {
			t.Errorf("nodes[%d] = %v, want %s", i, nodes[i], w)
		}
	}
}

// TestQuery_HasNode tests membership checks
func TestQuery_HasNode(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{ known: hasNode(name: "a") unknown: hasNode(name: "ghost") }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["known"] != true {
		t.Errorf("hasNode(a) = %v, want true", data["known"])
	}
	if data["unknown"] != false {
		t.Errorf("hasNode(ghost) = %v, want false", data["unknown"])
	}
}

// TestQuery_Path tests the cheapest path between two nodes
func TestQuery_Path(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{
		path(start: "a", target: "c") {
			start
			target
			reachable
			totalCost
			hops
			steps { from to action weight }
		}
	}`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	path := result.Data.(map[string]any)["path"].(map[string]any)
	if path["reachable"] != true {
		t.Fatalf("reachable = %v, want true", path["reachable"])
	}
	if path["totalCost"] != 5.0 {
		t.Errorf("totalCost = %v, want 5", path["totalCost"])
	}
	if path["hops"] != 2 {
		t.Errorf("hops = %v, want 2", path["hops"])
	}

	steps := path["steps"].([]any)
	if len(steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(steps))
	}
	first := steps[0].(map[string]any)
	if first["action"] != "l1" || first["to"] != "b" {
		t.Errorf("First step = %v, want l1 to b", first)
	}
}

// TestQuery_Path_Unreachable tests that an unreachable target is a result,
// not an error
func TestQuery_Path_Unreachable(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{
		path(start: "a", target: "island") {
			reachable
			totalCost
			steps { from }
		}
	}`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	path := result.Data.(map[string]any)["path"].(map[string]any)
	if path["reachable"] != false {
		t.Errorf("reachable = %v, want false", path["reachable"])
	}
	if path["totalCost"] != nil {
		t.Errorf("totalCost = %v, want null", path["totalCost"])
	}
}

// TestQuery_Path_UnknownStart tests that a bad start is a GraphQL error
func TestQuery_Path_UnknownStart(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{ path(start: "ghost", target: "c") { reachable } }`, schema)
	if !result.HasErrors() {
		t.Fatal("Expected errors for unknown start node")
	}
}

// TestQuery_Rank tests asset ranking order and null costs
func TestQuery_Rank(t *testing.T) {
	g := buildTestGraph(t)
	schema, err := BuildSchema(staticProvider(g))
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	result := ExecuteQuery(`{
		rank(start: "a", assets: ["c", "island", "b"]) {
			asset
			cost
			reachable
		}
	}`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	entries := result.Data.(map[string]any)["rank"].([]any)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	first := entries[0].(map[string]any)
	if first["asset"] != "b" || first["cost"] != 2.0 {
		t.Errorf("First entry = %v, want b@2", first)
	}
	second := entries[1].(map[string]any)
	if second["asset"] != "c" || second["cost"] != 5.0 {
		t.Errorf("Second entry = %v, want c@5", second)
	}
	last := entries[2].(map[string]any)
	if last["asset"] != "island" || last["reachable"] != false || last["cost"] != nil {
		t.Errorf("Last entry = %v, want unreachable island with null cost", last)
	}
}

// TestQuery_ProviderSwap tests that resolvers see a swapped graph
func TestQuery_ProviderSwap(t *testing.T) {
	current := buildTestGraph(t)
	schema, err := BuildSchema(func() *graph.Graph { return current })
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	replacement := graph.New()
	if err := replacement.AddEdge("x", "y", "jump", 1); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	current = replacement

	result := ExecuteQuery(`{ nodes }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}

	nodes := result.Data.(map[string]any)["nodes"].([]any)
	if len(nodes) != 2 || nodes[0] != "x" || nodes[1] != "y" {
		t.Errorf("nodes = %v, want [x y] from the swapped graph", nodes)
	}
}
