// Package scenario loads attack scenario files: YAML documents naming the
// edges of an attack graph, the assets worth ranking, the default entry
// point, and optional hub wiring that keeps the graph strongly connected at
// configurable routing cost.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Node and action labels share one identifier charset. Colons, dots and
	// dashes are allowed so entries like "srv:jumpbox" stay natural.
	labelPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_:.\-]*$`)
)

func init() {
	validate = validator.New()
}

// EdgeSpec is one directed attacker action in a scenario file.
type EdgeSpec struct {
	From   string  `yaml:"from" validate:"required"`
	To     string  `yaml:"to" validate:"required"`
	Action string  `yaml:"action" validate:"required"`
	Weight float64 `yaml:"weight" validate:"gte=0"`
}

// HubOverride prices one node's routes to and from the hub.
type HubOverride struct {
	ToHub   float64 `yaml:"to_hub" validate:"gte=0"`
	FromHub float64 `yaml:"from_hub" validate:"gte=0"`
}

// HubSpec wires every node to and from a single hub node, guaranteeing the
// graph is strongly connected. Defaults apply unless a per-node override
// prices a route differently; high override weights keep hub routes out of
// realistic attack paths while preserving connectivity.
type HubSpec struct {
	Node          string                 `yaml:"node" validate:"required"`
	ToHubWeight   float64                `yaml:"to_hub_weight" validate:"gte=0"`
	FromHubWeight float64                `yaml:"from_hub_weight" validate:"gte=0"`
	Overrides     map[string]HubOverride `yaml:"overrides"`
}

// Scenario is a complete attack graph description plus analysis defaults.
type Scenario struct {
	Name         string     `yaml:"name" validate:"required"`
	Description  string     `yaml:"description"`
	DefaultStart string     `yaml:"default_start" validate:"required"`
	Assets       []string   `yaml:"assets" validate:"required,min=1"`
	Edges        []EdgeSpec `yaml:"edges" validate:"required,min=1,dive"`
	Hub          *HubSpec   `yaml:"hub"`
}

// Load reads and parses a scenario file. The result is parsed but not yet
// validated; callers decide when to run Validate.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario document. Unknown fields are rejected so
// typos in scenario files surface immediately instead of silently vanishing.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Validate checks structural tags plus scenario-level consistency: label
// charsets, membership of the default start and every asset in the edge
// list, and hub overrides referring to known nodes.
func (s *Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool)
	for i, e := range s.Edges {
		if !labelPattern.MatchString(e.From) {
			return fmt.Errorf("edges[%d]: node %q contains invalid characters", i, e.From)
		}
		if !labelPattern.MatchString(e.To) {
			return fmt.Errorf("edges[%d]: node %q contains invalid characters", i, e.To)
		}
		if !labelPattern.MatchString(e.Action) {
			return fmt.Errorf("edges[%d]: action %q contains invalid characters", i, e.Action)
		}
		seen[e.From] = true
		seen[e.To] = true
	}

	if !seen[s.DefaultStart] {
		return fmt.Errorf("default_start %q does not appear in any edge", s.DefaultStart)
	}
	for _, asset := range s.Assets {
		if !seen[asset] {
			return fmt.Errorf("asset %q does not appear in any edge", asset)
		}
	}

	if s.Hub != nil {
		if !labelPattern.MatchString(s.Hub.Node) {
			return fmt.Errorf("hub node %q contains invalid characters", s.Hub.Node)
		}
		for node := range s.Hub.Overrides {
			if node != s.Hub.Node && !seen[node] {
				return fmt.Errorf("hub override for unknown node %q", node)
			}
		}
	}

	return nil
}

// Build constructs the attack graph: every scenario edge in file order, then
// hub wiring when configured. File order matters because adjacency order,
// and with it tie-breaking between equal-cost routes, follows insertion.
func (s *Scenario) Build() (*graph.Graph, error) {
	g := graph.New()
	for i, e := range s.Edges {
		if err := g.AddEdge(e.From, e.To, e.Action, e.Weight); err != nil {
			return nil, fmt.Errorf("scenario %q edges[%d]: %w", s.Name, i, err)
		}
	}

	if s.Hub != nil {
		if err := s.Hub.wire(g); err != nil {
			return nil, fmt.Errorf("scenario %q hub: %w", s.Name, err)
		}
	}
	return g, nil
}

// wire connects every pre-hub node, and the hub itself, to and from the hub.
func (h *HubSpec) wire(g *graph.Graph) error {
	nodes := g.Nodes()

	// Materialize the hub before routing so it is part of the node set even
	// when no scenario edge mentions it.
	if err := g.AddEdge(h.Node, h.Node, "noop", 0); err != nil {
		return err
	}
	if !containsNode(nodes, h.Node) {
		nodes = append(nodes, h.Node)
	}

	for _, node := range nodes {
		toW, fromW := h.ToHubWeight, h.FromHubWeight
		if ov, ok := h.Overrides[node]; ok {
			toW, fromW = ov.ToHub, ov.FromHub
		}
		if err := g.AddEdge(node, h.Node, "route_to_hub", toW); err != nil {
			return err
		}
		if err := g.AddEdge(h.Node, node, "route_from_hub", fromW); err != nil {
			return err
		}
	}
	return nil
}

func containsNode(nodes []string, node string) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
