// Package graphql exposes the attack graph over a small GraphQL schema:
// node listing, membership checks, shortest paths and asset rankings.
package graphql

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/pathfind"
	"github.com/graphql-go/graphql"
)

// Provider returns the graph a resolver should query. The server swaps
// graphs on scenario reload, so resolvers must not capture one directly.
type Provider func() *graph.Graph

// BuildSchema builds the GraphQL schema over the given provider
func BuildSchema(provider Provider) (graphql.Schema, error) {
	stepType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Step",
		Fields: graphql.Fields{
			"from":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"to":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"action": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"weight": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	pathResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PathResult",
		Fields: graphql.Fields{
			"start":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"target":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"reachable": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"totalCost": &graphql.Field{Type: graphql.Float},
			"hops":      &graphql.Field{Type: graphql.Int},
			"steps":     &graphql.Field{Type: graphql.NewList(stepType)},
		},
	})

	rankEntryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankEntry",
		Fields: graphql.Fields{
			"asset":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"cost":      &graphql.Field{Type: graphql.Float},
			"reachable": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return provider().Nodes(), nil
				},
			},
			"hasNode": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					name, ok := p.Args["name"].(string)
					if !ok {
						return nil, fmt.Errorf("name argument is required")
					}
					return provider().HasNode(name), nil
				},
			},
			"path": &graphql.Field{
				Type: pathResultType,
				Args: graphql.FieldConfigArgument{
					"start": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"target": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: createPathResolver(provider),
			},
			"rank": &graphql.Field{
				Type: graphql.NewList(rankEntryType),
				Args: graphql.FieldConfigArgument{
					"start": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"assets": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
					},
				},
				Resolve: createRankResolver(provider),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

// createPathResolver resolves the cheapest path between two nodes. Unknown
// endpoints surface as GraphQL errors; an unreachable target is a normal
// result with reachable set to false.
func createPathResolver(provider Provider) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		start, ok := p.Args["start"].(string)
		if !ok {
			return nil, fmt.Errorf("start argument is required")
		}
		target, ok := p.Args["target"].(string)
		if !ok {
			return nil, fmt.Errorf("target argument is required")
		}

		path, err := pathfind.ShortestPath(provider(), start, target)
		if err != nil {
			if errors.Is(err, pathfind.ErrNotReachable) {
				return map[string]any{
					"start":     start,
					"target":    target,
					"reachable": false,
				}, nil
			}
			return nil, err
		}

		steps := make([]map[string]any, 0, len(path.Steps))
		for _, step := range path.Steps {
			steps = append(steps, map[string]any{
				"from":   step.From,
				"to":     step.To,
				"action": step.Action,
				"weight": step.Weight,
			})
		}

		return map[string]any{
			"start":     path.Start,
			"target":    path.Target,
			"reachable": true,
			"totalCost": path.TotalCost,
			"hops":      path.Hops(),
			"steps":     steps,
		}, nil
	}
}

// createRankResolver prices a set of assets from one start node. Unreachable
// assets come back with a null cost.
func createRankResolver(provider Provider) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		start, ok := p.Args["start"].(string)
		if !ok {
			return nil, fmt.Errorf("start argument is required")
		}

		rawAssets, ok := p.Args["assets"].([]any)
		if !ok {
			return nil, fmt.Errorf("assets argument is required")
		}
		assets := make([]string, 0, len(rawAssets))
		for _, a := range rawAssets {
			s, ok := a.(string)
			if !ok {
				return nil, fmt.Errorf("assets must be strings")
			}
			assets = append(assets, s)
		}

		rankings, err := pathfind.RankAssets(provider(), start, assets)
		if err != nil {
			return nil, err
		}

		out := make([]map[string]any, 0, len(rankings))
		for _, ac := range rankings {
			entry := map[string]any{
				"asset":     ac.Asset,
				"reachable": ac.Reachable,
			}
			if ac.Reachable {
				entry["cost"] = ac.Cost
			}
			out = append(out, entry)
		}
		return out, nil
	}
}
