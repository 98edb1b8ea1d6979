package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/pathfind"
	"github.com/dd0wney/cluso-attackpath/pkg/scenario"
)

type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	errText lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{header: plain, success: plain, errText: plain, dim: plain}
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		errText: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

type CLI struct {
	scn     *scenario.Scenario
	g       *graph.Graph
	scanner *bufio.Scanner
	st      styles
}

func main() {
	scenarioPath := flag.String("scenario", "", "Scenario YAML file (empty loads the built-in demo)")
	startFlag := flag.String("start", "", "Start node (skips the prompt)")
	targetFlag := flag.String("target", "", "Target node (skips the prompt)")
	rankOnly := flag.Bool("rank-only", false, "Skip the path query and print only the asset ranking")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	flag.Parse()

	st := newStyles(*noColor)
	printBanner()

	scn, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Println(st.errText.Render(fmt.Sprintf("❌ Failed to load scenario: %v", err)))
		os.Exit(1)
	}

	g, err := scn.Build()
	if err != nil {
		fmt.Println(st.errText.Render(fmt.Sprintf("❌ Failed to build attack graph: %v", err)))
		os.Exit(1)
	}

	fmt.Println(st.success.Render(fmt.Sprintf("✅ Scenario loaded: %s", scn.Name)))
	if scn.Description != "" {
		fmt.Printf("   %s\n", scn.Description)
	}
	fmt.Printf("   Nodes: %d\n", g.NodeCount())
	fmt.Printf("   Edges: %d\n\n", g.EdgeCount())

	cli := &CLI{
		scn:     scn,
		g:       g,
		scanner: bufio.NewScanner(os.Stdin),
		st:      st,
	}

	cli.printAssets()

	start := *startFlag
	if start == "" {
		start = cli.promptNode("Start node", scn.DefaultStart)
	}

	tree, err := pathfind.ShortestPathTree(g, start)
	if err != nil {
		cli.printUnknownNode(start)
		os.Exit(1)
	}

	if !*rankOnly {
		target := *targetFlag
		if target == "" {
			target = cli.promptNode("Target node", scn.Assets[0])
		}
		if !cli.printPath(tree, target) {
			os.Exit(1)
		}
	}

	cli.printRanking(tree)
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   ██████╗██╗     ██╗   ██╗███████╗ ██████╗               ║
║  ██╔════╝██║     ██║   ██║██╔════╝██╔═══██╗              ║
║  ██║     ██║     ██║   ██║███████╗██║   ██║              ║
║  ██║     ██║     ██║   ██║╚════██║██║   ██║              ║
║  ╚██████╗███████╗╚██████╔╝███████║╚██████╔╝              ║
║   ╚═════╝╚══════╝ ╚═════╝ ╚══════╝ ╚═════╝               ║
║                                                           ║
║             Attack Path Analyzer v1.0                     ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Demo(), nil
	}
	scn, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}

func (cli *CLI) printAssets() {
	fmt.Println(cli.st.header.Render("💎 High-Value Assets"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for i, asset := range cli.scn.Assets {
		fmt.Printf("  %d. %s\n", i+1, asset)
	}
	fmt.Println()
}

// promptNode reads one node name from stdin. Empty input and EOF both take
// the fallback.
func (cli *CLI) promptNode(label, fallback string) string {
	fmt.Printf("%s [%s]: ", label, fallback)
	if !cli.scanner.Scan() {
		fmt.Println()
		return fallback
	}
	input := strings.TrimSpace(cli.scanner.Text())
	if input == "" {
		return fallback
	}
	return input
}

// printPath reports the cheapest attack path to target. An unknown target is
// a usage error; an unreachable one is a legitimate analysis result and
// renders as an infinite-cost route.
func (cli *CLI) printPath(tree *pathfind.PathTree, target string) bool {
	path, err := tree.PathTo(target)
	switch {
	case errors.Is(err, pathfind.ErrUnknownTarget):
		cli.printUnknownNode(target)
		return false
	case errors.Is(err, pathfind.ErrNotReachable):
		fmt.Println(cli.st.header.Render(fmt.Sprintf("🛤️  Attack Path: %s → %s", tree.Start(), target)))
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Printf("  %s → %s    cost ∞  (no route)\n\n", tree.Start(), target)
		return true
	}

	fmt.Println(cli.st.header.Render(fmt.Sprintf("🛤️  Attack Path: %s → %s", path.Start, path.Target)))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if path.Hops() == 0 {
		fmt.Println("  Start and target are the same node")
	}
	for i, step := range path.Steps {
		fmt.Printf("  %d. %s -[%s]-> %s  (cost %.1f)\n", i+1, step.From, step.Action, step.To, step.Weight)
	}
	fmt.Printf("\n  Total cost: %.1f    Hops: %d\n\n", path.TotalCost, path.Hops())
	return true
}

// printRanking prices every scenario asset from the tree's single run.
func (cli *CLI) printRanking(tree *pathfind.PathTree) {
	rankings := tree.Rank(cli.scn.Assets)

	fmt.Println(cli.st.header.Render(fmt.Sprintf("🎯 Asset Ranking (from %s)", tree.Start())))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  %-4s %-24s %8s  %5s\n", "#", "ASSET", "COST", "HOPS")

	for i, ac := range rankings {
		if !ac.Reachable {
			fmt.Printf("  %-4s %-24s %8s  %5s  %s\n", "-", ac.Asset, "∞", "-", cli.st.dim.Render("unreachable"))
			continue
		}
		hops := "-"
		if p, err := tree.PathTo(ac.Asset); err == nil {
			hops = fmt.Sprintf("%d", p.Hops())
		}
		fmt.Printf("  %-4d %-24s %8.1f  %5s\n", i+1, ac.Asset, ac.Cost, hops)
	}
	fmt.Println()
}

func (cli *CLI) printUnknownNode(node string) {
	fmt.Println(cli.st.errText.Render(fmt.Sprintf("❌ Unknown node: %q", node)))
	nodes := cli.g.Nodes()
	sort.Strings(nodes)
	fmt.Printf("\nKnown nodes (%d):\n", len(nodes))
	for _, n := range nodes {
		fmt.Printf("  %s\n", n)
	}
}
