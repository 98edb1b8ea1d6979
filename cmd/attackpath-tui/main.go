package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-attackpath/pkg/graph"
	"github.com/dd0wney/cluso-attackpath/pkg/pathfind"
	"github.com/dd0wney/cluso-attackpath/pkg/scenario"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	pathView
	rankingView
	exposureView
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run query"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	scn         *scenario.Scenario
	g           *graph.Graph
	tree        *pathfind.PathTree
	currentView view
	queryInput  textinput.Model
	rankTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	lastPath    *pathfind.Path
	maxHops     int
	exposure    *pathfind.Exposure
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(scn *scenario.Scenario, g *graph.Graph, tree *pathfind.PathTree) model {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%s %s", scn.DefaultStart, scn.Assets[0])
	ti.CharLimit = 120
	ti.Width = 60

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Asset", Width: 26},
		{Title: "Cost", Width: 10},
		{Title: "Hops", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		scn:         scn,
		g:           g,
		tree:        tree,
		currentView: overviewView,
		queryInput:  ti,
		rankTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		maxHops:     3,
	}
	m.refreshRanking()
	m.refreshExposure()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % 4
			if m.currentView == pathView {
				m.queryInput.Focus()
			} else {
				m.queryInput.Blur()
			}

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = 3
			} else {
				m.currentView--
			}
			if m.currentView == pathView {
				m.queryInput.Focus()
			} else {
				m.queryInput.Blur()
			}

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == pathView && m.queryInput.Focused() {
				m.executeQuery()
			}

		case key.Matches(msg, m.keys.Up):
			if m.currentView == exposureView {
				m.adjustHops(1)
			}

		case key.Matches(msg, m.keys.Down):
			if m.currentView == exposureView {
				m.adjustHops(-1)
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case pathView:
		m.queryInput, cmd = m.queryInput.Update(msg)
		cmds = append(cmds, cmd)
	case rankingView:
		m.rankTable, cmd = m.rankTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// executeQuery runs one shortest-path computation for the typed start and
// target. The resulting tree also reprices the ranking and exposure views, so
// every tab reflects the most recent start node.
func (m *model) executeQuery() {
	fields := strings.Fields(m.queryInput.Value())
	if len(fields) != 2 {
		m.message = "Enter a start and a target separated by a space"
		m.messageErr = true
		return
	}
	start, target := fields[0], fields[1]

	began := time.Now()
	tree, err := pathfind.ShortestPathTree(m.g, start)
	if err != nil {
		m.message = fmt.Sprintf("Unknown start node %q", start)
		m.messageErr = true
		return
	}
	m.tree = tree
	m.refreshRanking()
	m.refreshExposure()

	path, err := tree.PathTo(target)
	switch {
	case errors.Is(err, pathfind.ErrUnknownTarget):
		m.lastPath = nil
		m.message = fmt.Sprintf("Unknown target node %q", target)
		m.messageErr = true
	case errors.Is(err, pathfind.ErrNotReachable):
		m.lastPath = nil
		m.message = fmt.Sprintf("No route: %s cannot reach %s (cost ∞)", start, target)
		m.messageErr = false
	default:
		m.lastPath = path
		m.message = fmt.Sprintf("Found %d-hop path at cost %.1f in %s",
			path.Hops(), path.TotalCost, time.Since(began).Round(time.Microsecond))
		m.messageErr = false
	}
}

func (m *model) refreshRanking() {
	rankings := m.tree.Rank(m.scn.Assets)

	rows := make([]table.Row, 0, len(rankings))
	for i, ac := range rankings {
		cost := "∞"
		hops := "-"
		rank := "-"
		if ac.Reachable {
			rank = fmt.Sprintf("%d", i+1)
			cost = fmt.Sprintf("%.1f", ac.Cost)
			if p, err := m.tree.PathTo(ac.Asset); err == nil {
				hops = fmt.Sprintf("%d", p.Hops())
			}
		}
		rows = append(rows, table.Row{rank, ac.Asset, cost, hops})
	}
	m.rankTable.SetRows(rows)
}

func (m *model) refreshExposure() {
	exp, err := pathfind.HopExposure(m.g, m.tree.Start(), m.maxHops)
	if err != nil {
		m.message = fmt.Sprintf("Exposure error: %v", err)
		m.messageErr = true
		return
	}
	m.exposure = exp
}

func (m *model) adjustHops(delta int) {
	next := m.maxHops + delta
	if next < 1 || next > 8 {
		return
	}
	m.maxHops = next
	m.refreshExposure()
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("🔥 Cluso AttackPath - Scenario Explorer"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Content based on current view
	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case pathView:
		s.WriteString(m.renderPath())
	case rankingView:
		s.WriteString(m.renderRanking())
	case exposureView:
		s.WriteString(m.renderExposure())
	}

	// Message
	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	// Help
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Overview", "Path", "Ranking", "Exposure"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderOverview() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`📊 Scenario
━━━━━━━━━━━━━━━━━━━
Name:      %s
Nodes:     %d
Edges:     %d
Assets:    %d
Start:     %s
Uptime:    %s`,
		m.scn.Name,
		m.g.NodeCount(),
		m.g.EdgeCount(),
		len(m.scn.Assets),
		m.scn.DefaultStart,
		uptime,
	)

	quickActions := `⚡ Quick Actions
━━━━━━━━━━━━━━━━━━━
[Tab]       Navigate views
[Enter]     Run path query
[↑/↓]       Scroll / hop limit
[q]         Quit

🎯 Views
━━━━━━━━━━━━━━━━━━━
• Path      cheapest attack route
• Ranking   asset costs, one run
• Exposure  hop-count blast radius`

	statsBox := statsBoxStyle.Render(statsContent)
	actionsBox := statsBoxStyle.Render(quickActions)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, actionsBox),
	)
}

func (m model) renderPath() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Path Query"))
	s.WriteString("\n\n")

	s.WriteString("Enter start and target nodes:\n\n")
	s.WriteString(m.queryInput.View())
	s.WriteString("\n\n")

	if m.lastPath != nil {
		s.WriteString(fmt.Sprintf("%s → %s  (cost %.1f, %d hops)\n\n",
			m.lastPath.Start, m.lastPath.Target, m.lastPath.TotalCost, m.lastPath.Hops()))
		for i, step := range m.lastPath.Steps {
			s.WriteString(fmt.Sprintf("  %d. %s -[%s]-> %s  (cost %.1f)\n",
				i+1, step.From, step.Action, step.To, step.Weight))
		}
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("Examples:\n"))
	s.WriteString(helpStyle.Render(fmt.Sprintf("  %s %s\n", m.scn.DefaultStart, m.scn.Assets[0])))
	if len(m.scn.Assets) > 1 {
		s.WriteString(helpStyle.Render(fmt.Sprintf("  %s %s\n", m.scn.DefaultStart, m.scn.Assets[1])))
	}

	return contentStyle.Render(s.String())
}

func (m model) renderRanking() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf("Asset Ranking from %s", m.tree.Start())))
	s.WriteString("\n\n")

	s.WriteString(m.rankTable.View())

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("All costs priced from one shortest-path run • Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderExposure() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf("Exposure from %s (max %d hops)", m.exposure.Start, m.exposure.MaxHops)))
	s.WriteString("\n\n")

	if m.exposure.TotalReachable == 0 {
		s.WriteString("No nodes reachable within the hop limit\n")
	}

	for hop := 1; hop <= m.exposure.MaxHops; hop++ {
		nodes := m.exposure.ByHop[hop]
		if len(nodes) == 0 {
			continue
		}
		s.WriteString(fmt.Sprintf("Hop %d (%d nodes):\n", hop, len(nodes)))
		for _, n := range nodes {
			s.WriteString(fmt.Sprintf("  ◉ %s\n", n))
		}
		s.WriteString("\n")
	}

	s.WriteString(fmt.Sprintf("Total reachable within %d hops: %d\n", m.exposure.MaxHops, m.exposure.TotalReachable))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓ adjust the hop limit"))

	return contentStyle.Render(s.String())
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

func main() {
	scenarioPath := flag.String("scenario", "", "Scenario YAML file (empty loads the built-in demo)")
	flag.Parse()

	scn, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	g, err := scn.Build()
	if err != nil {
		log.Fatalf("Failed to build attack graph: %v", err)
	}

	tree, err := pathfind.ShortestPathTree(g, scn.DefaultStart)
	if err != nil {
		log.Fatalf("Failed to analyze scenario: %v", err)
	}

	p := tea.NewProgram(initialModel(scn, g, tree), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
