package graph

import (
	"path"
	"sort"
	"strings"

	"github.com/kestrel-tools/kestrel/pkg/scanner"
)

// Graph represents the dependency relationships between scanned units.
type Graph struct {
	Nodes  []*Node
	Edges  []*Edge
	Cycles [][]string // Circular dependency chains
	Stats  Stats

	index map[string]*Node
}

// Node is a single unit (file or package) in the graph.
type Node struct {
	ID             string // Stable identifier (relative path or import path)
	Label          string // Short display name
	Dir            string // Containing directory, used for grouping
	External       bool   // Outside the scanned tree / module
	ImportCount    int    // Outgoing edges
	DependentCount int    // Incoming edges
	Layer          int    // Inferred depth (0 = depends on nothing internal)
}

// Edge is a dependency relationship between two nodes.
type Edge struct {
	From     string
	To       string
	IsCycle  bool // Part of a circular dependency
	External bool // Target is an external node
}

// Stats provides summary metrics for a graph.
type Stats struct {
	TotalNodes     int
	InternalNodes  int
	ExternalNodes  int
	TotalEdges     int
	InternalEdges  int
	ExternalEdges  int
	UnresolvedRefs int
	CycleCount     int
	MaxLayerDepth  int
	AvgDependents  float64
}

// Build constructs the dependency graph from a scan result, detects
// circular dependencies, infers layers and computes stats. Cycles are
// data, not errors: Build never fails on cyclic input.
func Build(result *scanner.Result) *Graph {
	g := &Graph{
		Nodes:  make([]*Node, 0, len(result.Files)),
		Edges:  make([]*Edge, 0),
		Cycles: make([][]string, 0),
		index:  make(map[string]*Node),
	}

	for _, f := range result.Files {
		node := g.ensureNode(f.ID, false)
		node.Label = f.Label
		node.Dir = f.Dir
	}

	unresolved := 0
	for _, f := range result.Files {
		from := g.index[f.ID]

		for _, target := range f.Targets {
			to := g.ensureNode(target, false)
			g.Edges = append(g.Edges, &Edge{From: f.ID, To: target})
			from.ImportCount++
			to.DependentCount++
		}

		for _, ext := range f.External {
			to := g.ensureNode(ext, true)
			g.Edges = append(g.Edges, &Edge{From: f.ID, To: ext, External: true})
			from.ImportCount++
			to.DependentCount++
		}

		unresolved += len(f.Unresolved)
	}

	g.sortDeterministic()

	g.Cycles = detectCycles(g)
	for _, cycle := range g.Cycles {
		markCycleEdges(g.Edges, cycle)
	}

	inferLayers(g)

	g.Stats = calculateStats(g)
	g.Stats.UnresolvedRefs = unresolved

	return g
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.index[id]
}

// HasCycles reports whether any circular dependency was detected.
func (g *Graph) HasCycles() bool {
	return len(g.Cycles) > 0
}

// InternalNodes returns the non-external nodes in deterministic order.
func (g *Graph) InternalNodes() []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.External {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// StripExternals removes external nodes and their edges, for renders that
// only care about the project's own structure. Counters and stats are
// recomputed; cycles are unaffected since they never cross external nodes.
func (g *Graph) StripExternals() {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.External {
			delete(g.index, n.ID)
			continue
		}
		nodes = append(nodes, n)
	}
	g.Nodes = nodes

	edges := make([]*Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.External {
			if from := g.index[e.From]; from != nil {
				from.ImportCount--
			}
			continue
		}
		edges = append(edges, e)
	}
	g.Edges = edges

	unresolved := g.Stats.UnresolvedRefs
	g.Stats = calculateStats(g)
	g.Stats.UnresolvedRefs = unresolved
}

// FocusCycles keeps only the nodes that belong to a circular dependency
// and the edges between them, for renders that isolate problem areas.
// A graph without cycles becomes empty.
func (g *Graph) FocusCycles() {
	members := make(map[string]bool)
	for _, cycle := range g.Cycles {
		for _, id := range cycle {
			members[id] = true
		}
	}

	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !members[n.ID] {
			delete(g.index, n.ID)
			continue
		}
		nodes = append(nodes, n)
	}
	g.Nodes = nodes

	edges := make([]*Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if members[e.From] && members[e.To] {
			edges = append(edges, e)
		}
	}
	g.Edges = edges

	for _, n := range g.Nodes {
		n.ImportCount, n.DependentCount = 0, 0
	}
	for _, e := range g.Edges {
		g.index[e.From].ImportCount++
		g.index[e.To].DependentCount++
	}

	unresolved := g.Stats.UnresolvedRefs
	g.Stats = calculateStats(g)
	g.Stats.UnresolvedRefs = unresolved
}

// ensureNode returns the node for id, creating it if needed. Nodes created
// as edge targets get a label derived from the last path segment.
func (g *Graph) ensureNode(id string, external bool) *Node {
	if n, ok := g.index[id]; ok {
		return n
	}
	n := &Node{
		ID:       id,
		Label:    shortLabel(id),
		External: external,
	}
	g.index[id] = n
	g.Nodes = append(g.Nodes, n)
	return n
}

// sortDeterministic fixes node and edge order so layouts and renders are
// reproducible run to run.
func (g *Graph) sortDeterministic() {
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
}

// inferLayers assigns layer depths with a Kahn topological sort over the
// internal, non-cycle edges. A node's layer is one deeper than the deepest
// dependency it imports.
func inferLayers(g *Graph) {
	adjList := make(map[string][]string)
	inDegree := make(map[string]int)

	for _, node := range g.Nodes {
		if !node.External {
			inDegree[node.ID] = 0
		}
	}

	for _, edge := range g.Edges {
		if edge.External || edge.IsCycle {
			continue
		}
		if _, ok := inDegree[edge.From]; !ok {
			continue
		}
		if _, ok := inDegree[edge.To]; !ok {
			continue
		}
		// Reverse orientation: leaves (imported by everyone) sit at layer 0
		adjList[edge.To] = append(adjList[edge.To], edge.From)
		inDegree[edge.From]++
	}

	queue := make([]string, 0)
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
			g.index[id].Layer = 0
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		currentLayer := g.index[current].Layer

		for _, neighbor := range adjList[current] {
			inDegree[neighbor]--

			if n := g.index[neighbor]; n.Layer < currentLayer+1 {
				n.Layer = currentLayer + 1
			}
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}
}

// calculateStats computes summary metrics for the graph.
func calculateStats(g *Graph) Stats {
	stats := Stats{}

	for _, node := range g.Nodes {
		stats.TotalNodes++
		if node.External {
			stats.ExternalNodes++
			continue
		}
		stats.InternalNodes++
		stats.AvgDependents += float64(node.DependentCount)
		if node.Layer > stats.MaxLayerDepth {
			stats.MaxLayerDepth = node.Layer
		}
	}

	for _, edge := range g.Edges {
		stats.TotalEdges++
		if edge.External {
			stats.ExternalEdges++
		} else {
			stats.InternalEdges++
		}
	}

	stats.CycleCount = len(g.Cycles)

	if stats.InternalNodes > 0 {
		stats.AvgDependents = stats.AvgDependents / float64(stats.InternalNodes)
	}

	return stats
}

// shortLabel extracts a display name from an ID: the basename for paths,
// trimmed of noisy host prefixes for import paths.
func shortLabel(id string) string {
	base := path.Base(id)
	if base == "." || base == "/" {
		return id
	}
	// Versioned import paths like .../v2 carry no information
	if strings.HasPrefix(base, "v") && len(base) <= 3 {
		parent := path.Base(path.Dir(id))
		if parent != "." && parent != "/" {
			return parent
		}
	}
	return base
}
