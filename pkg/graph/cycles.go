package graph

import (
	"sort"
	"strings"
)

// detectCycles finds circular dependencies among internal nodes. The DFS
// restarts at every node in ID order and records chains that close back on
// the start node, so overlapping cycles sharing nodes or edges are each
// reported. Traversal only descends to nodes that sort after the start,
// which enumerates every cycle exactly once, from its smallest member.
func detectCycles(g *Graph) [][]string {
	adjList := make(map[string][]string)
	for _, edge := range g.Edges {
		if edge.External {
			continue
		}
		adjList[edge.From] = append(adjList[edge.From], edge.To)
	}

	roots := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.External {
			roots = append(roots, n.ID)
		}
	}
	sort.Strings(roots)

	var cycles [][]string
	seen := make(map[string]bool) // canonical form -> reported
	onPath := make(map[string]bool)
	var path []string

	for _, root := range roots {
		var dfs func(node string)
		dfs = func(node string) {
			onPath[node] = true
			path = append(path, node)

			for _, neighbor := range adjList[node] {
				if neighbor == root {
					cycle := make([]string, len(path))
					copy(cycle, path)
					key := canonicalCycle(cycle)
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
					continue
				}
				if neighbor < root || onPath[neighbor] {
					continue
				}
				dfs(neighbor)
			}

			onPath[node] = false
			path = path[:len(path)-1]
		}
		dfs(root)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], "\x00") < strings.Join(cycles[j], "\x00")
	})

	return cycles
}

// canonicalCycle produces a rotation-independent key for a cycle chain.
func canonicalCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return strings.Join(rotated, "\x00")
}

// markCycleEdges marks edges that are part of a circular dependency.
func markCycleEdges(edges []*Edge, cycle []string) {
	for i := 0; i < len(cycle); i++ {
		from := cycle[i]
		to := cycle[(i+1)%len(cycle)]

		for _, edge := range edges {
			if edge.From == from && edge.To == to {
				edge.IsCycle = true
			}
		}
	}
}
