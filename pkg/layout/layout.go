// Package layout positions dependency graph nodes for rendering.
//
// Each style implements Engine; Registry maps style names to engines.
// All engines run the shared overlap resolver after placement, so no two
// node boxes intersect in the final result.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

// Spacing constants shared across engines, in SVG user units.
const (
	Padding     = 50.0  // Canvas edge padding
	NodeSpacing = 28.0  // Gap between sibling nodes
	BandSpacing = 120.0 // Gap between bands/rings/rows
)

// Position is the top-left corner of a node box.
type Position struct {
	X float64
	Y float64
}

// Engine lays out a graph.
type Engine interface {
	Name() string
	Description() string
	Layout(g *graph.Graph, dims *dimensions.Store) (map[string]Position, error)
}

// Registry holds the available layout engines.
type Registry struct {
	engines map[string]Engine
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// DefaultRegistry returns a registry with all built-in styles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Linear{})
	r.Register(&Diagonal{})
	r.Register(&Circular{})
	r.Register(&Grouped{})
	return r
}

// Register adds an engine. Later registrations replace earlier ones.
func (r *Registry) Register(e Engine) {
	name := strings.ToLower(e.Name())
	if _, exists := r.engines[name]; !exists {
		r.order = append(r.order, name)
	}
	r.engines[name] = e
}

// Get returns the engine for a style name.
func (r *Registry) Get(name string) (Engine, error) {
	e, ok := r.engines[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown layout style %q (available: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	return e, nil
}

// Names lists registered style names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// orderedInternal returns internal nodes sorted by layer, then ID — the
// topological order every band-style layout walks.
func orderedInternal(g *graph.Graph) []*graph.Node {
	nodes := g.InternalNodes()
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Layer != nodes[j].Layer {
			return nodes[i].Layer < nodes[j].Layer
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// externalNodes returns external nodes sorted by ID.
func externalNodes(g *graph.Graph) []*graph.Node {
	var nodes []*graph.Node
	for _, n := range g.Nodes {
		if n.External {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// placeExternalColumn stacks external nodes in a column starting at x.
// Used by the band-style layouts; circular puts externals on an outer ring.
func placeExternalColumn(g *graph.Graph, dims *dimensions.Store, positions map[string]Position, x float64) {
	y := Padding
	for _, n := range externalNodes(g) {
		size := dims.Measure(n)
		positions[n.ID] = Position{X: x, Y: y}
		y += size.Height + NodeSpacing
	}
}

// finish runs overlap resolution and normalizes coordinates so the
// top-left of the bounding box sits at (Padding, Padding).
func finish(g *graph.Graph, dims *dimensions.Store, positions map[string]Position) map[string]Position {
	ResolveOverlaps(g, dims, positions)
	normalize(positions)
	return positions
}

// normalize shifts all positions so the minimum coordinate is Padding.
func normalize(positions map[string]Position) {
	if len(positions) == 0 {
		return
	}
	minX, minY := positions[firstKey(positions)].X, positions[firstKey(positions)].Y
	for _, p := range positions {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
	}
	dx, dy := Padding-minX, Padding-minY
	for id, p := range positions {
		positions[id] = Position{X: p.X + dx, Y: p.Y + dy}
	}
}

func firstKey(positions map[string]Position) string {
	for k := range positions {
		return k
	}
	return ""
}
