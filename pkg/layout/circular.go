package layout

import (
	"math"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

const (
	minRadius       = 120.0
	outerRingFactor = 1.45 // External ring radius relative to the inner ring
)

// Circular places internal nodes evenly on a circle sized so every box
// fits on the arc, with external nodes on an outer ring. Cycle chains read
// naturally on this style, so it is the default.
type Circular struct{}

func (c *Circular) Name() string { return "circular" }

func (c *Circular) Description() string {
	return "Nodes on a circle, externals on an outer ring"
}

func (c *Circular) Layout(g *graph.Graph, dims *dimensions.Store) (map[string]Position, error) {
	positions := make(map[string]Position, len(g.Nodes))

	internal := orderedInternal(g)
	radius := ringRadius(internal, dims)
	center := radius * outerRingFactor // Leaves room for the outer ring

	placeRing(internal, dims, positions, center, center, radius)

	externals := externalNodes(g)
	placeRing(externals, dims, positions, center, center, radius*outerRingFactor)

	return finish(g, dims, positions), nil
}

// ringRadius sizes the circle so the summed box widths plus spacing fit
// the circumference.
func ringRadius(nodes []*graph.Node, dims *dimensions.Store) float64 {
	perimeter := 0.0
	for _, n := range nodes {
		perimeter += dims.Measure(n).Width + NodeSpacing
	}
	radius := perimeter / (2 * math.Pi)
	if radius < minRadius {
		radius = minRadius
	}
	return radius
}

// placeRing distributes nodes evenly on a circle, box centers on the arc.
// Placement starts at twelve o'clock and proceeds clockwise.
func placeRing(nodes []*graph.Node, dims *dimensions.Store, positions map[string]Position, cx, cy, radius float64) {
	if len(nodes) == 0 {
		return
	}
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		size := dims.Measure(n)
		angle := -math.Pi/2 + float64(i)*step
		x := cx + radius*math.Cos(angle) - size.Width/2
		y := cy + radius*math.Sin(angle) - size.Height/2
		positions[n.ID] = Position{X: x, Y: y}
	}
}
