package layout

import (
	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

// Diagonal steps one node right and down per position, walking the
// topological order. Every edge therefore crosses open space, which keeps
// arrows visible on small and mid-size graphs.
type Diagonal struct{}

func (d *Diagonal) Name() string { return "diagonal" }

func (d *Diagonal) Description() string {
	return "Descending staircase in topological order"
}

func (d *Diagonal) Layout(g *graph.Graph, dims *dimensions.Store) (map[string]Position, error) {
	positions := make(map[string]Position, len(g.Nodes))

	x := Padding
	y := Padding
	var maxX float64
	for _, n := range orderedInternal(g) {
		size := dims.Measure(n)
		positions[n.ID] = Position{X: x, Y: y}
		x += size.Width * 0.6
		y += size.Height + NodeSpacing
		if right := x + size.Width; right > maxX {
			maxX = right
		}
	}

	placeExternalColumn(g, dims, positions, maxX+BandSpacing)

	return finish(g, dims, positions), nil
}
