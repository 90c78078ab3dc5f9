package layout

import (
	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

// Linear lays internal nodes in a single horizontal band, walking the
// topological order left to right. Nodes of the same layer share a small
// vertical offset so dense graphs stay readable.
type Linear struct{}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) Description() string {
	return "Single horizontal band in topological order"
}

func (l *Linear) Layout(g *graph.Graph, dims *dimensions.Store) (map[string]Position, error) {
	positions := make(map[string]Position, len(g.Nodes))

	x := Padding
	for _, n := range orderedInternal(g) {
		size := dims.Measure(n)
		// Stagger alternating layers slightly so edge lines between
		// neighbors don't run through intermediate boxes
		y := Padding + float64(n.Layer%2)*(size.Height+NodeSpacing)

		positions[n.ID] = Position{X: x, Y: y}
		x += size.Width + NodeSpacing
	}

	placeExternalColumn(g, dims, positions, x+BandSpacing)

	return finish(g, dims, positions), nil
}
