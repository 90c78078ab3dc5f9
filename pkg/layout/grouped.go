package layout

import (
	"math"
	"sort"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

const (
	groupSpacing  = 90.0 // Gap between group tiles
	groupRowLimit = 4    // Nodes per row inside a group
	externalGroup = "(external)"
)

// Grouped clusters nodes by containing directory and tiles the clusters in
// a grid. Members lay out in rows inside their cluster. External nodes form
// their own trailing cluster.
type Grouped struct{}

func (gr *Grouped) Name() string { return "grouped" }

func (gr *Grouped) Description() string {
	return "Nodes clustered by directory, clusters tiled in a grid"
}

func (gr *Grouped) Layout(g *graph.Graph, dims *dimensions.Store) (map[string]Position, error) {
	positions := make(map[string]Position, len(g.Nodes))

	groups := make(map[string][]*graph.Node)
	for _, n := range orderedInternal(g) {
		key := n.Dir
		if key == "" {
			key = "."
		}
		groups[key] = append(groups[key], n)
	}
	if ext := externalNodes(g); len(ext) > 0 {
		groups[externalGroup] = ext
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	// External cluster renders last regardless of sort order
	for i, name := range names {
		if name == externalGroup {
			names = append(append(names[:i], names[i+1:]...), externalGroup)
			break
		}
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(names)))))
	if cols < 1 {
		cols = 1
	}

	// Tile groups in a grid. Each grid row is as tall as its tallest
	// group, each column as wide as its widest member tile.
	x, y := Padding, Padding
	rowHeight := 0.0
	for i, name := range names {
		w, h := placeGroup(groups[name], dims, positions, x, y)

		if h > rowHeight {
			rowHeight = h
		}
		x += w + groupSpacing

		if (i+1)%cols == 0 {
			x = Padding
			y += rowHeight + groupSpacing
			rowHeight = 0
		}
	}

	return finish(g, dims, positions), nil
}

// placeGroup lays members in rows of groupRowLimit and returns the tile
// extent.
func placeGroup(nodes []*graph.Node, dims *dimensions.Store, positions map[string]Position, originX, originY float64) (width, height float64) {
	x, y := originX, originY
	rowHeight := 0.0

	for i, n := range nodes {
		size := dims.Measure(n)
		positions[n.ID] = Position{X: x, Y: y}

		if size.Height > rowHeight {
			rowHeight = size.Height
		}
		if right := x + size.Width - originX; right > width {
			width = right
		}
		x += size.Width + NodeSpacing

		if (i+1)%groupRowLimit == 0 {
			x = originX
			y += rowHeight + NodeSpacing
			rowHeight = 0
		}
	}

	height = y + rowHeight - originY
	return width, height
}
