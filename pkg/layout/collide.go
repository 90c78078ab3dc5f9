package layout

import (
	"math"
	"sort"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
)

const (
	collideMargin   = 6.0 // Minimum gap kept between boxes
	collideMaxIters = 60
)

// ResolveOverlaps separates intersecting node boxes in place. Pairs are
// visited in deterministic ID order and pushed apart along the axis of
// least penetration, half the distance each, until no overlaps remain or
// the iteration cap is hit.
func ResolveOverlaps(g *graph.Graph, dims *dimensions.Store, positions map[string]Position) {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sizes := make(map[string]dimensions.Size, len(ids))
	for _, id := range ids {
		if n := g.Node(id); n != nil {
			sizes[id] = dims.Measure(n)
		}
	}

	for iter := 0; iter < collideMaxIters; iter++ {
		moved := false

		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if separate(positions, sizes, a, b) {
					moved = true
				}
			}
		}

		if !moved {
			return
		}
	}
}

// separate pushes two boxes apart if they overlap. Returns true when a
// move happened.
func separate(positions map[string]Position, sizes map[string]dimensions.Size, a, b string) bool {
	pa, pb := positions[a], positions[b]
	sa, sb := sizes[a], sizes[b]

	// Penetration depth per axis, including the margin
	overlapX := math.Min(pa.X+sa.Width, pb.X+sb.Width) - math.Max(pa.X, pb.X) + collideMargin
	overlapY := math.Min(pa.Y+sa.Height, pb.Y+sb.Height) - math.Max(pa.Y, pb.Y) + collideMargin
	if overlapX <= collideMargin || overlapY <= collideMargin {
		return false
	}

	if overlapX < overlapY {
		shift := overlapX / 2
		if centerX(pa, sa) <= centerX(pb, sb) {
			pa.X -= shift
			pb.X += shift
		} else {
			pa.X += shift
			pb.X -= shift
		}
	} else {
		shift := overlapY / 2
		if centerY(pa, sa) <= centerY(pb, sb) {
			pa.Y -= shift
			pb.Y += shift
		} else {
			pa.Y += shift
			pb.Y -= shift
		}
	}

	positions[a] = pa
	positions[b] = pb
	return true
}

func centerX(p Position, s dimensions.Size) float64 { return p.X + s.Width/2 }
func centerY(p Position, s dimensions.Size) float64 { return p.Y + s.Height/2 }
