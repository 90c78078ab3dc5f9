// Package svg renders a laid-out dependency graph as SVG.
package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/layout"
)

const canvasPadding = 50.0

// stylesheet is embedded in standalone SVG output so the file renders the
// same in a browser tab as inside the HTML page.
const stylesheet = `
.node { fill: #f1f5f9; stroke: #64748b; stroke-width: 1.5; }
.node-external { fill: #fafaf9; stroke: #a8a29e; stroke-dasharray: 4 3; }
.node-core { fill: #e0f2fe; stroke: #0284c7; }
.node-cycle { fill: #fef2f2; stroke: #ef4444; }
.node-label { font: 13px ui-monospace, monospace; text-anchor: middle; fill: #0f172a; }
.node-metric { font: 10px ui-monospace, monospace; text-anchor: middle; fill: #64748b; }
.edge { stroke: #94a3b8; stroke-width: 1.2; }
.edge-external { stroke: #d6d3d1; stroke-dasharray: 5 4; }
.edge-cycle { stroke: #ef4444; stroke-width: 1.8; }
`

// Renderer draws graphs using measurements from a dimension store.
type Renderer struct {
	dims *dimensions.Store
}

// NewRenderer creates a Renderer.
func NewRenderer(dims *dimensions.Store) *Renderer {
	return &Renderer{dims: dims}
}

// Render produces the complete SVG document for a laid-out graph.
func (r *Renderer) Render(g *graph.Graph, positions map[string]layout.Position) string {
	width, height := r.canvasSize(g, positions)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="dependency-graph">`,
		width, height)
	b.WriteString("\n<style>")
	b.WriteString(stylesheet)
	b.WriteString("</style>\n")
	r.writeDefs(&b)
	r.writeEdges(&b, g, positions)
	r.writeNodes(&b, g, positions)
	b.WriteString(`</svg>`)
	b.WriteByte('\n')

	return b.String()
}

// canvasSize computes the viewBox from the placed boxes.
func (r *Renderer) canvasSize(g *graph.Graph, positions map[string]layout.Position) (float64, float64) {
	var maxX, maxY float64
	for id, pos := range positions {
		n := g.Node(id)
		if n == nil {
			continue
		}
		size := r.dims.Measure(n)
		if right := pos.X + size.Width; right > maxX {
			maxX = right
		}
		if bottom := pos.Y + size.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return maxX + canvasPadding, maxY + canvasPadding
}

// writeDefs emits the arrowhead markers.
func (r *Renderer) writeDefs(b *strings.Builder) {
	b.WriteString(`<defs>`)
	b.WriteString(`<marker id="arrowhead" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">`)
	b.WriteString(`<polygon points="0 0, 10 3, 0 6" fill="#94a3b8"/>`)
	b.WriteString(`</marker>`)
	b.WriteString(`<marker id="arrowhead-cycle" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">`)
	b.WriteString(`<polygon points="0 0, 10 3, 0 6" fill="#ef4444"/>`)
	b.WriteString(`</marker>`)
	b.WriteString("</defs>\n")
}

// writeEdges draws edges first so they sit behind the node boxes.
func (r *Renderer) writeEdges(b *strings.Builder, g *graph.Graph, positions map[string]layout.Position) {
	for _, edge := range g.Edges {
		fromNode, toNode := g.Node(edge.From), g.Node(edge.To)
		if fromNode == nil || toNode == nil {
			continue
		}
		fromPos, fromOK := positions[edge.From]
		toPos, toOK := positions[edge.To]
		if !fromOK || !toOK {
			continue
		}

		fromSize := r.dims.Measure(fromNode)
		toSize := r.dims.Measure(toNode)

		x1 := fromPos.X + fromSize.Width/2
		y1 := fromPos.Y + fromSize.Height/2
		// Lines end at the target's box boundary, not its center, so the
		// arrowhead stays in front of the rect instead of under it
		x2, y2 := clipToBox(x1, y1,
			toPos.X+toSize.Width/2, toPos.Y+toSize.Height/2, toSize)

		class := "edge"
		marker := "arrowhead"
		switch {
		case edge.IsCycle:
			class += " edge-cycle"
			marker = "arrowhead-cycle"
		case edge.External:
			class += " edge-external"
		}

		fmt.Fprintf(b,
			`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="%s" marker-end="url(#%s)" data-from="%s" data-to="%s"/>`,
			x1, y1, x2, y2, class, marker, escapeAttr(edge.From), escapeAttr(edge.To))
		b.WriteByte('\n')
	}
}

// writeNodes draws node boxes with labels and a fan-in metric line.
func (r *Renderer) writeNodes(b *strings.Builder, g *graph.Graph, positions map[string]layout.Position) {
	cycleMembers := make(map[string]bool)
	for _, cycle := range g.Cycles {
		for _, id := range cycle {
			cycleMembers[id] = true
		}
	}

	for _, node := range g.Nodes {
		pos, ok := positions[node.ID]
		if !ok {
			continue
		}
		size := r.dims.Measure(node)

		class := "node"
		switch {
		case cycleMembers[node.ID]:
			class += " node-cycle"
		case node.External:
			class += " node-external"
		case node.DependentCount > 5:
			class += " node-core"
		}

		fmt.Fprintf(b, `<g class="node-group" data-id="%s" data-layer="%d">`,
			escapeAttr(node.ID), node.Layer)
		fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="%s" rx="8"/>`,
			pos.X, pos.Y, size.Width, size.Height, class)

		label := r.dims.DisplayLabel(node)
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" class="node-label">%s</text>`,
			pos.X+size.Width/2, pos.Y+size.Height/2-2, escapeText(label))

		if !node.External {
			fmt.Fprintf(b, `<text x="%.1f" y="%.1f" class="node-metric">%d in / %d out</text>`,
				pos.X+size.Width/2, pos.Y+size.Height/2+12,
				node.DependentCount, node.ImportCount)
		}

		b.WriteString("</g>\n")
	}
}

// clipToBox walks the endpoint back from the box center (cx, cy) toward
// (x1, y1) until it sits on the box edge. Coincident points stay put.
func clipToBox(x1, y1, cx, cy float64, size dimensions.Size) (float64, float64) {
	dx := x1 - cx
	dy := y1 - cy
	if dx == 0 && dy == 0 {
		return cx, cy
	}

	t := math.Inf(1)
	if dx != 0 {
		t = (size.Width / 2) / math.Abs(dx)
	}
	if dy != 0 {
		if ty := (size.Height / 2) / math.Abs(dy); ty < t {
			t = ty
		}
	}
	// Boxes that overlap the source keep the center-to-center line
	if t > 1 {
		t = 1
	}

	return cx + dx*t, cy + dy*t
}

// escapeAttr escapes strings for use in XML attributes.
func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeText escapes strings for use in XML text content.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
