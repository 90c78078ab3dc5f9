package svg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/layout"
	"github.com/kestrel-tools/kestrel/pkg/scanner"
)

func renderFixture(t *testing.T) (string, *graph.Graph) {
	t.Helper()

	g := graph.Build(&scanner.Result{
		RootPath: "/fixture",
		Files: []*scanner.FileDep{
			{ID: "consumer.js", Label: "consumer.js", Targets: []string{"provider.js"}, External: []string{"express"}},
			{ID: "provider.js", Label: "provider.js", Targets: []string{"consumer.js"}},
		},
	})

	dims := dimensions.NewStore(dimensions.Options{})
	dims.Prime(g)

	engine, err := layout.DefaultRegistry().Get("circular")
	if err != nil {
		t.Fatal(err)
	}
	positions, err := engine.Layout(g, dims)
	if err != nil {
		t.Fatal(err)
	}

	return NewRenderer(dims).Render(g, positions), g
}

func TestRender_Document(t *testing.T) {
	out, g := renderFixture(t)

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg root element")
	}
	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Error("missing viewBox")
	}
	if !strings.Contains(out, `<marker id="arrowhead"`) {
		t.Error("missing arrowhead marker")
	}
	if !strings.Contains(out, `<marker id="arrowhead-cycle"`) {
		t.Error("missing cycle arrowhead marker")
	}

	for _, n := range g.Nodes {
		if !strings.Contains(out, `data-id="`+n.ID+`"`) {
			t.Errorf("node %s not rendered", n.ID)
		}
	}
}

func TestRender_CycleStyling(t *testing.T) {
	out, g := renderFixture(t)

	if !g.HasCycles() {
		t.Fatal("fixture should contain a cycle")
	}
	if !strings.Contains(out, "edge-cycle") {
		t.Error("cycle edges not styled")
	}
	if !strings.Contains(out, "node-cycle") {
		t.Error("cycle members not styled")
	}
	if !strings.Contains(out, `marker-end="url(#arrowhead-cycle)"`) {
		t.Error("cycle edges missing the cycle arrowhead")
	}
}

func TestRender_ExternalStyling(t *testing.T) {
	out, _ := renderFixture(t)

	if !strings.Contains(out, "node-external") {
		t.Error("external node not styled")
	}
	if !strings.Contains(out, "edge-external") {
		t.Error("external edge not styled")
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	g := graph.Build(&scanner.Result{
		RootPath: "/fixture",
		Files: []*scanner.FileDep{
			{ID: `a<b>&"c.js`, Label: `a<b>&"c.js`},
		},
	})
	dims := dimensions.NewStore(dimensions.Options{})
	dims.Prime(g)

	out := NewRenderer(dims).Render(g, map[string]layout.Position{
		`a<b>&"c.js`: {X: 10, Y: 10},
	})

	if strings.Contains(out, `data-id="a<b>`) {
		t.Error("attribute not escaped")
	}
	if !strings.Contains(out, "&lt;b&gt;") {
		t.Error("text content not escaped")
	}
}

func TestClipToBox(t *testing.T) {
	size := dimensions.Size{Width: 60, Height: 44}

	// Source directly left of the target: the line stops at the left edge
	x, y := clipToBox(0, 50, 130, 50, size)
	if x != 100 || y != 50 {
		t.Errorf("horizontal clip = (%.1f, %.1f), want (100, 50)", x, y)
	}

	// Source directly above: the line stops at the top edge
	x, y = clipToBox(130, 0, 130, 50, size)
	if x != 130 || y != 28 {
		t.Errorf("vertical clip = (%.1f, %.1f), want (130, 28)", x, y)
	}

	// Source inside the box keeps the center endpoint
	x, y = clipToBox(135, 52, 130, 50, size)
	if x != 135 || y != 52 {
		t.Errorf("overlapping clip = (%.1f, %.1f), want (135, 52)", x, y)
	}

	// Degenerate zero-length edge
	x, y = clipToBox(130, 50, 130, 50, size)
	if x != 130 || y != 50 {
		t.Errorf("degenerate clip = (%.1f, %.1f), want (130, 50)", x, y)
	}
}

func TestRender_EdgeStopsAtTargetBoundary(t *testing.T) {
	g := graph.Build(&scanner.Result{
		RootPath: "/fixture",
		Files: []*scanner.FileDep{
			{ID: "a.js", Label: "a.js", Targets: []string{"b.js"}},
			{ID: "b.js", Label: "b.js"},
		},
	})
	dims := dimensions.NewStore(dimensions.Options{})
	dims.Prime(g)

	positions := map[string]layout.Position{
		"a.js": {X: 0, Y: 0},
		"b.js": {X: 400, Y: 0},
	}
	out := NewRenderer(dims).Render(g, positions)

	bSize := dims.Measure(g.Node("b.js"))
	center := fmt.Sprintf(`x2="%.1f"`, 400+bSize.Width/2)
	boundary := fmt.Sprintf(`x2="%.1f"`, 400.0)
	if strings.Contains(out, center) {
		t.Error("edge still ends at the target center")
	}
	if !strings.Contains(out, boundary) {
		t.Errorf("edge does not end at the target's left edge: want %s", boundary)
	}
}

func TestRenderPage(t *testing.T) {
	g := graph.Build(&scanner.Result{
		RootPath: "/fixture",
		Files: []*scanner.FileDep{
			{ID: "a.js", Label: "a.js", Targets: []string{"b.js"}},
			{ID: "b.js", Label: "b.js", Targets: []string{"a.js"}},
		},
	})
	dims := dimensions.NewStore(dimensions.Options{})
	dims.Prime(g)

	engine, _ := layout.DefaultRegistry().Get("linear")
	positions, err := engine.Layout(g, dims)
	if err != nil {
		t.Fatal(err)
	}

	page, err := NewRenderer(dims).RenderPage(g, positions, "Fixture", "/fixture", "linear")
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(page, "<svg") {
		t.Error("page does not embed the SVG")
	}
	if !strings.Contains(page, "Circular dependencies") {
		t.Error("cycle section missing")
	}
	if !strings.Contains(page, "a.js") {
		t.Error("cycle chain missing")
	}
}
