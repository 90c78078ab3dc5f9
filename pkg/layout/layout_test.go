package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/scanner"
)

// fixtureGraph builds a small project with layers, a cycle and externals.
func fixtureGraph() *graph.Graph {
	return graph.Build(&scanner.Result{
		RootPath: "/fixture",
		Files: []*scanner.FileDep{
			{ID: "src/main.js", Label: "main.js", Dir: "src", Targets: []string{"src/app.js"}},
			{ID: "src/app.js", Label: "app.js", Dir: "src", Targets: []string{"src/store/state.js", "src/util.js"}, External: []string{"express"}},
			{ID: "src/util.js", Label: "util.js", Dir: "src", Targets: []string{"src/store/state.js"}},
			{ID: "src/store/state.js", Label: "state.js", Dir: "src/store", Targets: []string{"src/store/actions.js"}},
			{ID: "src/store/actions.js", Label: "actions.js", Dir: "src/store", Targets: []string{"src/store/state.js"}},
		},
	})
}

// wideGraph returns n mutually independent nodes, enough to stress overlap
// resolution.
func wideGraph(n int) *graph.Graph {
	files := make([]*scanner.FileDep, n)
	for i := range files {
		id := fmt.Sprintf("mod%02d.js", i)
		files[i] = &scanner.FileDep{ID: id, Label: id}
	}
	return graph.Build(&scanner.Result{RootPath: "/w", Files: files})
}

func assertNoOverlaps(t *testing.T, g *graph.Graph, dims *dimensions.Store, positions map[string]Position) {
	t.Helper()

	type box struct {
		id   string
		x, y float64
		w, h float64
	}
	var boxes []box
	for id, p := range positions {
		n := g.Node(id)
		if n == nil {
			t.Fatalf("position for unknown node %q", id)
		}
		s := dims.Measure(n)
		boxes = append(boxes, box{id, p.X, p.Y, s.Width, s.Height})
	}

	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			a, b := boxes[i], boxes[j]
			if a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h {
				t.Errorf("boxes overlap: %s and %s", a.id, b.id)
			}
		}
	}
}

func TestStyles_AllNodesPlacedNoOverlaps(t *testing.T) {
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			g := fixtureGraph()
			dims := dimensions.NewStore(dimensions.Options{})
			dims.Prime(g)

			engine, err := DefaultRegistry().Get(name)
			if err != nil {
				t.Fatal(err)
			}

			positions, err := engine.Layout(g, dims)
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}

			if len(positions) != len(g.Nodes) {
				t.Errorf("placed %d of %d nodes", len(positions), len(g.Nodes))
			}
			for _, n := range g.Nodes {
				if _, ok := positions[n.ID]; !ok {
					t.Errorf("node %s has no position", n.ID)
				}
			}

			assertNoOverlaps(t, g, dims, positions)
		})
	}
}

func TestStyles_DenseGraphStillSeparates(t *testing.T) {
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			g := wideGraph(40)
			dims := dimensions.NewStore(dimensions.Options{})
			dims.Prime(g)

			engine, _ := DefaultRegistry().Get(name)
			positions, err := engine.Layout(g, dims)
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}

			assertNoOverlaps(t, g, dims, positions)
		})
	}
}

func TestStyles_Deterministic(t *testing.T) {
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			run := func() map[string]Position {
				g := fixtureGraph()
				dims := dimensions.NewStore(dimensions.Options{})
				dims.Prime(g)
				engine, _ := DefaultRegistry().Get(name)
				positions, err := engine.Layout(g, dims)
				if err != nil {
					t.Fatal(err)
				}
				return positions
			}

			p1, p2 := run(), run()
			for id, pos := range p1 {
				if p2[id] != pos {
					t.Errorf("node %s moved between runs: %v vs %v", id, pos, p2[id])
				}
			}
		})
	}
}

func TestRegistry_UnknownStyle(t *testing.T) {
	_, err := DefaultRegistry().Get("spiral")
	if err == nil {
		t.Fatal("expected error for unknown style")
	}
	if !strings.Contains(err.Error(), "circular") {
		t.Errorf("error should list available styles: %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	names := DefaultRegistry().Names()
	want := []string{"linear", "diagonal", "circular", "grouped"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNormalize_ShiftsIntoCanvas(t *testing.T) {
	positions := map[string]Position{
		"a": {X: -100, Y: -40},
		"b": {X: 10, Y: 20},
	}
	normalize(positions)

	if positions["a"].X != Padding || positions["a"].Y != Padding {
		t.Errorf("minimum corner = %v, want (%v, %v)", positions["a"], Padding, Padding)
	}
	if positions["b"].X != Padding+110 || positions["b"].Y != Padding+60 {
		t.Errorf("relative offset not preserved: %v", positions["b"])
	}
}
