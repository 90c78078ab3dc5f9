package graph

import (
	"testing"

	"github.com/kestrel-tools/kestrel/pkg/scanner"
)

func result(files ...*scanner.FileDep) *scanner.Result {
	return &scanner.Result{RootPath: "/fixture", Files: files}
}

func dep(id string, targets ...string) *scanner.FileDep {
	return &scanner.FileDep{ID: id, Label: id, Targets: targets}
}

func TestBuild_NodesAndEdges(t *testing.T) {
	g := Build(result(
		dep("consumer.js", "provider.js"),
		dep("provider.js"),
	))

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}

	e := g.Edges[0]
	if e.From != "consumer.js" || e.To != "provider.js" {
		t.Errorf("edge = %s -> %s", e.From, e.To)
	}

	if g.Node("consumer.js").ImportCount != 1 {
		t.Error("consumer ImportCount != 1")
	}
	if g.Node("provider.js").DependentCount != 1 {
		t.Error("provider DependentCount != 1")
	}
}

func TestBuild_ExternalNodes(t *testing.T) {
	g := Build(result(&scanner.FileDep{
		ID:       "app.js",
		Label:    "app.js",
		External: []string{"express", "lodash"},
	}))

	if g.Stats.ExternalNodes != 2 {
		t.Errorf("ExternalNodes = %d, want 2", g.Stats.ExternalNodes)
	}
	if g.Stats.InternalNodes != 1 {
		t.Errorf("InternalNodes = %d, want 1", g.Stats.InternalNodes)
	}
	if g.Stats.ExternalEdges != 2 {
		t.Errorf("ExternalEdges = %d, want 2", g.Stats.ExternalEdges)
	}

	express := g.Node("express")
	if express == nil || !express.External {
		t.Fatal("express should be an external node")
	}
}

func TestBuild_DetectsCycle(t *testing.T) {
	g := Build(result(
		dep("a.js", "b.js"),
		dep("b.js", "c.js"),
		dep("c.js", "a.js"),
	))

	if !g.HasCycles() {
		t.Fatal("expected a cycle")
	}
	if len(g.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(g.Cycles), g.Cycles)
	}
	if len(g.Cycles[0]) != 3 {
		t.Errorf("cycle length = %d, want 3", len(g.Cycles[0]))
	}

	marked := 0
	for _, e := range g.Edges {
		if e.IsCycle {
			marked++
		}
	}
	if marked != 3 {
		t.Errorf("cycle edges marked = %d, want 3", marked)
	}
}

func TestBuild_TwoNodeCycle(t *testing.T) {
	g := Build(result(
		dep("x.js", "y.js"),
		dep("y.js", "x.js"),
	))

	if len(g.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(g.Cycles), g.Cycles)
	}
}

func TestBuild_MultipleDisjointCycles(t *testing.T) {
	g := Build(result(
		dep("a.js", "b.js"),
		dep("b.js", "a.js"),
		dep("c.js", "d.js"),
		dep("d.js", "c.js"),
		dep("standalone.js"),
	))

	if len(g.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(g.Cycles), g.Cycles)
	}
	if g.Stats.CycleCount != 2 {
		t.Errorf("Stats.CycleCount = %d, want 2", g.Stats.CycleCount)
	}
}

func TestBuild_OverlappingCycles(t *testing.T) {
	g := Build(result(
		dep("a.js", "b.js", "c.js"),
		dep("b.js", "c.js"),
		dep("c.js", "a.js"),
	))

	if len(g.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(g.Cycles), g.Cycles)
	}

	want := [][]string{
		{"a.js", "b.js", "c.js"},
		{"a.js", "c.js"},
	}
	for i, cycle := range want {
		if len(g.Cycles[i]) != len(cycle) {
			t.Fatalf("cycle %d = %v, want %v", i, g.Cycles[i], cycle)
		}
		for j := range cycle {
			if g.Cycles[i][j] != cycle[j] {
				t.Errorf("cycle %d = %v, want %v", i, g.Cycles[i], cycle)
				break
			}
		}
	}

	// Every edge sits on at least one of the two cycles
	for _, e := range g.Edges {
		if !e.IsCycle {
			t.Errorf("edge %s -> %s not marked as cycle", e.From, e.To)
		}
	}
}

func TestBuild_AcyclicHasNoCycles(t *testing.T) {
	g := Build(result(
		dep("main.js", "util.js", "config.js"),
		dep("util.js", "config.js"),
		dep("config.js"),
	))

	if g.HasCycles() {
		t.Errorf("unexpected cycles: %v", g.Cycles)
	}
}

func TestBuild_LayerInference(t *testing.T) {
	g := Build(result(
		dep("main.js", "service.js"),
		dep("service.js", "store.js"),
		dep("store.js"),
	))

	if got := g.Node("store.js").Layer; got != 0 {
		t.Errorf("store layer = %d, want 0", got)
	}
	if got := g.Node("service.js").Layer; got != 1 {
		t.Errorf("service layer = %d, want 1", got)
	}
	if got := g.Node("main.js").Layer; got != 2 {
		t.Errorf("main layer = %d, want 2", got)
	}
	if g.Stats.MaxLayerDepth != 2 {
		t.Errorf("MaxLayerDepth = %d, want 2", g.Stats.MaxLayerDepth)
	}
}

func TestBuild_DeterministicOrder(t *testing.T) {
	build := func() *Graph {
		return Build(result(
			dep("z.js", "a.js"),
			dep("m.js", "z.js", "a.js"),
			dep("a.js"),
		))
	}

	g1 := build()
	g2 := build()

	for i := range g1.Nodes {
		if g1.Nodes[i].ID != g2.Nodes[i].ID {
			t.Fatalf("node order differs at %d: %s vs %s", i, g1.Nodes[i].ID, g2.Nodes[i].ID)
		}
	}
	for i := range g1.Edges {
		if g1.Edges[i].From != g2.Edges[i].From || g1.Edges[i].To != g2.Edges[i].To {
			t.Fatalf("edge order differs at %d", i)
		}
	}
}

func TestBuild_UnresolvedCounted(t *testing.T) {
	g := Build(result(&scanner.FileDep{
		ID:         "broken.js",
		Label:      "broken.js",
		Unresolved: []string{"./missing", "./also-missing"},
	}))

	if g.Stats.UnresolvedRefs != 2 {
		t.Errorf("UnresolvedRefs = %d, want 2", g.Stats.UnresolvedRefs)
	}
}

func TestStripExternals(t *testing.T) {
	g := Build(result(
		&scanner.FileDep{ID: "a.js", Label: "a.js", Targets: []string{"b.js"}, External: []string{"express", "lodash"}},
		dep("b.js"),
	))

	g.StripExternals()

	if g.Stats.ExternalNodes != 0 || g.Stats.ExternalEdges != 0 {
		t.Errorf("externals remain: %+v", g.Stats)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(g.Nodes))
	}
	if g.Node("express") != nil {
		t.Error("external node still indexed")
	}
	if g.Node("a.js").ImportCount != 1 {
		t.Errorf("a.js ImportCount = %d, want 1", g.Node("a.js").ImportCount)
	}
}

func TestFocusCycles(t *testing.T) {
	g := Build(result(
		dep("a.js", "b.js"),
		dep("b.js", "a.js"),
		&scanner.FileDep{ID: "main.js", Label: "main.js", Targets: []string{"a.js"}, External: []string{"express"}},
	))

	g.FocusCycles()

	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(g.Nodes))
	}
	if g.Node("main.js") != nil || g.Node("express") != nil {
		t.Error("non-cycle nodes survived")
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges))
	}
	if g.Node("a.js").DependentCount != 1 {
		t.Errorf("a.js DependentCount = %d, want 1", g.Node("a.js").DependentCount)
	}
	if g.Stats.InternalNodes != 2 || g.Stats.ExternalNodes != 0 {
		t.Errorf("stats not recomputed: %+v", g.Stats)
	}
}

func TestShortLabel(t *testing.T) {
	cases := map[string]string{
		"src/app/main.js":                "main.js",
		"github.com/spf13/cobra":         "cobra",
		"github.com/doug-martin/goqu/v9": "goqu",
		"express":                        "express",
	}
	for in, want := range cases {
		if got := shortLabel(in); got != want {
			t.Errorf("shortLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
