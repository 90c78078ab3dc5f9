// Package export serializes dependency graphs to machine-readable reports.
package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/kestrel-tools/kestrel/pkg/graph"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the JSON document written by `kestrel generate --format json`.
type Report struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generatedAt"`
	RootPath    string       `json:"rootPath"`
	Style       string       `json:"style"`
	Nodes       []ReportNode `json:"nodes"`
	Edges       []ReportEdge `json:"edges"`
	Cycles      [][]string   `json:"cycles"`
	Stats       graph.Stats  `json:"stats"`
}

// ReportNode mirrors graph.Node with stable JSON field names.
type ReportNode struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Dir        string `json:"dir,omitempty"`
	External   bool   `json:"external,omitempty"`
	Imports    int    `json:"imports"`
	Dependents int    `json:"dependents"`
	Layer      int    `json:"layer"`
}

// ReportEdge mirrors graph.Edge.
type ReportEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Cycle    bool   `json:"cycle,omitempty"`
	External bool   `json:"external,omitempty"`
}

// NewReport builds a Report from a graph. Each report carries a fresh ID
// and timestamp.
func NewReport(g *graph.Graph, rootPath, style string) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		RootPath:    rootPath,
		Style:       style,
		Nodes:       make([]ReportNode, 0, len(g.Nodes)),
		Edges:       make([]ReportEdge, 0, len(g.Edges)),
		Cycles:      g.Cycles,
		Stats:       g.Stats,
	}

	for _, n := range g.Nodes {
		r.Nodes = append(r.Nodes, ReportNode{
			ID:         n.ID,
			Label:      n.Label,
			Dir:        n.Dir,
			External:   n.External,
			Imports:    n.ImportCount,
			Dependents: n.DependentCount,
			Layer:      n.Layer,
		})
	}
	for _, e := range g.Edges {
		r.Edges = append(r.Edges, ReportEdge{
			From:     e.From,
			To:       e.To,
			Cycle:    e.IsCycle,
			External: e.External,
		})
	}

	return r
}

// Marshal serializes a report with indentation.
func Marshal(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

// Unmarshal parses a report produced by Marshal.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
