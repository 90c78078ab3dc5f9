package svg

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/layout"
)

//go:embed templates/page.html
var pageTemplate string

// PageData feeds the HTML page template.
type PageData struct {
	Title    string
	RootPath string
	Style    string
	Graph    *graph.Graph
	SVG      template.HTML
}

// RenderPage wraps the rendered SVG in a standalone HTML page with the
// stats summary and the cycle list.
func (r *Renderer) RenderPage(g *graph.Graph, positions map[string]layout.Position, title, rootPath, style string) (string, error) {
	tmpl := template.New("page").Funcs(template.FuncMap{
		"joinCycle": func(cycle []string) string {
			return strings.Join(cycle, " → ") + " → " + cycle[0]
		},
	})

	tmpl, err := tmpl.Parse(pageTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing page template: %w", err)
	}

	data := PageData{
		Title:    title,
		RootPath: rootPath,
		Style:    style,
		Graph:    g,
		SVG:      template.HTML(r.Render(g, positions)),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing page template: %w", err)
	}
	return b.String(), nil
}
