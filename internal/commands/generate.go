package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-tools/kestrel/internal/output"
	"github.com/kestrel-tools/kestrel/internal/progress"
	"github.com/kestrel-tools/kestrel/internal/writer"
	"github.com/kestrel-tools/kestrel/pkg/config"
	"github.com/kestrel-tools/kestrel/pkg/dimensions"
	"github.com/kestrel-tools/kestrel/pkg/export"
	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/layout"
	"github.com/kestrel-tools/kestrel/pkg/logger"
	"github.com/kestrel-tools/kestrel/pkg/scanner"
	"github.com/kestrel-tools/kestrel/pkg/svg"
)

var (
	genStyle      string
	genOut        string
	genFormat     string
	genConfigPath string
	genWorkers    int
	genDryRun     bool
	genForce      bool
	genNoProgress bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Render the dependency graph of a source tree",
	Long: `Scans a source tree, builds the file dependency graph and renders it.

Example:
  kestrel generate ./fixtures/task-manager
  kestrel generate ../myproject --style grouped --format html
  kestrel generate . --format json --out report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genStyle, "style", "s", "", "Layout style (linear, diagonal, circular, grouped)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file path")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "", "Output format: svg, html or json")
	generateCmd.Flags().StringVarP(&genConfigPath, "config", "c", config.DefaultFileName, "Path to configuration file")
	generateCmd.Flags().IntVarP(&genWorkers, "workers", "w", 0, "Scan worker count (0 = NumCPU)")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Report planned writes without writing")
	generateCmd.Flags().BoolVar(&genForce, "force", false, "Overwrite existing output files")
	generateCmd.Flags().BoolVar(&genNoProgress, "no-progress", false, "Disable the scan spinner")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}

	cfg, err := config.Load(genConfigPath)
	if err != nil {
		return err
	}
	style, format, outPath := resolveOutput(cfg)

	g, err := buildGraph(cmd, cfg, projectPath)
	if err != nil {
		return err
	}

	dims := dimensions.NewStore(dimensions.Options{})
	dims.Prime(g)

	engine, err := layout.DefaultRegistry().Get(style)
	if err != nil {
		return err
	}
	positions, err := engine.Layout(g, dims)
	if err != nil {
		return fmt.Errorf("laying out graph: %w", err)
	}

	content, err := renderContent(g, dims, positions, projectPath, style, format)
	if err != nil {
		return err
	}

	ops := []writer.Operation{
		&writer.WriteFileOp{Path: outPath, Content: content, Mode: 0644},
	}
	if err := writer.Execute(cmd.Context(), ops, writer.ExecuteOptions{
		DryRun: genDryRun,
		Force:  genForce,
	}); err != nil {
		return err
	}

	printSummary(g)
	if !genDryRun {
		output.Success("Dependency graph written to " + outPath)
	}

	return nil
}

// resolveOutput merges flags over config and derives the output file path.
func resolveOutput(cfg *config.Config) (style, format, outPath string) {
	style = cfg.Layout.Style
	if genStyle != "" {
		style = genStyle
	}

	format = strings.ToLower(cfg.Output.Format)
	if genFormat != "" {
		format = strings.ToLower(genFormat)
	}

	outPath = genOut
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Path, "graph."+format)
	}
	return style, format, outPath
}

// buildGraph scans the tree and assembles the dependency graph.
func buildGraph(cmd *cobra.Command, cfg *config.Config, projectPath string) (*graph.Graph, error) {
	workers := cfg.Scan.Workers
	if genWorkers > 0 {
		workers = genWorkers
	}

	log := logger.Default()
	if !output.Verbose() {
		log = logger.NewSilentLogger()
	}

	sc := scanner.New(scanner.Options{
		IgnoreDirs: cfg.Scan.IgnoreDirs,
		Languages:  cfg.Scan.Languages,
		Workers:    workers,
	}).WithLogger(log)

	var result *scanner.Result
	err := progress.Run("Scanning "+projectPath, genNoProgress || output.Verbose(), func() error {
		var scanErr error
		result, scanErr = sc.Scan(cmd.Context(), projectPath)
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	g := graph.Build(result)
	if !cfg.Features.Externals {
		g.StripExternals()
	}
	if cfg.Features.CyclesOnly {
		g.FocusCycles()
	}
	return g, nil
}

// renderContent produces the output document for the requested format.
func renderContent(g *graph.Graph, dims *dimensions.Store, positions map[string]layout.Position, projectPath, style, format string) ([]byte, error) {
	switch format {
	case "svg":
		return []byte(svg.NewRenderer(dims).Render(g, positions)), nil
	case "html":
		title := "Dependency Graph"
		page, err := svg.NewRenderer(dims).RenderPage(g, positions, title, projectPath, style)
		if err != nil {
			return nil, err
		}
		return []byte(page), nil
	case "json":
		return export.Marshal(export.NewReport(g, projectPath, style))
	default:
		return nil, fmt.Errorf("unknown output format %q (svg, html, json)", format)
	}
}

// printSummary reports graph metrics and any circular dependencies.
func printSummary(g *graph.Graph) {
	output.Rule()
	output.Info(fmt.Sprintf("%d modules, %d internal dependencies, %d external",
		g.Stats.InternalNodes, g.Stats.InternalEdges, g.Stats.ExternalNodes))
	output.Debug(fmt.Sprintf("max layer depth %d, avg dependents %.1f",
		g.Stats.MaxLayerDepth, g.Stats.AvgDependents))

	if g.Stats.UnresolvedRefs > 0 {
		output.Warn(fmt.Sprintf("%d imports could not be resolved", g.Stats.UnresolvedRefs))
	}

	if g.HasCycles() {
		output.Warn(fmt.Sprintf("%d circular dependencies detected:", len(g.Cycles)))
		for _, cycle := range g.Cycles {
			output.Step(strings.Join(cycle, " -> ") + " -> " + cycle[0])
		}
	}
	output.Rule()
}
