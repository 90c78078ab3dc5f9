package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-tools/kestrel/internal/output"
	"github.com/kestrel-tools/kestrel/pkg/config"
	"github.com/kestrel-tools/kestrel/pkg/graph"
	"github.com/kestrel-tools/kestrel/pkg/logger"
	"github.com/kestrel-tools/kestrel/pkg/scanner"
)

var checkConfigPath string

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Fail when the source tree contains circular dependencies",
	Long: `Scans a source tree and exits non-zero if any circular dependency
is found. Intended as a CI gate:

  kestrel check ./src`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", config.DefaultFileName, "Path to configuration file")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}

	cfg, err := config.Load(checkConfigPath)
	if err != nil {
		return err
	}

	log := logger.Default()
	if !output.Verbose() {
		log = logger.NewSilentLogger()
	}

	sc := scanner.New(scanner.Options{
		IgnoreDirs: cfg.Scan.IgnoreDirs,
		Languages:  cfg.Scan.Languages,
		Workers:    cfg.Scan.Workers,
	}).WithLogger(log)

	result, err := sc.Scan(cmd.Context(), projectPath)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	g := graph.Build(result)
	if !g.HasCycles() {
		output.Success(fmt.Sprintf("No circular dependencies in %d modules", g.Stats.InternalNodes))
		return nil
	}

	for _, cycle := range g.Cycles {
		output.Error(strings.Join(cycle, " -> ") + " -> " + cycle[0])
	}
	return fmt.Errorf("%d circular dependencies found", len(g.Cycles))
}
