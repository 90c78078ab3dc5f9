package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	kestrel "github.com/kestrel-tools/kestrel"
	"github.com/kestrel-tools/kestrel/internal/output"
	"github.com/kestrel-tools/kestrel/pkg/logger"
)

var verbose bool

// RootCmd is the root command for kestrel.
var RootCmd = &cobra.Command{
	Use:   "kestrel",
	Short: "Kestrel - Source Dependency Visualizer",
	Long: `Kestrel scans a source tree, builds the file dependency graph,
detects circular dependencies and renders the graph as SVG.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetVerbose(verbose)
		if verbose {
			logger.Default().SetLevel(logger.LevelDebug)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed scan information")

	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kestrel v%s\n", kestrel.Version)
		},
	})
}
