package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-tools/kestrel/internal/output"
	"github.com/kestrel-tools/kestrel/pkg/layout"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available layout styles",
	Run: func(cmd *cobra.Command, args []string) {
		registry := layout.DefaultRegistry()
		output.Info("Available layout styles:")
		for _, name := range registry.Names() {
			engine, err := registry.Get(name)
			if err != nil {
				continue
			}
			output.Step(fmt.Sprintf("%-10s %s", engine.Name(), engine.Description()))
		}
	},
}

func init() {
	RootCmd.AddCommand(stylesCmd)
}
