package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-tools/kestrel/internal/input"
	"github.com/kestrel-tools/kestrel/internal/output"
	"github.com/kestrel-tools/kestrel/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default kestrel.yaml in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")

	RootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFileName

	if _, err := os.Stat(path); err == nil && !initForce {
		if !input.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), false) {
			output.Info("Aborted")
			return nil
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	output.Success("Created " + path)
	output.Step("Edit it to tune ignored directories, layout style and output format")
	return nil
}
