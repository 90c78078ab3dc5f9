package main

import (
	"os"

	"github.com/kestrel-tools/kestrel/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
