package main

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	cobra.EnableCommandSorting = false

	if err := newRootCommand(afero.NewOsFs()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
