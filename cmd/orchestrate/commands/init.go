package commands

import (
	"github.com/spf13/cobra"

	"github.com/routerlab/orchestrate/cmd/orchestrate/handlers"
	"github.com/routerlab/orchestrate/internal/config"
)

// Init returns the command that interactively writes a starter
// topology file.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a topology file interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Where to write the topology file")

	return cmd
}
