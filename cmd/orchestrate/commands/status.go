package commands

import (
	"github.com/spf13/cobra"

	"github.com/routerlab/orchestrate/cmd/orchestrate/handlers"
)

// Status returns the command that prints the fleet snapshot: the last
// run's outcome when a state file exists, otherwise the freshly built
// Pending fleet.
func Status() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the fleet registry snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Status(handlers.StatusOptions{
				ConfigPath: configPath,
				Output:     output,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to topology file (default: orchestrate.yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Report format: table or yaml")

	return cmd
}
