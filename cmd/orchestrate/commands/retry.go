package commands

import (
	"github.com/spf13/cobra"

	"github.com/routerlab/orchestrate/cmd/orchestrate/handlers"
)

// Retry returns the command that re-applies provisioning to failed
// nodes only. It reads the previous run's outcome from the state file
// written by 'orchestrate up'.
func Retry() *cobra.Command {
	var (
		configPath  string
		maxParallel int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Re-apply provisioning to failed nodes",
		Long: `Re-apply provisioning only to nodes that ended Failed in the
previous run. Nodes that were Ready are left untouched.

Examples:
  orchestrate retry
  orchestrate retry -c lab.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Retry(cmd.Context(), handlers.UpOptions{
				ConfigPath:  configPath,
				MaxParallel: maxParallel,
				Output:      output,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to topology file (default: orchestrate.yaml)")
	cmd.Flags().IntVar(&maxParallel, "max-parallel", 0, "Max concurrent node provisioning (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Report format: table or yaml")

	return cmd
}
