package commands

import (
	"github.com/spf13/cobra"

	"github.com/routerlab/orchestrate/cmd/orchestrate/handlers"
)

// Up returns the command that provisions the whole fleet.
//
// Optional flags:
//
//	--config, -c: Path to topology YAML file (default: orchestrate.yaml)
//	--max-parallel: Concurrent node provisioning limit (overrides config)
//	--output, -o: Report format, "table" or "yaml"
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
func Up() *cobra.Command {
	var (
		configPath  string
		maxParallel int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision every node in the topology",
		Long: `Provision every node described by the topology file.

Each node gets a virtual machine instance (created from the base image,
or reused if it already exists) followed by a configuration pass. Node
failures are isolated: one node failing never blocks the others. The
command exits non-zero when any node ends Failed; 'orchestrate retry'
re-applies only the failed nodes.

Examples:
  # Provision using orchestrate.yaml in the current directory
  orchestrate up

  # Provision a specific topology with two concurrent workers
  orchestrate up -c lab.yaml --max-parallel 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), handlers.UpOptions{
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
