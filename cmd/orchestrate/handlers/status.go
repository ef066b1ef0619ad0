package handlers

import (
	"github.com/routerlab/orchestrate/internal/config"
)

// StatusOptions carries the 'status' command flags.
type StatusOptions struct {
	ConfigPath string
	Output     string
}

// Status prints the fleet snapshot: the previous run's outcome when a
// state file exists, otherwise the freshly built Pending fleet.
func Status(opts StatusOptions) error {
	configPath := config.ResolvePath(opts.ConfigPath)
	topo, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(topo)
	if err != nil {
		return err
	}

	state, err := loadState(statePathFor(configPath))
	if err != nil {
		return err
	}
	seedRegistry(registry, state)

	return printReport(registry.Snapshot(), opts.Output)
}
