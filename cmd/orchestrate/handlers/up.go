// Package handlers implements the CLI command logic: loading the
// topology, wiring the provisioning adapter and running orchestration
// sweeps.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/routerlab/orchestrate/internal/config"
	"github.com/routerlab/orchestrate/internal/fleet"
	"github.com/routerlab/orchestrate/internal/orchestration"
	"github.com/routerlab/orchestrate/internal/platform/hcloud"
	"github.com/routerlab/orchestrate/internal/platform/ssh"
	"github.com/routerlab/orchestrate/internal/provisioner"
	"github.com/routerlab/orchestrate/internal/topology"
)

// UpOptions carries the flags shared by 'up' and 'retry'.
type UpOptions struct {
	ConfigPath  string
	MaxParallel int
	Output      string
}

// buildApplier wires the real platform boundaries. Replaced in tests.
var buildApplier = func(topo *config.Topology) (orchestration.Applier, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("HCLOUD_TOKEN environment variable is required")
	}

	provider := hcloud.NewClient(token,
		hcloud.WithServerType(topo.ServerType),
		hcloud.WithLocation(topo.Location),
		hcloud.WithLabels(map[string]string{"routerlab/fleet": topo.HostnamePrefix}),
	)

	if topo.SSH.KeyPath == "" {
		return nil, fmt.Errorf("%w: ssh.key_path is required to run the configuration pass", config.ErrInvalidTopology)
	}
	// #nosec G304 -- key path comes from the operator's topology file.
	key, err := os.ReadFile(topo.SSH.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key: %w", err)
	}
	runner, err := ssh.NewRunner(ssh.Config{User: topo.SSH.User, PrivateKey: key})
	if err != nil {
		return nil, err
	}

	return provisioner.NewAdapter(provider, runner, topo.BaseImage, topo.Playbook.Ref), nil
}

// Up provisions the whole fleet and prints the aggregate report. It
// returns an error (non-zero exit) when any node ends Failed.
func Up(ctx context.Context, opts UpOptions) error {
	return runSweep(ctx, opts, false)
}

// Retry re-applies provisioning only to nodes the previous run left
// Failed.
func Retry(ctx context.Context, opts UpOptions) error {
	return runSweep(ctx, opts, true)
}

func runSweep(ctx context.Context, opts UpOptions, retryOnly bool) error {
	configPath := config.ResolvePath(opts.ConfigPath)
	topo, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(topo)
	if err != nil {
		return err
	}

	statePath := statePathFor(configPath)
	if retryOnly {
		state, err := loadState(statePath)
		if err != nil {
			return err
		}
		if state == nil {
			return fmt.Errorf("no previous run state at %s; run 'orchestrate up' first", statePath)
		}
		seedRegistry(registry, state)
	}

	applier, err := buildApplier(topo)
	if err != nil {
		return err
	}

	maxParallel := topo.MaxParallel
	if opts.MaxParallel > 0 {
		maxParallel = opts.MaxParallel
	}

	orch := orchestration.New(applier, orchestration.WithMaxParallel(maxParallel))

	var report *orchestration.Report
	if retryOnly {
		report, err = orch.RetryFailed(ctx, registry)
	} else {
		report, err = orch.Run(ctx, registry)
	}
	if err != nil {
		return err
	}

	if err := saveState(statePath, report.Nodes); err != nil {
		return err
	}

	if err := printReport(report.Nodes, opts.Output); err != nil {
		return err
	}

	if !report.AllReady() {
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d nodes failed; run 'orchestrate retry' after fixing the cause",
				report.Failed, len(report.Nodes))
		}
		return fmt.Errorf("%d of %d nodes ready; run 'orchestrate up' to provision the rest",
			report.Ready, len(report.Nodes))
	}
	return nil
}

// buildRegistry derives the node specs and seeds a fresh registry. The
// global playbook extra vars are merged into every node's params;
// per-node values win on conflict.
func buildRegistry(topo *config.Topology) (*fleet.Registry, error) {
	specs, err := topology.Build(topo.Count, topo.BaseAddressPrefix, topo.AddressOffsetBase, topo.HostnamePrefix)
	if err != nil {
		return nil, err
	}

	for i := range specs {
		merged := make(map[string]string, len(topo.Playbook.ExtraVars)+len(specs[i].ExtraParams))
		for k, v := range topo.Playbook.ExtraVars {
			merged[k] = v
		}
		for k, v := range specs[i].ExtraParams {
			merged[k] = v
		}
		specs[i].ExtraParams = merged
	}

	return fleet.New(specs), nil
}

// statePathFor places the state file next to the topology file.
func statePathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), StateFilename)
}
