package provisioner

import (
	"context"
	"fmt"

	"github.com/routerlab/orchestrate/internal/fleet"
	"github.com/routerlab/orchestrate/internal/topology"
)

// Result is the per-node outcome of one Apply call. Err is non-nil iff
// State is Failed.
type Result struct {
	NodeID int
	State  fleet.State
	Err    error
}

// Adapter drives the two external boundaries for one node at a time.
type Adapter struct {
	provider InstanceProvider
	runner   PlaybookRunner

	baseImage   string
	playbookRef string
}

// NewAdapter builds an adapter over the given boundaries. baseImage
// names the image new instances boot from; playbookRef names the
// configuration pass applied to every node.
func NewAdapter(provider InstanceProvider, runner PlaybookRunner, baseImage, playbookRef string) *Adapter {
	return &Adapter{
		provider:    provider,
		runner:      runner,
		baseImage:   baseImage,
		playbookRef: playbookRef,
	}
}

// Apply provisions a single node: ensure its instance exists, then run
// the configuration pass against it. All failures, including panics in
// the underlying drivers, are captured in the Result.
func (a *Adapter) Apply(ctx context.Context, spec topology.NodeSpec) (result Result) {
	result = Result{NodeID: spec.ID, State: fleet.StateReady}

	defer func() {
		if r := recover(); r != nil {
			result.State = fleet.StateFailed
			result.Err = &ProviderError{Hostname: spec.Hostname, Err: fmt.Errorf("driver panic: %v", r)}
		}
	}()

	handle, err := a.provider.CreateOrReuseInstance(ctx, spec.Hostname, spec.Address, a.baseImage)
	if err != nil {
		result.State = fleet.StateFailed
		result.Err = &ProviderError{Hostname: spec.Hostname, Err: err}
		return result
	}

	if err := a.runner.ApplyPlaybook(ctx, handle, a.playbookRef, spec.ExtraParams); err != nil {
		result.State = fleet.StateFailed
		result.Err = &PlaybookError{Hostname: spec.Hostname, Playbook: a.playbookRef, Err: err}
		return result
	}

	return result
}
