package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/routerlab/orchestrate/internal/fleet"
	"github.com/routerlab/orchestrate/internal/provisioner"
	"github.com/routerlab/orchestrate/internal/topology"
)

// DefaultMaxParallel bounds the worker pool when the topology does not
// set an explicit limit. External driver tools contend for hypervisor
// resources, so the default stays small.
const DefaultMaxParallel = 4

// ErrRegistryCorrupt indicates a fleet registry invariant was violated
// mid-sweep. This is a bug in the orchestrator, not an operational
// per-node failure.
var ErrRegistryCorrupt = errors.New("registry corrupt")

// Applier is the per-node provisioning operation the orchestrator
// drives. *provisioner.Adapter satisfies it.
type Applier interface {
	Apply(ctx context.Context, spec topology.NodeSpec) provisioner.Result
}

// Orchestrator runs provisioning sweeps over a fleet registry.
type Orchestrator struct {
	applier     Applier
	maxParallel int
	observer    Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxParallel bounds the number of concurrent node applies.
func WithMaxParallel(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxParallel = n
		}
	}
}

// WithObserver replaces the default log-based observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// New builds an orchestrator over the given applier.
func New(applier Applier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		applier:     applier,
		maxParallel: DefaultMaxParallel,
		observer:    NewLogObserver(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run provisions every Pending node in the registry and returns the
// aggregate report. Per-node failures are recorded in the report, never
// returned as errors; Run only errors when a registry invariant breaks.
func (o *Orchestrator) Run(ctx context.Context, registry *fleet.Registry) (*Report, error) {
	return o.sweep(ctx, registry, fleet.StatePending)
}

// RetryFailed re-applies provisioning only to nodes currently in Failed
// state. Nodes in any other state are left untouched.
func (o *Orchestrator) RetryFailed(ctx context.Context, registry *fleet.Registry) (*Report, error) {
	return o.sweep(ctx, registry, fleet.StateFailed)
}

func (o *Orchestrator) sweep(ctx context.Context, registry *fleet.Registry, from fleet.State) (*Report, error) {
	var queue []topology.NodeSpec
	for _, entry := range registry.Snapshot() {
		if entry.State == from {
			queue = append(queue, entry.Spec)
		}
	}

	// Mark every queued node up front so the registry reflects the whole
	// sweep before the first result lands.
	for _, spec := range queue {
		if err := registry.Transition(spec.ID, fleet.StateProvisioning); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegistryCorrupt, err)
		}
		o.observer.Event(Event{Type: EventNodeStarted, NodeID: spec.ID, Hostname: spec.Hostname})
	}

	results := o.applyAll(ctx, queue)

	// Single-writer discipline: only this loop mutates the registry.
	var corrupt error
	for result := range results {
		var err error
		if result.State == fleet.StateReady {
			err = registry.Transition(result.NodeID, fleet.StateReady)
			o.observer.Event(Event{Type: EventNodeReady, NodeID: result.NodeID})
		} else {
			err = registry.TransitionFailed(result.NodeID, result.Err)
			msg := ""
			if result.Err != nil {
				msg = result.Err.Error()
			}
			o.observer.Event(Event{Type: EventNodeFailed, NodeID: result.NodeID, Message: msg})
		}
		if err != nil && corrupt == nil {
			corrupt = fmt.Errorf("%w: %v", ErrRegistryCorrupt, err)
		}
	}
	if corrupt != nil {
		return nil, corrupt
	}

	report := buildReport(registry.Snapshot())
	o.observer.Event(Event{
		Type:    EventSweepCompleted,
		Message: fmt.Sprintf("%d ready, %d failed of %d nodes", report.Ready, report.Failed, len(report.Nodes)),
	})
	return report, nil
}

// applyAll drains the queue with a bounded worker pool and returns the
// channel of per-node results. Workers never touch the registry.
func (o *Orchestrator) applyAll(ctx context.Context, queue []topology.NodeSpec) <-chan provisioner.Result {
	jobs := make(chan topology.NodeSpec, len(queue))
	results := make(chan provisioner.Result, len(queue))

	workers := min(len(queue), o.maxParallel)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range jobs {
				results <- o.applier.Apply(ctx, spec)
			}
		}()
	}

	for _, spec := range queue {
		jobs <- spec
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
