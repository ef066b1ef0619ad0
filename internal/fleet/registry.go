package fleet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/routerlab/orchestrate/internal/topology"
)

var (
	// ErrUnknownNode indicates a node id that is not present in the registry.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidTransition indicates a lifecycle transition outside the
	// allowed state machine edges.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Entry pairs a node specification with its current lifecycle state.
// Err carries the cause of the last failure and is empty unless the
// state is Failed.
type Entry struct {
	Spec  topology.NodeSpec
	State State
	Err   string
}

// Registry tracks the fleet's node specs and lifecycle states. All
// mutation goes through Transition; reads go through Snapshot. Safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	order   []int
	entries map[int]*Entry
}

// New builds a registry from the ordered node specs, every entry
// starting in Pending.
func New(specs []topology.NodeSpec) *Registry {
	r := &Registry{
		order:   make([]int, 0, len(specs)),
		entries: make(map[int]*Entry, len(specs)),
	}
	for _, spec := range specs {
		r.order = append(r.order, spec.ID)
		r.entries[spec.ID] = &Entry{Spec: spec, State: StatePending}
	}
	return r
}

// Transition moves the node to newState, enforcing the allowed edges:
// Pending→Provisioning, Provisioning→Ready, Provisioning→Failed and
// Failed→Provisioning (retry).
func (r *Registry) Transition(nodeID int, newState State) error {
	return r.transition(nodeID, newState, "")
}

// TransitionFailed moves the node to Failed and records the cause.
func (r *Registry) TransitionFailed(nodeID int, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.transition(nodeID, StateFailed, msg)
}

func (r *Registry) transition(nodeID int, newState State, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[nodeID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, nodeID)
	}
	if !transitionAllowed(entry.State, newState) {
		return fmt.Errorf("%w: %s -> %s for node %d", ErrInvalidTransition, entry.State, newState, nodeID)
	}

	entry.State = newState
	entry.Err = errMsg
	return nil
}

// Seed forces a node's state regardless of the transition rules. It is
// only for rebuilding a registry from a previous run's outcome before a
// retry or status sweep; live runs go through Transition.
func (r *Registry) Seed(nodeID int, state State, cause string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[nodeID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, nodeID)
	}
	entry.State = state
	entry.Err = cause
	return nil
}

// Snapshot returns a point-in-time copy of all entries in ascending id
// order. The copy is detached: mutating it does not affect the registry.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.entries[id])
	}
	return out
}

// Len returns the number of nodes in the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
