package fleet

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerlab/orchestrate/internal/topology"
)

func testSpecs(t *testing.T, count int) []topology.NodeSpec {
	t.Helper()
	specs, err := topology.Build(count, "172.28.128", 10, "quagga")
	require.NoError(t, err)
	return specs
}

func TestNew_AllPending(t *testing.T) {
	r := New(testSpecs(t, 3))

	require.Equal(t, 3, r.Len())
	for _, entry := range r.Snapshot() {
		assert.Equal(t, StatePending, entry.State)
		assert.Empty(t, entry.Err)
	}
}

func TestTransition_AllowedPath(t *testing.T) {
	r := New(testSpecs(t, 1))

	require.NoError(t, r.Transition(1, StateProvisioning))
	require.NoError(t, r.Transition(1, StateReady))

	snap := r.Snapshot()
	assert.Equal(t, StateReady, snap[0].State)
}

func TestTransition_RetryPath(t *testing.T) {
	r := New(testSpecs(t, 1))

	require.NoError(t, r.Transition(1, StateProvisioning))
	require.NoError(t, r.TransitionFailed(1, errors.New("boot timeout")))

	snap := r.Snapshot()
	assert.Equal(t, StateFailed, snap[0].State)
	assert.Equal(t, "boot timeout", snap[0].Err)

	// Failed nodes may be re-provisioned; the recorded error clears.
	require.NoError(t, r.Transition(1, StateProvisioning))
	snap = r.Snapshot()
	assert.Equal(t, StateProvisioning, snap[0].State)
	assert.Empty(t, snap[0].Err)
}

func TestTransition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		step func(r *Registry) error
	}{
		{"pending to ready", func(r *Registry) error {
			return r.Transition(1, StateReady)
		}},
		{"pending to failed", func(r *Registry) error {
			return r.Transition(1, StateFailed)
		}},
		{"ready to provisioning", func(r *Registry) error {
			require.NoError(t, r.Transition(1, StateProvisioning))
			require.NoError(t, r.Transition(1, StateReady))
			return r.Transition(1, StateProvisioning)
		}},
		{"provisioning to pending", func(r *Registry) error {
			require.NoError(t, r.Transition(1, StateProvisioning))
			return r.Transition(1, StatePending)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testSpecs(t, 1))
			assert.ErrorIs(t, tt.step(r), ErrInvalidTransition)
		})
	}
}

func TestTransition_UnknownNode(t *testing.T) {
	r := New(testSpecs(t, 2))
	assert.ErrorIs(t, r.Transition(99, StateProvisioning), ErrUnknownNode)
	assert.ErrorIs(t, r.Seed(99, StateFailed, "x"), ErrUnknownNode)
}

func TestSnapshot_OrderedAndDetached(t *testing.T) {
	r := New(testSpecs(t, 5))

	snap := r.Snapshot()
	for i, entry := range snap {
		assert.Equal(t, i+1, entry.Spec.ID)
	}

	// Mutating the snapshot must not affect the registry.
	snap[0].State = StateReady
	assert.Equal(t, StatePending, r.Snapshot()[0].State)
}

func TestSeed_RebuildsPreviousOutcome(t *testing.T) {
	r := New(testSpecs(t, 2))

	require.NoError(t, r.Seed(1, StateReady, ""))
	require.NoError(t, r.Seed(2, StateFailed, "provider quota exceeded"))

	snap := r.Snapshot()
	assert.Equal(t, StateReady, snap[0].State)
	assert.Equal(t, StateFailed, snap[1].State)
	assert.Equal(t, "provider quota exceeded", snap[1].Err)

	// Seeded Failed nodes are retriable through the normal edges.
	require.NoError(t, r.Transition(2, StateProvisioning))
}

func TestRegistry_ConcurrentTransitions(t *testing.T) {
	const count = 20
	r := New(testSpecs(t, count))

	var wg sync.WaitGroup
	for id := 1; id <= count; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Transition(id, StateProvisioning))
			assert.NoError(t, r.Transition(id, StateReady))
		}()
	}
	wg.Wait()

	for _, entry := range r.Snapshot() {
		assert.Equal(t, StateReady, entry.State)
	}
}
