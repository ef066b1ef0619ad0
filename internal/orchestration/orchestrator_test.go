package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerlab/orchestrate/internal/fleet"
	"github.com/routerlab/orchestrate/internal/provisioner"
	"github.com/routerlab/orchestrate/internal/topology"
)

// stubApplier lets tests fail specific nodes, delay completions and
// observe concurrency.
type stubApplier struct {
	mu        sync.Mutex
	failNodes map[int]error
	delays    map[int]time.Duration
	applied   []int
	inFlight  int
	maxSeen   int
	mangleID  bool
}

func newStubApplier() *stubApplier {
	return &stubApplier{failNodes: map[int]error{}, delays: map[int]time.Duration{}}
}

func (s *stubApplier) Apply(_ context.Context, spec topology.NodeSpec) provisioner.Result {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	delay := s.delays[spec.ID]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	s.inFlight--
	s.applied = append(s.applied, spec.ID)
	err := s.failNodes[spec.ID]
	s.mu.Unlock()

	id := spec.ID
	if s.mangleID {
		id += 100
	}
	if err != nil {
		return provisioner.Result{NodeID: id, State: fleet.StateFailed, Err: err}
	}
	return provisioner.Result{NodeID: id, State: fleet.StateReady}
}

func newRegistry(t *testing.T, count int) *fleet.Registry {
	t.Helper()
	specs, err := topology.Build(count, "172.28.128", 10, "quagga")
	require.NoError(t, err)
	return fleet.New(specs)
}

func TestRun_AllReady(t *testing.T) {
	registry := newRegistry(t, 3)
	orch := New(newStubApplier())

	report, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Ready)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, report.AllReady())
	assert.Empty(t, report.Failures)
}

func TestRun_PartialFailureIsolation(t *testing.T) {
	registry := newRegistry(t, 3)
	applier := newStubApplier()
	applier.failNodes[2] = assert.AnError
	orch := New(applier)

	report, err := orch.Run(context.Background(), registry)
	require.NoError(t, err, "per-node failures must not fail the run")

	assert.Equal(t, 2, report.Ready)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.AllReady())

	snap := registry.Snapshot()
	assert.Equal(t, fleet.StateReady, snap[0].State)
	assert.Equal(t, fleet.StateFailed, snap[1].State)
	assert.Equal(t, fleet.StateReady, snap[2].State)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].NodeID)
	assert.Equal(t, "quagga2", report.Failures[0].Hostname)
	assert.NotEmpty(t, report.Failures[0].Cause)
}

func TestRetryFailed_RecoversOnlyFailedNodes(t *testing.T) {
	registry := newRegistry(t, 3)
	applier := newStubApplier()
	applier.failNodes[2] = assert.AnError
	orch := New(applier)

	_, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)

	// Fault removed; retry should converge node 2 and touch nothing else.
	applier.mu.Lock()
	delete(applier.failNodes, 2)
	applier.applied = nil
	applier.mu.Unlock()

	report, err := orch.RetryFailed(context.Background(), registry)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, applier.applied, "retry must only re-apply failed nodes")
	assert.Equal(t, 3, report.Ready)
	assert.True(t, report.AllReady())
}

func TestRun_ReportOrderedByID(t *testing.T) {
	registry := newRegistry(t, 5)
	applier := newStubApplier()
	// Invert completion order: low ids finish last.
	applier.delays[1] = 50 * time.Millisecond
	applier.delays[2] = 40 * time.Millisecond
	applier.delays[3] = 30 * time.Millisecond
	orch := New(applier, WithMaxParallel(2))

	report, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)

	require.Len(t, report.Nodes, 5)
	for i, entry := range report.Nodes {
		assert.Equal(t, i+1, entry.Spec.ID, "report must be ordered by ascending id")
	}
}

func TestRun_BoundsParallelism(t *testing.T) {
	registry := newRegistry(t, 6)
	applier := newStubApplier()
	for id := 1; id <= 6; id++ {
		applier.delays[id] = 20 * time.Millisecond
	}
	orch := New(applier, WithMaxParallel(2))

	_, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)

	assert.LessOrEqual(t, applier.maxSeen, 2, "no more than maxParallel applies in flight")
}

func TestRun_NothingPending(t *testing.T) {
	registry := newRegistry(t, 2)
	applier := newStubApplier()
	orch := New(applier)

	_, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)

	// A second run finds no Pending nodes and applies nothing.
	applier.mu.Lock()
	applier.applied = nil
	applier.mu.Unlock()

	report, err := orch.Run(context.Background(), registry)
	require.NoError(t, err)
	assert.Empty(t, applier.applied)
	assert.Equal(t, 2, report.Ready)
}

func TestRun_RegistryCorrupt(t *testing.T) {
	registry := newRegistry(t, 2)
	applier := newStubApplier()
	applier.mangleID = true // results reference ids the registry never issued
	orch := New(applier)

	report, err := orch.Run(context.Background(), registry)
	require.ErrorIs(t, err, ErrRegistryCorrupt)
	assert.Nil(t, report)
}
