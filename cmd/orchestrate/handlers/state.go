package handlers

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/routerlab/orchestrate/internal/fleet"
)

// StateFilename is where the last run's outcome is persisted, next to
// the topology file. The registry itself is memory-only; this file is a
// report artifact that lets 'retry' and 'status' see the previous run.
const StateFilename = "orchestrate-state.yaml"

type nodeRecord struct {
	ID       int    `yaml:"id"`
	Hostname string `yaml:"hostname"`
	Address  string `yaml:"address"`
	State    string `yaml:"state"`
	Error    string `yaml:"error,omitempty"`
}

type runState struct {
	SavedAt string       `yaml:"saved_at"`
	Nodes   []nodeRecord `yaml:"nodes"`
}

func recordsFromEntries(entries []fleet.Entry) []nodeRecord {
	records := make([]nodeRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, nodeRecord{
			ID:       entry.Spec.ID,
			Hostname: entry.Spec.Hostname,
			Address:  entry.Spec.Address,
			State:    string(entry.State),
			Error:    entry.Err,
		})
	}
	return records
}

// saveState persists the fleet snapshot for later retry/status calls.
func saveState(path string, entries []fleet.Entry) error {
	state := runState{
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Nodes:   recordsFromEntries(entries),
	}

	content, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write run state: %w", err)
	}
	return nil
}

// loadState reads a previously saved run state. A missing file returns
// (nil, nil): there simply was no previous run.
func loadState(path string) (*runState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run state: %w", err)
	}

	var state runState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse run state: %w", err)
	}
	return &state, nil
}

// seedRegistry replays a previous run's outcome into a freshly built
// registry. Nodes unknown to the current topology are ignored: the
// topology file is authoritative for what should exist.
func seedRegistry(registry *fleet.Registry, state *runState) {
	if state == nil {
		return
	}
	known := make(map[int]bool, registry.Len())
	for _, entry := range registry.Snapshot() {
		known[entry.Spec.ID] = true
	}
	for _, node := range state.Nodes {
		if !known[node.ID] {
			continue
		}
		switch fleet.State(node.State) {
		case fleet.StateReady:
			_ = registry.Seed(node.ID, fleet.StateReady, "")
		case fleet.StateFailed:
			_ = registry.Seed(node.ID, fleet.StateFailed, node.Error)
		}
	}
}
