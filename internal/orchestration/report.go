package orchestration

import (
	"github.com/routerlab/orchestrate/internal/fleet"
)

// NodeFailure records one node's failure cause for the aggregate report.
type NodeFailure struct {
	NodeID   int
	Hostname string
	Cause    string
}

// Report is the aggregate outcome of one sweep. Nodes is the full
// registry snapshot in ascending id order; Failures lists only the
// nodes that ended Failed, in the same order.
type Report struct {
	Ready    int
	Failed   int
	Nodes    []fleet.Entry
	Failures []NodeFailure
}

// AllReady reports whether every node in the fleet ended Ready.
func (r *Report) AllReady() bool {
	return r.Failed == 0 && r.Ready == len(r.Nodes)
}

// buildReport derives the aggregate report from an ordered registry
// snapshot.
func buildReport(snapshot []fleet.Entry) *Report {
	report := &Report{Nodes: snapshot}
	for _, entry := range snapshot {
		switch entry.State {
		case fleet.StateReady:
			report.Ready++
		case fleet.StateFailed:
			report.Failed++
			report.Failures = append(report.Failures, NodeFailure{
				NodeID:   entry.Spec.ID,
				Hostname: entry.Spec.Hostname,
				Cause:    entry.Err,
			})
		}
	}
	return report
}
