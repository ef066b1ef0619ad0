// Package orchestration sweeps the fleet registry and drives the
// provisioning adapter for every eligible node.
//
// A bounded worker pool drains the node queue; workers only produce
// results, and a single collector applies all registry transitions, so
// the registry has exactly one writer. Per-node failures are recorded
// and never abort sibling nodes; the final report enumerates nodes in
// ascending id order regardless of completion order.
package orchestration
