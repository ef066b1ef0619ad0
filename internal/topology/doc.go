// Package topology derives per-node specifications from a compact
// topology description.
//
// Given a node count, an address prefix and a hostname prefix, Build
// produces the full ordered set of NodeSpec values the rest of the
// orchestrator works from. Build is a pure function: the same inputs
// always yield the same specs, which is what makes repeated runs of
// the orchestrator idempotent.
package topology
