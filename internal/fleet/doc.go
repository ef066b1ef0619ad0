// Package fleet holds the in-memory registry of node specifications and
// their lifecycle states. The registry is the single source of truth for
// what should exist; it is built once per run from the topology and is
// only mutated through Transition.
package fleet
