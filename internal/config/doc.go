// Package config loads and validates the topology description, the
// declarative input that drives the whole orchestrator: fleet size,
// addressing scheme, base image and the configuration pass to run on
// each node.
package config
