// Package main is the entry point for the orchestrate CLI.
//
// orchestrate provisions a small lab fleet of virtual router nodes:
// it derives deterministic per-node identities and addresses from a
// compact topology description, creates or reuses a VM per node and
// drives the configuration pass against each one, with per-node
// failure isolation and explicit retries.
//
// Commands: init, up, retry, status, version.
//
// For detailed usage information, run:
//
//	orchestrate --help
package main

import (
	"fmt"
	"os"

	"github.com/routerlab/orchestrate/cmd/orchestrate/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
