// Package provisioner adapts the external virtualization and
// configuration-management tools behind a single per-node Apply
// operation.
//
// Apply first ensures a virtual machine instance exists for the node
// (creating it from the base image if absent, reusing it otherwise),
// then runs the configuration pass against the live instance. Every
// failure in either step is captured in the returned Result; nothing
// escapes the adapter boundary, so one node's failure can never abort
// another node's attempt.
package provisioner
