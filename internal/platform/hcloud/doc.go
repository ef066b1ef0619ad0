// Package hcloud implements the virtualization driver boundary on the
// Hetzner Cloud API. Instance creation is idempotent: an existing server
// with the node's hostname is reused, never recreated, so a failed run
// can be retried safely.
package hcloud
