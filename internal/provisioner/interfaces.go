package provisioner

import "context"

// InstanceHandle identifies a live virtual machine instance at the
// virtualization boundary. ID is provider-specific; Address is the
// instance's reachable IP.
type InstanceHandle struct {
	ID       string
	Hostname string
	Address  string
}

// InstanceProvider is the virtualization driver boundary. Implementations
// must make CreateOrReuseInstance idempotent: if an instance named
// hostname already exists it is returned as-is, never recreated. A
// created-but-unconfigured instance left behind by an earlier failure
// must therefore be picked up again on retry.
type InstanceProvider interface {
	CreateOrReuseInstance(ctx context.Context, hostname, address, baseImage string) (InstanceHandle, error)
}

// PlaybookRunner is the configuration-management boundary: it applies
// the named playbook to a live instance, with params as the per-node
// parameterization surface.
type PlaybookRunner interface {
	ApplyPlaybook(ctx context.Context, handle InstanceHandle, playbookRef string, params map[string]string) error
}
