package provisioner

import "fmt"

// ProviderError indicates the virtualization driver failed to create or
// locate the node's instance.
type ProviderError struct {
	Hostname string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: instance %s: %v", e.Hostname, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PlaybookError indicates the configuration pass failed against a live
// instance.
type PlaybookError struct {
	Hostname string
	Playbook string
	Err      error
}

func (e *PlaybookError) Error() string {
	return fmt.Sprintf("playbook %s on %s: %v", e.Playbook, e.Hostname, e.Err)
}

func (e *PlaybookError) Unwrap() error { return e.Err }
