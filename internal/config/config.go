package config

import (
	"errors"
	"fmt"
)

// Defaults applied by Load when the corresponding field is absent.
const (
	DefaultMaxParallel = 4
	DefaultBaseImage   = "debian-12"
	DefaultServerType  = "cx22"
	DefaultLocation    = "fsn1"
	DefaultSSHUser     = "root"
)

// ErrInvalidTopology indicates the topology description cannot drive a
// provisioning run. Validation failures are fatal before any external
// side effect occurs.
var ErrInvalidTopology = errors.New("invalid topology")

// Topology is the declarative description of the lab fleet.
type Topology struct {
	// Count is the number of router nodes in the fleet.
	Count int `yaml:"count"`
	// BaseAddressPrefix is the first three octets of the lab network,
	// e.g. "172.28.128".
	BaseAddressPrefix string `yaml:"base_address_prefix"`
	// AddressOffsetBase is added to each node id to form the final
	// address octet.
	AddressOffsetBase int `yaml:"address_offset_base"`
	// HostnamePrefix is prepended to each node id to form its hostname.
	HostnamePrefix string `yaml:"hostname_prefix"`
	// MaxParallel bounds concurrent node provisioning.
	MaxParallel int `yaml:"max_parallel"`

	BaseImage  string   `yaml:"base_image"`
	ServerType string   `yaml:"server_type"`
	Location   string   `yaml:"location"`
	Playbook   Playbook `yaml:"playbook"`
	SSH        SSH      `yaml:"ssh"`
}

// Playbook names the configuration pass applied to every node.
type Playbook struct {
	Ref string `yaml:"ref"`
	// ExtraVars are merged into each node's parameters; per-node values
	// (machine_id) win on conflict.
	ExtraVars map[string]string `yaml:"extra_vars"`
}

// SSH configures how the configuration pass reaches the nodes.
type SSH struct {
	User    string `yaml:"user"`
	KeyPath string `yaml:"key_path"`
}

// Validate checks the fields the orchestrator cannot default. Address
// arithmetic (offset overflow) is validated by the node spec builder.
func (t *Topology) Validate() error {
	if t.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidTopology, t.Count)
	}
	if t.BaseAddressPrefix == "" {
		return fmt.Errorf("%w: base_address_prefix is required", ErrInvalidTopology)
	}
	if t.HostnamePrefix == "" {
		return fmt.Errorf("%w: hostname_prefix is required", ErrInvalidTopology)
	}
	if t.MaxParallel < 0 {
		return fmt.Errorf("%w: max_parallel must not be negative, got %d", ErrInvalidTopology, t.MaxParallel)
	}
	if t.Playbook.Ref == "" {
		return fmt.Errorf("%w: playbook.ref is required", ErrInvalidTopology)
	}
	return nil
}

// applyDefaults fills unset optional fields.
func (t *Topology) applyDefaults() {
	if t.MaxParallel == 0 {
		t.MaxParallel = DefaultMaxParallel
	}
	if t.BaseImage == "" {
		t.BaseImage = DefaultBaseImage
	}
	if t.ServerType == "" {
		t.ServerType = DefaultServerType
	}
	if t.Location == "" {
		t.Location = DefaultLocation
	}
	if t.SSH.User == "" {
		t.SSH.User = DefaultSSHUser
	}
}
